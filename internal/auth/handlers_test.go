package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*fiber.App, *gorm.DB, *miniredis.Miniredis) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr := miniredis.RunT(t)
	cfg := middleware.SessionConfig{
		Secret:   "test-secret",
		RedisURL: "redis://" + mr.Addr(),
	}
	session, rdb, err := middleware.Session(cfg)
	require.NoError(t, err)

	h := &Handlers{Service: &Service{DB: db}, Rdb: rdb, Config: cfg}
	app := fiber.New()
	app.Use(session)
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Get("/auth/me", middleware.RequireAuth(), h.Me)
	app.Delete("/auth/logout", middleware.RequireAuth(), h.Logout)
	return app, db, mr
}

func postJSON(t *testing.T, app *fiber.App, url string, body interface{}, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func get(t *testing.T, app *fiber.App, method, url string, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, url, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func registerBody() fiber.Map {
	return fiber.Map{
		"name":     "Jamie Park",
		"email":    "jamie@campus.test",
		"password": "sw0rdfish!",
		"campus":   "North",
	}
}

func TestRegister_CreatesAccountAndSession(t *testing.T) {
	app, db, _ := setupAuthTest(t)

	resp, result := postJSON(t, app, "/auth/register", registerBody())
	require.Equal(t, 201, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Jamie Park", data["name"])
	// password hash never leaves the server
	_, leaked := data["password_hash"]
	assert.False(t, leaked)

	var u models.User
	require.NoError(t, db.Where("email = ?", "jamie@campus.test").First(&u).Error)
	assert.NotEqual(t, "sw0rdfish!", u.PasswordHash)

	// register logs the user in immediately
	ck := sessionCookie(t, resp)
	resp, result = get(t, app, "GET", "/auth/me", ck)
	require.Equal(t, 200, resp.StatusCode)
	me := result["data"].(map[string]interface{})
	assert.Equal(t, "jamie@campus.test", me["email"])
}

func TestRegister_Validation(t *testing.T) {
	app, _, _ := setupAuthTest(t)

	for name, mutate := range map[string]func(fiber.Map){
		"bad email":     func(b fiber.Map) { b["email"] = "not-an-email" },
		"weak password": func(b fiber.Map) { b["password"] = "short1!" },
		"no special":    func(b fiber.Map) { b["password"] = "password123" },
		"bad name":      func(b fiber.Map) { b["name"] = "x3<script>" },
	} {
		t.Run(name, func(t *testing.T) {
			body := registerBody()
			mutate(body)
			resp, _ := postJSON(t, app, "/auth/register", body)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _, _ := setupAuthTest(t)

	resp, _ := postJSON(t, app, "/auth/register", registerBody())
	require.Equal(t, 201, resp.StatusCode)

	resp, result := postJSON(t, app, "/auth/register", registerBody())
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "An account with this email already exists", result["message"])
}

func TestLogin(t *testing.T) {
	app, _, _ := setupAuthTest(t)
	resp, _ := postJSON(t, app, "/auth/register", registerBody())
	require.Equal(t, 201, resp.StatusCode)

	resp, result := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "jamie@campus.test", "password": "sw0rdfish!",
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Login successful", result["message"])
	ck := sessionCookie(t, resp)

	resp, _ = get(t, app, "GET", "/auth/me", ck)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestLogin_WrongCredentials(t *testing.T) {
	app, _, _ := setupAuthTest(t)
	resp, _ := postJSON(t, app, "/auth/register", registerBody())
	require.Equal(t, 201, resp.StatusCode)

	// wrong password and unknown email look identical to the caller
	resp, result := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "jamie@campus.test", "password": "wrong-pass1!",
	})
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", result["message"])

	resp, result = postJSON(t, app, "/auth/login", fiber.Map{
		"email": "nobody@campus.test", "password": "sw0rdfish!",
	})
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", result["message"])

	resp, _ = postJSON(t, app, "/auth/login", fiber.Map{})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestMe_RequiresSession(t *testing.T) {
	app, _, _ := setupAuthTest(t)
	resp, _ := get(t, app, "GET", "/auth/me")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogout_DestroysSession(t *testing.T) {
	app, db, mr := setupAuthTest(t)
	resp, _ := postJSON(t, app, "/auth/register", registerBody())
	require.Equal(t, 201, resp.StatusCode)
	ck := sessionCookie(t, resp)
	require.True(t, mr.Exists(middleware.SessionRedisPrefix+ck.Value))

	var u models.User
	require.NoError(t, db.Where("email = ?", "jamie@campus.test").First(&u).Error)
	sessionsKey := "user_sessions:" + u.UserID.String()
	members, err := mr.SMembers(sessionsKey)
	require.NoError(t, err)
	require.Contains(t, members, ck.Value)

	resp, _ = get(t, app, "DELETE", "/auth/logout", ck)
	require.Equal(t, 200, resp.StatusCode)
	assert.False(t, mr.Exists(middleware.SessionRedisPrefix + ck.Value))

	// the session id is withdrawn from the user's session set, and no
	// nil-uuid key appears
	members, _ = mr.SMembers(sessionsKey)
	assert.NotContains(t, members, ck.Value)
	assert.False(t, mr.Exists("user_sessions:"+uuid.Nil.String()))

	resp, _ = get(t, app, "GET", "/auth/me", ck)
	assert.Equal(t, 401, resp.StatusCode)
}
