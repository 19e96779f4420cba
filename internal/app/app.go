package app

import (
	"campusxchange-backend/internal/auth"
	"campusxchange-backend/internal/config"
	"campusxchange-backend/internal/database"
	"campusxchange-backend/internal/health"
	"campusxchange-backend/internal/items"
	"campusxchange-backend/internal/messaging"
	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/profile"
	"campusxchange-backend/internal/reviews"
	"campusxchange-backend/internal/transactions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis clients so main can verify
// connectivity before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendSuffix,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Request id + logging
	app.Use(middleware.RequestLog())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	// db may be nil if DATABASE_URL is not set (e.g. fixture-less tests);
	// only the health endpoint is mounted then.
	if db == nil {
		return app, db, rdb, nil
	}

	// Auth: register/login public, me/logout on the session
	authHandlers := &auth.Handlers{
		Service: &auth.Service{DB: db},
		Rdb:     rdb,
		Config:  sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Items: browse public, writes owner-gated
	itemsService := &items.Service{DB: db}
	itemsHandlers := &items.Handlers{Service: itemsService}
	itemsGroup := app.Group("/api/v1/items")
	itemsGroup.Get("/", itemsHandlers.GetItems)
	itemsGroup.Get("/:item_id", itemsHandlers.GetItem)
	itemsGroup.Post("/", middleware.RequireAuth(), itemsHandlers.CreateItem)
	itemsGroup.Put("/:item_id", middleware.RequireAuth(), itemsHandlers.UpdateItem)
	itemsGroup.Delete("/:item_id", middleware.RequireAuth(), itemsHandlers.DeleteItem)

	// Transactions: all participant-scoped
	txService := &transactions.Service{DB: db}
	txHandlers := &transactions.Handlers{Service: txService}
	txGroup := app.Group("/api/v1/transactions", middleware.RequireAuth())
	txGroup.Post("/", txHandlers.CreateTransaction)
	txGroup.Get("/", txHandlers.GetTransactions)
	txGroup.Get("/:transaction_id", txHandlers.GetTransaction)
	txGroup.Put("/:transaction_id", txHandlers.UpdateTransaction)

	// Reviews: reading public, writing by transaction parties
	reviewService := &reviews.Service{DB: db}
	reviewHandlers := &reviews.Handlers{Service: reviewService}
	reviewGroup := app.Group("/api/v1/reviews")
	reviewGroup.Get("/", reviewHandlers.GetReviews)
	reviewGroup.Post("/", middleware.RequireAuth(), reviewHandlers.CreateReview)

	// Messaging
	msgService := &messaging.Service{DB: db}
	msgHandlers := &messaging.Handlers{Service: msgService}
	msgGroup := app.Group("/api/v1/messages", middleware.RequireAuth())
	msgGroup.Get("/", msgHandlers.ListConversations)
	msgGroup.Post("/conversation", msgHandlers.OpenConversation)
	msgGroup.Get("/conversation", msgHandlers.GetMessages)
	msgGroup.Post("/send", msgHandlers.SendMessage)
	msgGroup.Put("/send", msgHandlers.MarkRead)
	msgGroup.Get("/unread", msgHandlers.UnreadCount)

	// Profile: stats for the caller, public view by id
	profileService := &profile.Service{DB: db}
	profileHandlers := &profile.Handlers{Service: profileService, Items: itemsService}
	profileGroup := app.Group("/api/v1/profile")
	profileGroup.Get("/stats", middleware.RequireAuth(), profileHandlers.Stats)
	profileGroup.Get("/items", middleware.RequireAuth(), profileHandlers.MyItems)
	profileGroup.Get("/:user_id", profileHandlers.ViewUser)

	return app, db, rdb, nil
}
