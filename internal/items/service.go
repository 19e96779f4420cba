package items

import (
	"context"
	"encoding/json"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"
	"campusxchange-backend/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateItemInput struct {
	Title       string
	Description string
	Categories  []string
	Condition   string
	Type        string
	Price       *float64
	Images      []string
	Tags        []string
}

// CreateItem validates and persists a new listing owned by ownerID.
// Price must be present and non-negative for Sell items; for Lend and
// Exchange it is dropped.
func (s *Service) CreateItem(ctx context.Context, ownerID uuid.UUID, in CreateItemInput) (*models.Item, error) {
	if in.Title == "" || in.Description == "" {
		return nil, apperr.InvalidArgument("Title and description are required")
	}
	if len(in.Categories) == 0 {
		return nil, apperr.InvalidArgument("At least one category is required")
	}
	if !models.IsValidCondition(in.Condition) {
		return nil, apperr.InvalidArgument("Invalid condition")
	}
	if !models.IsValidType(in.Type) {
		return nil, apperr.InvalidArgument("Invalid listing type")
	}
	price := in.Price
	if in.Type == models.TypeSell {
		if price == nil {
			return nil, apperr.InvalidArgument("Price is required for items listed for sale")
		}
		if *price < 0 {
			return nil, apperr.InvalidArgument("Price cannot be negative")
		}
	} else {
		price = nil
	}

	item := &models.Item{
		Title:        in.Title,
		Description:  in.Description,
		Categories:   toJSON(in.Categories),
		Condition:    in.Condition,
		Type:         in.Type,
		Availability: models.AvailabilityAvailable,
		Price:        price,
		Images:       toJSON(in.Images),
		Tags:         toJSON(in.Tags),
		OwnerID:      ownerID,
	}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return item, nil
}

// GetItem fetches one listing by id.
func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, apperr.Internal(err)
	}
	return &item, nil
}

// Sort orders accepted by FindItems.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type FindItemsInput struct {
	Category     string
	Condition    string
	Type         string
	Availability string // empty = Available; "all" disables the filter
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
	Sort         string
	Page         pagination.Params
}

// FindItems is the read-side search projection: equality filters, price
// range, free-text match over title/description plus exact tag membership,
// pagination and sort.
func (s *Service) FindItems(ctx context.Context, in FindItemsInput) ([]models.Item, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Item{})

	availability := in.Availability
	if availability == "" {
		availability = models.AvailabilityAvailable
	}
	if availability != "all" {
		q = q.Where("availability = ?", availability)
	}
	if in.Category != "" {
		q = q.Where(datatypes.JSONArrayQuery("categories").Contains(in.Category))
	}
	if in.Condition != "" {
		q = q.Where("condition = ?", in.Condition)
	}
	if in.Type != "" {
		q = q.Where("type = ?", in.Type)
	}
	if in.MinPrice != nil {
		q = q.Where("price >= ?", *in.MinPrice)
	}
	if in.MaxPrice != nil {
		q = q.Where("price <= ?", *in.MaxPrice)
	}
	if in.Search != "" {
		needle := "%" + in.Search + "%"
		q = q.Where(
			s.DB.Where("title LIKE ?", needle).
				Or("description LIKE ?", needle).
				Or(datatypes.JSONArrayQuery("tags").Contains(in.Search)),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	switch in.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC")
	case SortPriceDesc:
		q = q.Order("price DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var items []models.Item
	if err := q.Offset(in.Page.Offset()).Limit(in.Page.Limit).Find(&items).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return items, total, nil
}

// ListOwned returns every listing owned by ownerID, newest first. Unlike
// FindItems there is no availability default: owners see their Reserved and
// Sold listings too.
func (s *Service) ListOwned(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]models.Item, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Item{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var items []models.Item
	err := q.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return items, total, nil
}

// UpdateItemInput carries the explicit allow-list of mutable fields. Owner
// and id are never updatable.
type UpdateItemInput struct {
	Title        *string
	Description  *string
	Categories   []string
	Condition    *string
	Type         *string
	Availability *string
	Price        *float64
	Images       []string
	Tags         []string
}

// UpdateItem applies an ownership-gated partial update.
func (s *Service) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, in UpdateItemInput) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperr.Forbidden("Not authorized to update this item")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.InvalidArgument("Title cannot be empty")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, apperr.InvalidArgument("Description cannot be empty")
		}
		updates["description"] = *in.Description
	}
	if in.Categories != nil {
		if len(in.Categories) == 0 {
			return nil, apperr.InvalidArgument("At least one category is required")
		}
		updates["categories"] = toJSON(in.Categories)
	}
	if in.Condition != nil {
		if !models.IsValidCondition(*in.Condition) {
			return nil, apperr.InvalidArgument("Invalid condition")
		}
		updates["condition"] = *in.Condition
	}
	if in.Availability != nil {
		switch *in.Availability {
		case models.AvailabilityAvailable, models.AvailabilityReserved, models.AvailabilitySold:
			updates["availability"] = *in.Availability
		default:
			return nil, apperr.InvalidArgument("Invalid availability")
		}
	}
	if in.Images != nil {
		updates["images"] = toJSON(in.Images)
	}
	if in.Tags != nil {
		updates["tags"] = toJSON(in.Tags)
	}

	// Type and price are coupled: Sell requires a price, Lend/Exchange must
	// not carry one.
	newType := item.Type
	if in.Type != nil {
		if !models.IsValidType(*in.Type) {
			return nil, apperr.InvalidArgument("Invalid listing type")
		}
		newType = *in.Type
		updates["type"] = newType
	}
	if newType == models.TypeSell {
		switch {
		case in.Price != nil:
			if *in.Price < 0 {
				return nil, apperr.InvalidArgument("Price cannot be negative")
			}
			updates["price"] = *in.Price
		case item.Price == nil:
			return nil, apperr.InvalidArgument("Price is required for items listed for sale")
		}
	} else if in.Type != nil || in.Price != nil {
		updates["price"] = gorm.Expr("NULL")
	}

	if len(updates) == 0 {
		return item, nil
	}
	if err := s.DB.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetItem(ctx, itemID)
}

// DeleteItem soft-deletes an owned listing.
func (s *Service) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != ownerID {
		return apperr.Forbidden("Not authorized to delete this item")
	}
	if err := s.DB.WithContext(ctx).Delete(item).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// OwnerStats summarizes a user's listings by availability.
type OwnerStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Reserved  int64 `json:"reserved"`
	Sold      int64 `json:"sold"`
}

func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error) {
	var stats OwnerStats
	base := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&models.Item{}).Where("owner_id = ?", ownerID)
	}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	counts := []struct {
		availability string
		dst          *int64
	}{
		{models.AvailabilityAvailable, &stats.Available},
		{models.AvailabilityReserved, &stats.Reserved},
		{models.AvailabilitySold, &stats.Sold},
	}
	for _, c := range counts {
		if err := base().Where("availability = ?", c.availability).Count(c.dst).Error; err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return &stats, nil
}

func toJSON(ss []string) datatypes.JSON {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return datatypes.JSON(b)
}
