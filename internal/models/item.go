package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Item condition values.
const (
	ConditionNew        = "New"
	ConditionLikeNew    = "Like New"
	ConditionVeryGood   = "Very Good"
	ConditionGood       = "Good"
	ConditionFair       = "Fair"
	ConditionAcceptable = "Acceptable"
	ConditionPoor       = "Poor"
)

// Item listing types.
const (
	TypeSell     = "Sell"
	TypeLend     = "Lend"
	TypeExchange = "Exchange"
)

// Item availability values. Reserved means a live (pending/accepted)
// transaction references the item.
const (
	AvailabilityAvailable = "Available"
	AvailabilityReserved  = "Reserved"
	AvailabilitySold      = "Sold"
)

// Item is a book or item offered for sale, lending, or exchange.
// Price is required when Type is Sell and absent otherwise.
type Item struct {
	ItemID       uuid.UUID      `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Description  string         `gorm:"column:description;not null" json:"description"`
	Categories   datatypes.JSON `gorm:"column:categories;type:json" json:"categories"`
	Condition    string         `gorm:"column:condition;type:varchar(20);not null" json:"condition"`
	Type         string         `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Availability string         `gorm:"column:availability;type:varchar(20);default:'Available'" json:"availability"`
	Price        *float64       `gorm:"column:price;type:decimal(18,2)" json:"price"`
	Images       datatypes.JSON `gorm:"column:images;type:json" json:"images"`
	Tags         datatypes.JSON `gorm:"column:tags;type:json" json:"tags"`
	OwnerID      uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}

// ValidConditions lists accepted condition values in display order.
var ValidConditions = []string{
	ConditionNew, ConditionLikeNew, ConditionVeryGood, ConditionGood,
	ConditionFair, ConditionAcceptable, ConditionPoor,
}

// ValidTypes lists accepted listing types.
var ValidTypes = []string{TypeSell, TypeLend, TypeExchange}

// IsValidCondition reports whether s is a known condition value.
func IsValidCondition(s string) bool {
	for _, c := range ValidConditions {
		if c == s {
			return true
		}
	}
	return false
}

// IsValidType reports whether s is a known listing type.
func IsValidType(s string) bool {
	for _, t := range ValidTypes {
		if t == s {
			return true
		}
	}
	return false
}
