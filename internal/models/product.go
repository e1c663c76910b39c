package models

import (
	"time"

	"github.com/lib/pq"
)

type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusSold     ProductStatus = "sold"
	StatusInactive ProductStatus = "inactive"
)

// Product is a listing owned by a user under a category. Status carries no
// transition rules: any valid value may replace any other via update.
type Product struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID     string   `gorm:"index" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"user"`
	CategoryID string   `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	Title       string    `json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `json:"price"`
	Condition   Condition `gorm:"type:text;default:'new'" json:"condition"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`

	Images pq.StringArray `gorm:"type:text[]" json:"images"`

	Status     ProductStatus `gorm:"type:text;default:'active';index" json:"status"`
	Views      int           `gorm:"default:0" json:"views"`
	IsFeatured bool          `gorm:"default:false;index" json:"is_featured"`
}

// ValidCondition reports whether s is one of the accepted condition values
func ValidCondition(s string) bool {
	switch Condition(s) {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the accepted status values
func ValidStatus(s string) bool {
	switch ProductStatus(s) {
	case StatusActive, StatusSold, StatusInactive:
		return true
	}
	return false
}
