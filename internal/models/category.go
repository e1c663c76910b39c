package models

import "time"

type Category struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	// gorm skips the zero value on struct create; persist false via a map
	// or Select("*")
	IsActive bool `gorm:"default:true" json:"is_active"`

	// Derived count of active products, populated by queries
	ProductsCount int64 `gorm:"-" json:"products_count"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}
