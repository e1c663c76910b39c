package models

import "time"

type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string   `json:"name"`
	Email     string   `gorm:"uniqueIndex" json:"email"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Avatar    string   `json:"avatar"`

	Role Role `gorm:"type:text;default:'buyer'" json:"role"`
	// gorm skips the zero value on struct create; persist false via a map
	// or Select("*")
	IsActive bool `gorm:"default:true" json:"is_active"`

	Password string `json:"-"`

	Products []Product `gorm:"foreignKey:UserID" json:"products,omitempty"`
}
