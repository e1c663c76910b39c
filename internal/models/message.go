package models

import "time"

// Message is a direct message between two users, optionally about a product.
// Only the read flag is mutable after creation.
type Message struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	SenderID   string `gorm:"index" json:"sender_id"`
	Sender     User   `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID string `gorm:"index" json:"receiver_id"`
	Receiver   User   `gorm:"foreignKey:ReceiverID" json:"receiver"`

	ProductID *string  `gorm:"index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	MessageText string `gorm:"type:text" json:"message_text"`
	IsRead      bool   `gorm:"default:false" json:"is_read"`
}

// MaxMessageLength bounds the free-text body of a message
const MaxMessageLength = 1000
