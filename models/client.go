package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a buyer in the marketplace
type Client struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone          *string        `json:"phone"`
	TelegramChatID *string        `gorm:"index" json:"telegram_chat_id"` // delivery address for the bot, nil until the buyer links Telegram
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// HasTelegram reports whether the client has linked a Telegram chat
func (c *Client) HasTelegram() bool {
	return c.TelegramChatID != nil && *c.TelegramChatID != ""
}
