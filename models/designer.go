package models

import (
	"time"

	"gorm.io/gorm"
)

// Designer represents an embroidery pattern designer selling on the platform
type Designer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StoreName    string         `gorm:"not null" json:"store_name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Earnings     float64        `gorm:"not null;default:0" json:"earnings"`      // running balance credited on order completion
	PaidEarnings float64        `gorm:"not null;default:0" json:"paid_earnings"` // payouts already made, informational only
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Designer model
func (Designer) TableName() string {
	return "designers"
}

// UnpaidEarnings returns the balance still owed to the designer
func (d *Designer) UnpaidEarnings() float64 {
	return d.Earnings - d.PaidEarnings
}
