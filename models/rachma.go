package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Rachma represents a digital embroidery pattern listed for sale
type Rachma struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TitleAr    string         `json:"title_ar"`
	TitleFr    string         `json:"title_fr"`
	DesignerID uint           `gorm:"not null;index" json:"designer_id"`
	Designer   Designer       `gorm:"foreignKey:DesignerID" json:"designer"`
	Files      []RachmaFile   `gorm:"foreignKey:RachmaID" json:"files"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Rachma model
func (Rachma) TableName() string {
	return "rachmat"
}

// DisplayTitle returns the pattern title for operator-facing messages,
// preferring the Arabic title, then the French one, then a numeric label.
func (r *Rachma) DisplayTitle() string {
	if r.TitleAr != "" {
		return r.TitleAr
	}
	if r.TitleFr != "" {
		return r.TitleFr
	}
	return fmt.Sprintf("rachma #%d", r.ID)
}

// RachmaFile represents one deliverable artifact of a pattern.
// Size and on-disk existence are derived by probing storage, never persisted.
type RachmaFile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RachmaID     uint           `gorm:"not null;index" json:"rachma_id"`
	Path         string         `gorm:"not null" json:"path"` // relative to the storage root
	OriginalName string         `gorm:"not null" json:"original_name"`
	Format       string         `json:"format"` // e.g. DST, PES, EXP
	IsPrimary    bool           `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the RachmaFile model
func (RachmaFile) TableName() string {
	return "rachma_files"
}
