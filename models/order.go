package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a purchase transaction in the marketplace.
// Legacy orders reference a single rachma directly through RachmaID;
// newer multi-item orders carry their patterns as OrderItem rows.
// The two shapes are never both populated.
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Status            OrderStatus    `gorm:"not null;default:'pending'" json:"status"`
	Amount            float64        `gorm:"not null" json:"amount"`
	AdminNotes        *string        `json:"admin_notes"`
	RejectionReason   *string        `json:"rejection_reason"`
	PaymentProofS3Key *string        `json:"payment_proof_s3_key"`
	PaymentProofURL   *string        `gorm:"-" json:"payment_proof_url,omitempty"` // computed, presigned URL for admin review
	ClientID          uint           `gorm:"not null;index" json:"client_id"`
	Client            Client         `gorm:"foreignKey:ClientID" json:"client"`
	RachmaID          *uint          `gorm:"index" json:"rachma_id"` // legacy single-item orders only
	Rachma            *Rachma        `gorm:"foreignKey:RachmaID" json:"rachma,omitempty"`
	Items             []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	ConfirmedAt       *time.Time     `json:"confirmed_at"`
	FileSentAt        *time.Time     `json:"file_sent_at"`
	RejectedAt        *time.Time     `json:"rejected_at"`
	CompletedAt       *time.Time     `json:"completed_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsMultiItem reports whether the order carries line items rather than
// a direct pattern reference
func (o *Order) IsMultiItem() bool {
	return o.RachmaID == nil && len(o.Items) > 0
}

// Rachmat resolves the patterns purchased by this order. A direct
// reference wins; otherwise each line item contributes its pattern,
// and line items whose pattern is gone are dropped.
// Relies on Rachma/Items.Rachma having been preloaded.
func (o *Order) Rachmat() []*Rachma {
	if o.RachmaID != nil && o.Rachma != nil {
		return []*Rachma{o.Rachma}
	}
	rachmat := make([]*Rachma, 0, len(o.Items))
	for i := range o.Items {
		if o.Items[i].Rachma != nil {
			rachmat = append(rachmat, o.Items[i].Rachma)
		}
	}
	return rachmat
}

// OrderItem is one line of a multi-item order, snapshotting the price
// the pattern sold for.
type OrderItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	RachmaID  uint           `gorm:"not null;index" json:"rachma_id"`
	Rachma    *Rachma        `gorm:"foreignKey:RachmaID" json:"rachma,omitempty"`
	Price     float64        `gorm:"not null" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
