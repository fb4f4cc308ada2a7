package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Bill represents a sales invoice
type Bill struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	BillNo     string          `gorm:"size:100;unique;not null" json:"bill_no"`
	Seq        int64           `gorm:"not null;index" json:"-"`
	BillDate   time.Time       `gorm:"not null;index" json:"bill_date"`
	Status     enum.BillStatus `gorm:"default:0" json:"status"`

	SubTotal       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountType   *enum.DiscountType `gorm:"size:20" json:"discount_type,omitempty"`
	DiscountValue  float64            `gorm:"default:0" json:"discount_value"`
	DiscountAmount int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Paid           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Due            int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON

	PaymentMode string `gorm:"size:50" json:"payment_mode"`
	Seller      string `gorm:"size:255" json:"seller"`
	Notes       string `gorm:"type:text" json:"notes"`
	Terms       string `gorm:"type:text" json:"terms"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		Total          float64 `json:"total"`
		Paid           float64 `json:"paid"`
		Due            float64 `json:"due"`
	}{
		Alias:          Alias(b),
		SubTotal:       float64(b.SubTotal) / 100,
		DiscountAmount: float64(b.DiscountAmount) / 100,
		Total:          float64(b.Total) / 100,
		Paid:           float64(b.Paid) / 100,
		Due:            float64(b.Due) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents a line item on a bill. Name and rate are snapshots
// taken at billing time so later product edits do not rewrite history.
type BillItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Rate      int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON

	DiscountType   *enum.DiscountType `gorm:"size:20" json:"discount_type,omitempty"`
	DiscountValue  float64            `gorm:"default:0" json:"discount_value"`
	DiscountAmount int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total          int64              `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Bill    Bill    `gorm:"foreignKey:BillID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		Rate           float64 `json:"rate"`
		DiscountAmount float64 `json:"discount_amount"`
		Total          float64 `json:"total"`
	}{
		Alias:          Alias(bi),
		Rate:           float64(bi.Rate) / 100,
		DiscountAmount: float64(bi.DiscountAmount) / 100,
		Total:          float64(bi.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
