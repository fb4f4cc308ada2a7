package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessSettings is the single business profile printed on every receipt
type BusinessSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessName string    `gorm:"size:255;not null;default:'My Business'" json:"business_name"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:255" json:"email"`
	TaxID        string    `gorm:"size:50" json:"tax_id"`

	CurrencyLabel string `gorm:"size:10;default:'Rs.'" json:"currency_label"`
	BillPrefix    string `gorm:"size:20;default:'INV-'" json:"bill_prefix"`
	Terms         string `gorm:"type:text" json:"terms"`
	ThankYouNote  string `gorm:"size:255;default:'Thank you for your business!'" json:"thank_you_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *BusinessSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BusinessSettings model
func (BusinessSettings) TableName() string {
	return "business_settings"
}
