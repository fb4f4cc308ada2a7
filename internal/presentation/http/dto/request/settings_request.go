package request

// UpdateSettingsRequest represents the update business settings request body
type UpdateSettingsRequest struct {
	BusinessName  *string `json:"business_name,omitempty" binding:"omitempty,min=1,max=255"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty" binding:"omitempty,email"`
	TaxID         *string `json:"tax_id,omitempty"`
	CurrencyLabel *string `json:"currency_label,omitempty" binding:"omitempty,max=10"`
	BillPrefix    *string `json:"bill_prefix,omitempty" binding:"omitempty,max=20"`
	Terms         *string `json:"terms,omitempty"`
	ThankYouNote  *string `json:"thank_you_note,omitempty" binding:"omitempty,max=255"`
}
