package request

// BillItemRequest is one line item of a new bill
type BillItemRequest struct {
	ProductID     string  `json:"product_id" binding:"required,uuid"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	DiscountType  *string `json:"discount_type,omitempty" binding:"omitempty,oneof=fixed percentage"`
	DiscountValue float64 `json:"discount_value,omitempty"`
}

// CreateBillRequest represents the create bill request body.
// Monetary values are in currency units.
type CreateBillRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty" binding:"omitempty,uuid"`
	Items         []BillItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountType  *string           `json:"discount_type,omitempty" binding:"omitempty,oneof=fixed percentage"`
	DiscountValue float64           `json:"discount_value,omitempty"`
	PaymentMode   string            `json:"payment_mode,omitempty"`
	Paid          float64           `json:"paid,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Terms         string            `json:"terms,omitempty"`
}

// RecordPaymentRequest represents a payment against an existing bill
type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Mode   string  `json:"mode,omitempty"`
	Note   string  `json:"note,omitempty"`
}
