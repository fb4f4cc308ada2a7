package request

// CreateProductRequest represents the create product request body
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=255"`
	Code          string  `json:"code" binding:"required,min=1,max=100"`
	Rate          float64 `json:"rate" binding:"gte=0"`
	Quantity      int     `json:"quantity" binding:"gte=0"`
	QuantityAlert int     `json:"quantity_alert" binding:"gte=0"`
}

// UpdateProductRequest represents the update product request body
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Code          *string  `json:"code,omitempty" binding:"omitempty,min=1,max=100"`
	Rate          *float64 `json:"rate,omitempty" binding:"omitempty,gte=0"`
	Quantity      *int     `json:"quantity,omitempty" binding:"omitempty,gte=0"`
	QuantityAlert *int     `json:"quantity_alert,omitempty" binding:"omitempty,gte=0"`
}
