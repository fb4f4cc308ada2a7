package enum

// DiscountType distinguishes fixed-amount and percentage discounts
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Valid reports whether the value is a known discount type
func (t DiscountType) Valid() bool {
	return t == DiscountFixed || t == DiscountPercentage
}
