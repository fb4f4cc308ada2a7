package entity

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
}

// ReceiptDiscount describes a discount applied to an item or a whole bill.
// Amount is the computed reduction in currency units.
type ReceiptDiscount struct {
	Type   string  `json:"type"` // "fixed" or "percentage"
	Value  float64 `json:"value"`
	Amount float64 `json:"amount"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Rate     float64          `json:"rate"`
	Total    float64          `json:"total"`
	Discount *ReceiptDiscount `json:"discount,omitempty"`
}

// Receipt is the fully-resolved print job for one receipt. It is NOT a
// database entity — it is composed from bill + settings data at print time,
// is immutable once built, and is discarded after transmission. All amounts
// are already validated and totaled upstream; the formatter performs no
// clamping.
type Receipt struct {
	Header      ReceiptHeader    `json:"header"`
	BillNo      string           `json:"bill_no"`
	Date        string           `json:"date"`
	Customer    string           `json:"customer,omitempty"`
	Seller      string           `json:"seller,omitempty"`
	PaymentMode string           `json:"payment_mode,omitempty"`
	Items       []ReceiptItem    `json:"items"`
	Discount    *ReceiptDiscount `json:"discount,omitempty"`
	SubTotal    float64          `json:"sub_total"`
	GrandTotal  float64          `json:"grand_total"`
	Notes       string           `json:"notes,omitempty"`
	Terms       string           `json:"terms,omitempty"`

	// CurrencyLabel prefixes the grand total, e.g. "Rs.". Defaults to "Rs."
	// when empty.
	CurrencyLabel string `json:"currency_label,omitempty"`
	// ThankYouNote is the centered footer line.
	ThankYouNote string `json:"thank_you_note,omitempty"`
}
