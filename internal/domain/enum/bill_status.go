package enum

// BillStatus represents the lifecycle state of a bill
type BillStatus int

const (
	BillStatusPending BillStatus = iota
	BillStatusPaid
	BillStatusCancelled
)

// String returns the string representation of the bill status
func (s BillStatus) String() string {
	switch s {
	case BillStatusPending:
		return "pending"
	case BillStatusPaid:
		return "paid"
	case BillStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
