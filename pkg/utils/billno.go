package utils

import "fmt"

// FormatBillNo renders a sequential bill number, e.g. "INV-0042"
func FormatBillNo(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}
