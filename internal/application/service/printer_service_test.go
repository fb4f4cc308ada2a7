package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/pkg/printer"
)

// recordingPrinter captures everything sent to Print.
type recordingPrinter struct {
	jobs      [][]byte
	connected bool
}

func (p *recordingPrinter) Print(data []byte) error {
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *recordingPrinter) Close() error      { return nil }
func (p *recordingPrinter) IsConnected() bool { return p.connected }

// receiptText strips ESC/POS command bytes, leaving the printed text with
// line feeds intact.
func receiptText(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); {
		switch data[i] {
		case printer.ESC:
			if i+1 < len(data) && data[i+1] == '@' {
				i += 2
			} else {
				i += 3 // ESC a n, ESC E n
			}
		case printer.GS:
			i += 3 // GS ! n, GS V n
		default:
			b.WriteByte(data[i])
			i++
		}
	}
	return b.String()
}

func receiptLines(data []byte) []string {
	return strings.Split(receiptText(data), "\n")
}

func newFormatService() *PrinterService {
	return NewPrinterService(printer.NewNullPrinter(), nil, nil, 32)
}

func simpleReceipt(items ...entity.ReceiptItem) *entity.Receipt {
	var subTotal float64
	for _, it := range items {
		subTotal += it.Total
	}
	return &entity.Receipt{
		Header:     entity.ReceiptHeader{BusinessName: "Test Shop"},
		BillNo:     "INV-0007",
		Date:       "02 Jan 2026 10:30",
		Items:      items,
		SubTotal:   subTotal,
		GrandTotal: subTotal,
	}
}

func TestFormatReceiptScenario(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 2, Rate: 50, Total: 100})

	text := receiptText(svc.FormatReceipt(r))

	if !strings.Contains(text, "TEST SHOP") {
		t.Error("missing uppercased business name")
	}
	wantItem := "Widget      " + "  2" + "  50.00" + "  100.00"
	if !strings.Contains(text, wantItem) {
		t.Errorf("missing item line %q in:\n%s", wantItem, text)
	}
	if !strings.Contains(text, "Total: Rs.100.00") {
		t.Errorf("missing grand total line in:\n%s", text)
	}
}

func TestFormatReceiptItemLineCount(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(
		entity.ReceiptItem{Name: "Pen", Quantity: 1, Rate: 10, Total: 10},
		entity.ReceiptItem{Name: "Pencil", Quantity: 2, Rate: 5, Total: 10},
		entity.ReceiptItem{Name: "Eraser", Quantity: 3, Rate: 2, Total: 6},
	)

	text := receiptText(svc.FormatReceipt(r))

	for _, name := range []string{"Pen ", "Pencil ", "Eraser "} {
		if strings.Count(text, name) != 1 {
			t.Errorf("item %q appears %d times, want 1", name, strings.Count(text, name))
		}
	}
	if strings.Contains(text, "Discount") {
		t.Error("discount line emitted for a receipt without discounts")
	}
	if strings.Contains(text, "After discount") {
		t.Error("after-discount line emitted for a receipt without discounts")
	}
}

func TestFormatReceiptItemDiscountLines(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{
		Name: "Widget", Quantity: 2, Rate: 50, Total: 90,
		Discount: &entity.ReceiptDiscount{Type: string(enum.DiscountPercentage), Value: 10, Amount: 10},
	})
	r.SubTotal = 90
	r.GrandTotal = 90

	lines := receiptLines(svc.FormatReceipt(r))

	itemIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Widget") {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		t.Fatalf("item line not found in %q", lines)
	}
	// Gross amount on the item line, then exactly two extra lines.
	if !strings.Contains(lines[itemIdx], "100.00") {
		t.Errorf("item line %q should show gross amount", lines[itemIdx])
	}
	if !strings.Contains(lines[itemIdx+1], "Discount 10% -10.00") {
		t.Errorf("annotation line = %q", lines[itemIdx+1])
	}
	if !strings.Contains(lines[itemIdx+2], "After discount") || !strings.Contains(lines[itemIdx+2], "90.00") {
		t.Errorf("after-discount line = %q", lines[itemIdx+2])
	}
}

func TestFormatReceiptZeroDiscountTreatedAsNone(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{
		Name: "Widget", Quantity: 1, Rate: 50, Total: 50,
		Discount: &entity.ReceiptDiscount{Type: string(enum.DiscountFixed), Value: 0, Amount: 0},
	})

	text := receiptText(svc.FormatReceipt(r))
	if strings.Contains(text, "After discount") {
		t.Error("zero discount must not emit extra lines")
	}
}

func TestFormatReceiptIdempotent(t *testing.T) {
	svc := newFormatService()
	pct := string(enum.DiscountPercentage)
	r := simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 2, Rate: 50, Total: 100})
	r.Discount = &entity.ReceiptDiscount{Type: pct, Value: 5, Amount: 5}
	r.GrandTotal = 95
	r.Notes = "Handle with care"
	r.Terms = "Goods once sold cannot be returned"

	first := svc.FormatReceipt(r)
	second := svc.FormatReceipt(r)
	if !bytes.Equal(first, second) {
		t.Error("formatting the same receipt twice produced different bytes")
	}
}

func TestFormatReceiptKeyValueWidth(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 1, Rate: 50, Total: 50})
	r.Customer = "Ramesh Traders"
	r.Seller = "Asha"
	r.PaymentMode = "cash"

	for _, line := range receiptLines(svc.FormatReceipt(r)) {
		for _, label := range []string{"Bill No", "Date", "Customer", "Seller", "Payment", "Subtotal"} {
			if strings.HasPrefix(line, label) {
				if len(line) != 32 {
					t.Errorf("line %q is %d chars, want 32", line, len(line))
				}
			}
		}
	}
}

func TestFormatReceiptGrandTotalOnce(t *testing.T) {
	svc := newFormatService()

	cases := []*entity.Receipt{
		simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 1, Rate: 50, Total: 50}),
		func() *entity.Receipt {
			r := simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 1, Rate: 50, Total: 50})
			r.Discount = &entity.ReceiptDiscount{Type: string(enum.DiscountFixed), Value: 10, Amount: 10}
			r.GrandTotal = 40
			r.Notes = "note"
			r.Terms = "terms"
			return r
		}(),
	}

	for _, r := range cases {
		text := receiptText(svc.FormatReceipt(r))
		if n := strings.Count(text, "Total: Rs."); n != 1 {
			t.Errorf("grand total appears %d times, want 1", n)
		}
		sep := strings.LastIndex(text, strings.Repeat("=", 32))
		total := strings.Index(text, "Total: Rs.")
		// The last '=' separator is the footer; the one before the total
		// must still precede it.
		first := strings.Index(text, strings.Repeat("=", 32))
		if !(first < total && total < sep) {
			t.Errorf("grand total not between separators (first=%d total=%d last=%d)", first, total, sep)
		}
	}
}

func TestFormatReceiptLongNameTruncated(t *testing.T) {
	svc := newFormatService()
	name := "SuperLongProductName" // 20 chars
	r := simpleReceipt(entity.ReceiptItem{Name: name, Quantity: 1, Rate: 10, Total: 10})

	text := receiptText(svc.FormatReceipt(r))

	if strings.Contains(text, name) {
		t.Error("item name was not truncated")
	}
	want := name[:12] + "."
	if !strings.Contains(text, want) {
		t.Errorf("missing truncated name %q", want)
	}
}

func TestFormatReceiptBoundaryNameNotTruncated(t *testing.T) {
	svc := newFormatService()
	name := "TwelveCharsX" // exactly 12
	r := simpleReceipt(entity.ReceiptItem{Name: name, Quantity: 1, Rate: 10, Total: 10})

	text := receiptText(svc.FormatReceipt(r))
	if !strings.Contains(text, name) {
		t.Errorf("missing name %q", name)
	}
	if strings.Contains(text, name[:12]+".") {
		t.Error("boundary-length name was truncated")
	}
}

func TestFormatReceiptNegativeTotalRenderedAsIs(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{Name: "Refund", Quantity: 1, Rate: -10, Total: -10})
	r.SubTotal = -10
	r.GrandTotal = -10

	text := receiptText(svc.FormatReceipt(r))
	if !strings.Contains(text, "Total: Rs.-10.00") {
		t.Errorf("negative total not rendered as-is:\n%s", text)
	}
}

func TestFormatReceiptTermsWrappedAndCentered(t *testing.T) {
	svc := newFormatService()
	r := simpleReceipt(entity.ReceiptItem{Name: "Widget", Quantity: 1, Rate: 50, Total: 50})
	r.Terms = "Goods once sold cannot be returned or exchanged\n\nAll disputes subject to local jurisdiction"

	lines := receiptLines(svc.FormatReceipt(r))
	var termLines []string
	for _, line := range lines {
		if strings.Contains(line, "Goods") || strings.Contains(line, "returned") ||
			strings.Contains(line, "disputes") || strings.Contains(line, "jurisdiction") ||
			strings.Contains(line, "exchanged") {
			termLines = append(termLines, line)
		}
	}
	if len(termLines) == 0 {
		t.Fatal("terms not rendered")
	}
	for _, line := range termLines {
		if len(line) > 32 {
			t.Errorf("terms line %q exceeds 32 chars", line)
		}
		if strings.TrimSpace(line) == "" {
			t.Error("blank terms line emitted")
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("aaaa bbbb cccc", 9)
	want := []string{"aaaa bbbb", "cccc"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if got := wrapText("\n\n\n", 10); len(got) != 0 {
		t.Errorf("blank input produced %q", got)
	}

	long := wrapText("abcdefghij", 4)
	if len(long) != 3 || long[0] != "abcd" || long[2] != "ij" {
		t.Errorf("hard split = %q", long)
	}
}

func TestTestPrintDocument(t *testing.T) {
	rec := &recordingPrinter{connected: true}
	svc := NewPrinterService(rec, nil, nil, 32)

	if err := svc.TestPrint(); err != nil {
		t.Fatalf("TestPrint: %v", err)
	}
	if len(rec.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(rec.jobs))
	}

	data := rec.jobs[0]
	text := receiptText(data)
	if !strings.Contains(text, "PRINTER TEST") {
		t.Error("missing title line")
	}
	if !strings.Contains(text, "Connection OK") {
		t.Error("missing status line")
	}
	if !bytes.Contains(data, []byte{printer.GS, 'V', 0x00}) {
		t.Error("missing cut command")
	}
}

func TestBuildReceiptFromBill(t *testing.T) {
	pct := enum.DiscountPercentage
	customer := &entity.Customer{ID: uuid.New(), Name: "Ramesh Traders"}
	bill := &entity.Bill{
		BillNo:         "INV-0042",
		BillDate:       time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC),
		Customer:       customer,
		Seller:         "Asha",
		SubTotal:       22550,
		Total:          20295,
		DiscountType:   &pct,
		DiscountValue:  10,
		DiscountAmount: 2255,
		PaymentMode:    "cash",
		Items: []entity.BillItem{
			{Name: "Widget", Quantity: 2, Rate: 5000, Total: 10000},
		},
	}
	settings := &entity.BusinessSettings{
		BusinessName:  "Test Shop",
		Address:       "12 Market Road",
		CurrencyLabel: "Rs.",
		ThankYouNote:  "Thank you!",
	}

	r := BuildReceipt(bill, settings)

	if r.Header.BusinessName != "Test Shop" {
		t.Errorf("BusinessName = %q", r.Header.BusinessName)
	}
	if r.Customer != "Ramesh Traders" {
		t.Errorf("Customer = %q", r.Customer)
	}
	if r.SubTotal != 225.50 {
		t.Errorf("SubTotal = %v, want 225.50", r.SubTotal)
	}
	if r.GrandTotal != 202.95 {
		t.Errorf("GrandTotal = %v, want 202.95", r.GrandTotal)
	}
	if r.Discount == nil || r.Discount.Amount != 22.55 {
		t.Errorf("Discount = %+v", r.Discount)
	}
	if len(r.Items) != 1 || r.Items[0].Rate != 50 || r.Items[0].Total != 100 {
		t.Errorf("Items = %+v", r.Items)
	}
	if r.Date != "02 Jan 2026 10:30" {
		t.Errorf("Date = %q", r.Date)
	}
}

func TestPrinterStatus(t *testing.T) {
	rec := &recordingPrinter{connected: true}
	svc := NewPrinterService(rec, nil, nil, 32)

	status := svc.GetStatus()
	if !status.Supported {
		t.Error("non-bluetooth printers are always supported")
	}
	if !status.Connected {
		t.Error("Connected = false, want true")
	}

	if err := svc.Connect(context.Background()); err == nil {
		t.Error("Connect on non-bluetooth printer should fail")
	}
	if err := svc.Disconnect(); err == nil {
		t.Error("Disconnect on non-bluetooth printer should fail")
	}
}
