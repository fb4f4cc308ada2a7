package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/internal/domain/repository"
	"github.com/saralbooks/saral-api/pkg/apperror"
	"github.com/saralbooks/saral-api/pkg/printer"
)

// Item name column width on the receipt. Longer names are cut to this and
// marked with a trailing dot.
const itemNameWidth = 12

// PrinterService formats receipts and drives the configured printer
type PrinterService struct {
	printer      printer.Printer
	billRepo     repository.BillRepository
	settingsRepo repository.SettingsRepository
	paperWidth   int
}

// NewPrinterService creates a new printer service. paperWidth is the line
// width in characters (32 for 58mm paper).
func NewPrinterService(p printer.Printer, billRepo repository.BillRepository, settingsRepo repository.SettingsRepository, paperWidth int) *PrinterService {
	if paperWidth <= 0 {
		paperWidth = 32
	}
	return &PrinterService{
		printer:      p,
		billRepo:     billRepo,
		settingsRepo: settingsRepo,
		paperWidth:   paperWidth,
	}
}

// PrinterStatus describes the configured printer for API consumers
type PrinterStatus struct {
	Supported  bool   `json:"supported"`
	Connected  bool   `json:"connected"`
	DeviceName string `json:"device_name,omitempty"`
}

// GetStatus reports printer capability, connection state and device name
func (s *PrinterService) GetStatus() *PrinterStatus {
	status := &PrinterStatus{
		Supported: true,
		Connected: s.printer.IsConnected(),
	}
	if bt, ok := s.printer.(*printer.BluetoothPrinter); ok {
		status.Supported = bt.Supported()
		if name, ok := bt.DeviceName(); ok {
			status.DeviceName = name
		}
	}
	return status
}

// Connect establishes the Bluetooth link. Non-Bluetooth printers connect
// per print job and reject explicit connect calls.
func (s *PrinterService) Connect(ctx context.Context) error {
	bt, ok := s.printer.(*printer.BluetoothPrinter)
	if !ok {
		return apperror.NewBadRequestError("Connect is only supported for Bluetooth printers")
	}
	return bt.Connect(ctx)
}

// Disconnect tears down the Bluetooth link; a no-op when already disconnected
func (s *PrinterService) Disconnect() error {
	bt, ok := s.printer.(*printer.BluetoothPrinter)
	if !ok {
		return apperror.NewBadRequestError("Disconnect is only supported for Bluetooth printers")
	}
	return bt.Disconnect()
}

// TestPrint sends a minimal fixed document to validate the connection
// without needing a real bill.
func (s *PrinterService) TestPrint() error {
	doc := printer.NewDocument(s.paperWidth)
	doc.SetAlign(printer.AlignCenter).SetBold(true)
	doc.Text("PRINTER TEST")
	doc.SetBold(false)
	doc.Separator('-')
	doc.Text("Connection OK")
	doc.SetAlign(printer.AlignLeft)
	doc.FeedLines(3)
	doc.Cut()
	return s.printer.Print(doc.Bytes())
}

// PrintBill prints the receipt for an existing bill
func (s *PrinterService) PrintBill(ctx context.Context, billID uuid.UUID) error {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return apperror.NewNotFoundError("Bill")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}

	receipt := BuildReceipt(bill, settings)
	return s.printer.Print(s.FormatReceipt(receipt))
}

// BuildReceipt composes the immutable print job for one bill from bill and
// settings data. Cents are converted to currency units here; the formatter
// only renders.
func BuildReceipt(bill *entity.Bill, settings *entity.BusinessSettings) *entity.Receipt {
	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			BusinessName: settings.BusinessName,
			Address:      settings.Address,
			Phone:        settings.Phone,
			Email:        settings.Email,
			TaxID:        settings.TaxID,
		},
		BillNo:        bill.BillNo,
		Date:          bill.BillDate.Format("02 Jan 2006 15:04"),
		Seller:        bill.Seller,
		PaymentMode:   bill.PaymentMode,
		SubTotal:      float64(bill.SubTotal) / 100,
		GrandTotal:    float64(bill.Total) / 100,
		Notes:         bill.Notes,
		Terms:         bill.Terms,
		CurrencyLabel: settings.CurrencyLabel,
		ThankYouNote:  settings.ThankYouNote,
	}
	if bill.Customer != nil {
		r.Customer = bill.Customer.Name
	}
	if bill.DiscountType != nil && bill.DiscountAmount > 0 {
		r.Discount = &entity.ReceiptDiscount{
			Type:   string(*bill.DiscountType),
			Value:  bill.DiscountValue,
			Amount: float64(bill.DiscountAmount) / 100,
		}
	}

	r.Items = make([]entity.ReceiptItem, 0, len(bill.Items))
	for _, item := range bill.Items {
		ri := entity.ReceiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Rate:     float64(item.Rate) / 100,
			Total:    float64(item.Total) / 100,
		}
		if item.DiscountType != nil && item.DiscountAmount > 0 {
			ri.Discount = &entity.ReceiptDiscount{
				Type:   string(*item.DiscountType),
				Value:  item.DiscountValue,
				Amount: float64(item.DiscountAmount) / 100,
			}
		}
		r.Items = append(r.Items, ri)
	}

	return r
}

// FormatReceipt is the pure transformation from a receipt to its ESC/POS
// byte stream. It performs no I/O and no clamping; amounts are rendered
// as supplied. Formatting the same receipt twice yields identical bytes.
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	currency := r.CurrencyLabel
	if currency == "" {
		currency = "Rs."
	}
	thankYou := r.ThankYouNote
	if thankYou == "" {
		thankYou = "Thank you for your business!"
	}

	doc := printer.NewDocument(s.paperWidth)

	// Header: business name centered, bold, double scale; profile lines
	// centered at normal scale, absent fields skipped.
	doc.SetAlign(printer.AlignCenter)
	doc.SetBold(true).SetFontSize(printer.FontDouble)
	doc.Text(strings.ToUpper(r.Header.BusinessName))
	doc.SetFontSize(printer.FontNormal).SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.Email != "" {
		doc.Text(r.Header.Email)
	}
	if r.Header.TaxID != "" {
		doc.Text("Tax ID: " + r.Header.TaxID)
	}
	doc.SetAlign(printer.AlignLeft)
	doc.Separator('=')

	// Bill metadata, fixed order, absent fields skipped.
	if r.BillNo != "" {
		doc.KeyValue("Bill No", r.BillNo)
	}
	if r.Date != "" {
		doc.KeyValue("Date", r.Date)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer", r.Customer)
	}
	if r.Seller != "" {
		doc.KeyValue("Seller", r.Seller)
	}
	if r.PaymentMode != "" {
		doc.KeyValue("Payment", r.PaymentMode)
	}

	// Item table.
	doc.Separator('-')
	doc.SetBold(true)
	doc.TextF("%-12s%3s%7s%8s", "Item", "Qty", "Rate", "Amount")
	doc.SetBold(false)
	for _, item := range r.Items {
		name := item.Name
		if len(name) > itemNameWidth {
			name = name[:itemNameWidth] + "."
		}
		amount := item.Total
		if item.Discount != nil && item.Discount.Amount > 0 {
			amount = item.Total + item.Discount.Amount
		}
		doc.TextF("%-12s%3d%7.2f%8.2f", name, item.Quantity, item.Rate, amount)

		if item.Discount != nil && item.Discount.Amount > 0 {
			if item.Discount.Type == string(enum.DiscountPercentage) {
				doc.TextF("  Discount %g%% -%.2f", item.Discount.Value, item.Discount.Amount)
			} else {
				doc.TextF("  Discount -%.2f", item.Discount.Amount)
			}
			doc.SetBold(true)
			doc.KeyValue("  After discount", fmt.Sprintf("%.2f", item.Total))
			doc.SetBold(false)
		}
	}
	doc.Separator('-')

	// Totals. A receipt built without an explicit subtotal falls back to
	// the grand total.
	subTotal := r.SubTotal
	if subTotal == 0 {
		subTotal = r.GrandTotal
	}
	doc.KeyValue("Subtotal", fmt.Sprintf("%.2f", subTotal))
	if r.Discount != nil && r.Discount.Amount > 0 {
		label := "Discount"
		if r.Discount.Type == string(enum.DiscountPercentage) {
			label = fmt.Sprintf("Discount (%g%%)", r.Discount.Value)
		}
		doc.KeyValue(label, fmt.Sprintf("-%.2f", r.Discount.Amount))
	}
	doc.Separator('=')
	doc.SetAlign(printer.AlignRight).SetBold(true).SetFontSize(printer.FontDouble)
	doc.TextF("Total: %s%.2f", currency, r.GrandTotal)
	doc.SetFontSize(printer.FontNormal).SetBold(false).SetAlign(printer.AlignLeft)

	if r.Notes != "" {
		doc.Separator('-')
		doc.Text("Note: " + r.Notes)
	}
	if r.Terms != "" {
		doc.Separator('-')
		doc.SetAlign(printer.AlignCenter)
		for _, line := range wrapText(r.Terms, doc.Width()) {
			doc.Text(line)
		}
		doc.SetAlign(printer.AlignLeft)
	}

	// Footer.
	doc.Separator('=')
	doc.SetAlign(printer.AlignCenter)
	doc.Text(thankYou)
	doc.SetAlign(printer.AlignLeft)
	doc.FeedLines(3)
	doc.Cut()

	return doc.Bytes()
}

// wrapText word-wraps free text to the given width. Blank lines are
// dropped; a single word longer than the width is hard-split.
func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		var line string
		for _, word := range words {
			for len(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:width])
				word = word[width:]
			}
			if word == "" {
				continue
			}
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
