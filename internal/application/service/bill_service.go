package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/internal/domain/repository"
	"github.com/saralbooks/saral-api/pkg/apperror"
	"github.com/saralbooks/saral-api/pkg/pagination"
	"github.com/saralbooks/saral-api/pkg/utils"
)

// BillService handles bill creation, payments and cancellation
type BillService struct {
	billRepo     repository.BillRepository
	billItemRepo repository.BillItemRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	settingsRepo repository.SettingsRepository
	userRepo     repository.UserRepository
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	billItemRepo repository.BillItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	settingsRepo repository.SettingsRepository,
	userRepo repository.UserRepository,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		billItemRepo: billItemRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
	}
}

// BillItemInput is one line of a new bill
type BillItemInput struct {
	ProductID     uuid.UUID
	Quantity      int
	DiscountType  *enum.DiscountType
	DiscountValue float64
}

// CreateBillInput represents the create bill input.
// Monetary values are in currency units and converted to cents internally.
type CreateBillInput struct {
	UserID        uuid.UUID
	CustomerID    *uuid.UUID
	Items         []BillItemInput
	DiscountType  *enum.DiscountType
	DiscountValue float64
	PaymentMode   string
	Paid          float64
	Notes         string
	Terms         string
}

// toCents converts a currency-unit amount to cents with half-up rounding.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// discountCents computes the reduction for a discount applied to a base
// amount in cents. The result is clamped to [0, base].
func discountCents(base int64, dt *enum.DiscountType, value float64) int64 {
	if dt == nil || value <= 0 {
		return 0
	}
	var amount int64
	switch *dt {
	case enum.DiscountPercentage:
		amount = int64(math.Round(float64(base) * value / 100))
	case enum.DiscountFixed:
		amount = toCents(value)
	default:
		return 0
	}
	if amount < 0 {
		return 0
	}
	if amount > base {
		return base
	}
	return amount
}

// CreateBill creates a bill with its line items, assigns the next sequential
// bill number, and decrements product stock atomically. Stock changes are
// rolled back if persisting the bill fails.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Bill must have at least one item")
	}
	if input.DiscountType != nil && !input.DiscountType.Valid() {
		return nil, apperror.NewBadRequestError("Invalid discount type")
	}
	if input.Paid < 0 {
		return nil, apperror.NewBadRequestError("Paid amount cannot be negative")
	}

	// Collapse duplicate product lines into per-product quantities for the
	// stock decrement while keeping the lines distinct on the bill.
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	decrements := make(map[uuid.UUID]int, len(input.Items))
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if it.DiscountType != nil && !it.DiscountType.Valid() {
			return nil, apperror.NewBadRequestError("Invalid item discount type")
		}
		if _, seen := decrements[it.ProductID]; !seen {
			productIDs = append(productIDs, it.ProductID)
		}
		decrements[it.ProductID] += it.Quantity
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}
	for _, id := range productIDs {
		if _, ok := productsByID[id]; !ok {
			return nil, apperror.NewNotFoundError("Product")
		}
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}

	// Build line items with name/rate snapshots.
	items := make([]entity.BillItem, 0, len(input.Items))
	var subTotal int64
	for _, it := range input.Items {
		product := productsByID[it.ProductID]
		gross := int64(it.Quantity) * product.Rate
		itemDiscount := discountCents(gross, it.DiscountType, it.DiscountValue)
		total := gross - itemDiscount

		items = append(items, entity.BillItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Quantity:       it.Quantity,
			Rate:           product.Rate,
			DiscountType:   it.DiscountType,
			DiscountValue:  it.DiscountValue,
			DiscountAmount: itemDiscount,
			Total:          total,
		})
		subTotal += total
	}

	discountAmount := discountCents(subTotal, input.DiscountType, input.DiscountValue)
	total := subTotal - discountAmount
	if total < 0 {
		total = 0
	}

	paid := toCents(input.Paid)
	if paid > total {
		paid = total
	}
	due := total - paid

	status := enum.BillStatusPending
	if due <= 0 {
		status = enum.BillStatusPaid
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := s.billRepo.NextSeq(ctx)
	if err != nil {
		return nil, err
	}

	bill := &entity.Bill{
		UserID:         input.UserID,
		CustomerID:     input.CustomerID,
		BillNo:         utils.FormatBillNo(settings.BillPrefix, seq),
		Seq:            seq,
		BillDate:       time.Now(),
		Status:         status,
		SubTotal:       subTotal,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		DiscountAmount: discountAmount,
		Total:          total,
		Paid:           paid,
		Due:            due,
		PaymentMode:    input.PaymentMode,
		Seller:         user.Name,
		Notes:          input.Notes,
		Terms:          input.Terms,
	}

	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		return nil, apperror.NewBadRequestError("Insufficient stock for one or more products")
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		// Stock was already taken; give it back.
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	for i := range items {
		items[i].BillID = bill.ID
	}
	if err := s.billItemRepo.CreateBatch(ctx, items); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}
	bill.Items = items

	if paid > 0 {
		payment := &entity.Payment{
			BillID: bill.ID,
			Amount: paid,
			Mode:   input.PaymentMode,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}
	}

	return bill, nil
}

// GetBill retrieves a bill with its items and payments
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBillsInput represents bill list filtering options
type ListBillsInput struct {
	From       *time.Time
	To         *time.Time
	Status     *enum.BillStatus
	CustomerID *uuid.UUID
	Search     string
	Pagination pagination.PaginationParams
}

// ListBills lists bills with filters and pagination
func (s *BillService) ListBills(ctx context.Context, input *ListBillsInput) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, &repository.BillFilterParams{
		From:       input.From,
		To:         input.To,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		Search:     input.Search,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// CancelBill marks a bill cancelled and restores the stock it consumed.
// The bill keeps its number; cancelled bills are excluded from reports.
func (s *BillService) CancelBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.NewBadRequestError("Bill is already cancelled")
	}

	increments := make(map[uuid.UUID]int, len(bill.Items))
	for _, item := range bill.Items {
		increments[item.ProductID] += item.Quantity
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, increments); err != nil {
		return nil, err
	}

	if err := s.billRepo.UpdateStatus(ctx, id, enum.BillStatusCancelled); err != nil {
		return nil, err
	}
	bill.Status = enum.BillStatusCancelled
	return bill, nil
}

// RecordPaymentInput represents a payment against an existing bill
type RecordPaymentInput struct {
	BillID uuid.UUID
	Amount float64
	Mode   string
	Note   string
}

// RecordPayment records money received against a bill and settles its
// status once nothing is due.
func (s *BillService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Bill, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}

	bill, err := s.billRepo.GetByID(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.NewBadRequestError("Cannot record payment on a cancelled bill")
	}

	amount := toCents(input.Amount)
	if amount > bill.Due {
		return nil, apperror.NewBadRequestError("Payment exceeds amount due")
	}

	payment := &entity.Payment{
		BillID: bill.ID,
		Amount: amount,
		Mode:   input.Mode,
		Note:   input.Note,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	bill.Paid += amount
	bill.Due -= amount
	if bill.Due <= 0 {
		bill.Status = enum.BillStatusPaid
	}
	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}
