package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/internal/domain/repository"
)

// memStore is a shared in-memory backing store for the repository fakes
// used across the service tests.
type memStore struct {
	mu sync.Mutex

	users     map[uuid.UUID]*entity.User
	customers map[uuid.UUID]*entity.Customer
	products  map[uuid.UUID]*entity.Product
	bills     map[uuid.UUID]*entity.Bill
	items     map[uuid.UUID][]entity.BillItem
	payments  map[uuid.UUID][]entity.Payment
	settings  *entity.BusinessSettings

	decrementCalls []map[uuid.UUID]int
	incrementCalls []map[uuid.UUID]int

	failBillCreate bool
}

func newStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*entity.User),
		customers: make(map[uuid.UUID]*entity.Customer),
		products:  make(map[uuid.UUID]*entity.Product),
		bills:     make(map[uuid.UUID]*entity.Bill),
		items:     make(map[uuid.UUID][]entity.BillItem),
		payments:  make(map[uuid.UUID][]entity.Payment),
		settings: &entity.BusinessSettings{
			ID:            uuid.New(),
			BusinessName:  "Test Shop",
			CurrencyLabel: "Rs.",
			BillPrefix:    "INV-",
			ThankYouNote:  "Thank you for your business!",
		},
	}
}

func (s *memStore) addUser(name string) *entity.User {
	u := &entity.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProduct(name string, rateCents int64, quantity int) *entity.Product {
	p := &entity.Product{ID: uuid.New(), Name: name, Code: name, Rate: rateCents, Quantity: quantity}
	s.products[p.ID] = p
	return p
}

// --- user repository fake ---

type stubUserRepo struct{ s *memStore }

func (r stubUserRepo) Create(ctx context.Context, user *entity.User) error {
	user.ID = uuid.New()
	r.s.users[user.ID] = user
	return nil
}

func (r stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.s.users[id], nil
}

func (r stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r stubUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.users[user.ID] = user
	return nil
}

// --- customer repository fake ---

type stubCustomerRepo struct{ s *memStore }

func (r stubCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	customer.ID = uuid.New()
	r.s.customers[customer.ID] = customer
	return nil
}

func (r stubCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.s.customers[id], nil
}

func (r stubCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.s.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r stubCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.s.customers[customer.ID] = customer
	return nil
}

func (r stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.s.customers, id)
	return nil
}

// --- product repository fake ---

type stubProductRepo struct{ s *memStore }

func (r stubProductRepo) Create(ctx context.Context, product *entity.Product) error {
	product.ID = uuid.New()
	r.s.products[product.ID] = product
	return nil
}

func (r stubProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r stubProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r stubProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r stubProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r stubProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.s.products {
		if p.Quantity <= p.QuantityAlert {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r stubProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.s.products[product.ID] = product
	return nil
}

func (r stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.s.products, id)
	return nil
}

func (r stubProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := r.s.products[id]
		if !ok || p.Quantity < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		r.s.products[id].Quantity -= qty
	}
	r.s.decrementCalls = append(r.s.decrementCalls, decrements)
	return nil, nil
}

func (r stubProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, qty := range increments {
		if p, ok := r.s.products[id]; ok {
			p.Quantity += qty
		}
	}
	r.s.incrementCalls = append(r.s.incrementCalls, increments)
	return nil
}

// --- bill repository fakes ---

type stubBillRepo struct{ s *memStore }

func (r stubBillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	if r.s.failBillCreate {
		return errors.New("database unavailable")
	}
	bill.ID = uuid.New()
	r.s.bills[bill.ID] = bill
	return nil
}

func (r stubBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	return r.s.bills[id], nil
}

func (r stubBillRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, ok := r.s.bills[id]
	if !ok {
		return nil, nil
	}
	copied := *bill
	copied.Items = r.s.items[id]
	copied.Payments = r.s.payments[id]
	if bill.CustomerID != nil {
		copied.Customer = r.s.customers[*bill.CustomerID]
	}
	return &copied, nil
}

func (r stubBillRepo) List(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	var out []entity.Bill
	for _, b := range r.s.bills {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r stubBillRepo) Update(ctx context.Context, bill *entity.Bill) error {
	r.s.bills[bill.ID] = bill
	return nil
}

func (r stubBillRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error {
	if b, ok := r.s.bills[id]; ok {
		b.Status = status
	}
	return nil
}

func (r stubBillRepo) NextSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	for _, b := range r.s.bills {
		if b.Seq > maxSeq {
			maxSeq = b.Seq
		}
	}
	return maxSeq + 1, nil
}

type stubBillItemRepo struct{ s *memStore }

func (r stubBillItemRepo) CreateBatch(ctx context.Context, items []entity.BillItem) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CreatedAt = time.Now()
	}
	if len(items) > 0 {
		r.s.items[items[0].BillID] = append(r.s.items[items[0].BillID], items...)
	}
	return nil
}

func (r stubBillItemRepo) GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.BillItem, error) {
	return r.s.items[billID], nil
}

// --- payment repository fake ---

type stubPaymentRepo struct{ s *memStore }

func (r stubPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	payment.ID = uuid.New()
	r.s.payments[payment.BillID] = append(r.s.payments[payment.BillID], *payment)
	return nil
}

func (r stubPaymentRepo) GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Payment, error) {
	return r.s.payments[billID], nil
}

// --- settings repository fake ---

type stubSettingsRepo struct{ s *memStore }

func (r stubSettingsRepo) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	return r.s.settings, nil
}

func (r stubSettingsRepo) Save(ctx context.Context, settings *entity.BusinessSettings) error {
	r.s.settings = settings
	return nil
}

// newBillService wires a bill service over the given store.
func newBillService(s *memStore) *BillService {
	return NewBillService(
		stubBillRepo{s},
		stubBillItemRepo{s},
		stubProductRepo{s},
		stubCustomerRepo{s},
		stubPaymentRepo{s},
		stubSettingsRepo{s},
		stubUserRepo{s},
	)
}
