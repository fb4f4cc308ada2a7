package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/pkg/pagination"
)

// BillFilterParams holds filtering options for listing bills
type BillFilterParams struct {
	From       *time.Time
	To         *time.Time
	Status     *enum.BillStatus
	CustomerID *uuid.UUID
	Search     string
	Pagination pagination.PaginationParams
}

// BillRepository defines the interface for bill data access
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	Update(ctx context.Context, bill *entity.Bill) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error
	// NextSeq returns the next bill sequence number.
	NextSeq(ctx context.Context) (int64, error)
}

// BillItemRepository defines the interface for bill item data access
type BillItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.BillItem) error
	GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.BillItem, error)
}
