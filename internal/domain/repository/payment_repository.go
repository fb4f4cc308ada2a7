package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/domain/entity"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Payment, error)
}
