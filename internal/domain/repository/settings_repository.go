package repository

import (
	"context"

	"github.com/saralbooks/saral-api/internal/domain/entity"
)

// SettingsRepository defines the interface for business settings access.
// The settings row is a singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	Save(ctx context.Context, settings *entity.BusinessSettings) error
}
