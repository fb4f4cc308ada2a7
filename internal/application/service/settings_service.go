package service

import (
	"context"

	"github.com/saralbooks/saral-api/internal/domain/entity"
	"github.com/saralbooks/saral-api/internal/domain/repository"
)

// SettingsService handles the singleton business profile
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the business settings, creating defaults on first read
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.BusinessSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents the update settings input
type UpdateSettingsInput struct {
	BusinessName  *string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	CurrencyLabel *string
	BillPrefix    *string
	Terms         *string
	ThankYouNote  *string
}

// UpdateSettings applies partial updates to the business settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		settings.BusinessName = *input.BusinessName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	if input.TaxID != nil {
		settings.TaxID = *input.TaxID
	}
	if input.CurrencyLabel != nil {
		settings.CurrencyLabel = *input.CurrencyLabel
	}
	if input.BillPrefix != nil {
		settings.BillPrefix = *input.BillPrefix
	}
	if input.Terms != nil {
		settings.Terms = *input.Terms
	}
	if input.ThankYouNote != nil {
		settings.ThankYouNote = *input.ThankYouNote
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
