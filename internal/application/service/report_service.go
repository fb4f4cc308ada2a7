package service

import (
	"context"
	"time"

	"github.com/saralbooks/saral-api/internal/domain/repository"
	"github.com/saralbooks/saral-api/pkg/apperror"
)

// ReportService handles sales report aggregation
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// SalesSummary combines totals and the per-day breakdown for a range
type SalesSummary struct {
	From   time.Time                     `json:"from"`
	To     time.Time                     `json:"to"`
	Totals *repository.SalesTotalsResult `json:"totals"`
	Daily  []repository.DailySalesResult `json:"daily"`
}

// GetSalesSummary returns aggregated sales figures for the date range
func (s *ReportService) GetSalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}

	totals, err := s.reportRepo.GetSalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	daily, err := s.reportRepo.GetDailySales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &SalesSummary{
		From:   from,
		To:     to,
		Totals: totals,
		Daily:  daily,
	}, nil
}

// GetTopProducts ranks products by revenue within the date range
func (s *ReportService) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	return s.reportRepo.GetTopProducts(ctx, from, to, limit)
}
