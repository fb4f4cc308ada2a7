package repository

import (
	"context"
	"time"

	"github.com/saralbooks/saral-api/internal/domain/enum"
	domainRepo "github.com/saralbooks/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new sales report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

// GetSalesTotals aggregates bill totals over the date range.
// Cancelled bills are excluded; cents are converted at the query edge.
func (r *reportRepository) GetSalesTotals(ctx context.Context, from, to time.Time) (*domainRepo.SalesTotalsResult, error) {
	var result domainRepo.SalesTotalsResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS bill_count,
			COALESCE(SUM(sub_total), 0) / 100.0 AS gross_sales,
			COALESCE(SUM(discount_amount), 0) / 100.0 AS discount_total,
			COALESCE(SUM(total), 0) / 100.0 AS net_sales,
			COALESCE(SUM(paid), 0) / 100.0 AS collected,
			COALESCE(SUM(due), 0) / 100.0 AS outstanding
		FROM bills
		WHERE bill_date >= ? AND bill_date <= ?
			AND status != ?
			AND deleted_at IS NULL
	`, from, to, enum.BillStatusCancelled).Scan(&result).Error

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepository) GetDailySales(ctx context.Context, from, to time.Time) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('day', bill_date) AS day,
			COUNT(*) AS bill_count,
			COALESCE(SUM(total), 0) / 100.0 AS net_sales
		FROM bills
		WHERE bill_date >= ? AND bill_date <= ?
			AND status != ?
			AND deleted_at IS NULL
		GROUP BY DATE_TRUNC('day', bill_date)
		ORDER BY day ASC
	`, from, to, enum.BillStatusCancelled).Scan(&results).Error

	return results, err
}

func (r *reportRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	if limit <= 0 {
		limit = 10
	}
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.product_id AS product_id,
			bi.name AS product_name,
			SUM(bi.quantity) AS quantity_sold,
			COALESCE(SUM(bi.total), 0) / 100.0 AS revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.bill_date >= ? AND b.bill_date <= ?
			AND b.status != ?
			AND b.deleted_at IS NULL
		GROUP BY bi.product_id, bi.name
		ORDER BY revenue DESC
		LIMIT ?
	`, from, to, enum.BillStatusCancelled, limit).Scan(&results).Error

	return results, err
}
