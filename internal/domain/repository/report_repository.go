package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesTotalsResult aggregates bill totals over a date range
type SalesTotalsResult struct {
	BillCount     int64   `json:"bill_count"`
	GrossSales    float64 `json:"gross_sales"`
	DiscountTotal float64 `json:"discount_total"`
	NetSales      float64 `json:"net_sales"`
	Collected     float64 `json:"collected"`
	Outstanding   float64 `json:"outstanding"`
}

// DailySalesResult is one day's slice of a sales report
type DailySalesResult struct {
	Day       time.Time `json:"day"`
	BillCount int64     `json:"bill_count"`
	NetSales  float64   `json:"net_sales"`
}

// TopProductResult ranks products by revenue within a date range
type TopProductResult struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// ReportRepository defines the interface for sales report aggregation
type ReportRepository interface {
	GetSalesTotals(ctx context.Context, from, to time.Time) (*SalesTotalsResult, error)
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
}
