package services

import (
	"context"

	"eshop-reports-api/internal/models"
)

// ReportService defines the KPI aggregation engine and the read-only
// retrieval operations over stored snapshots
type ReportService interface {
	// GenerateSnapshot computes a full KPI snapshot from the current
	// order/customer/product data, persists it, enforces the retention cap
	// and returns the snapshot. Any store failure aborts the whole
	// operation before the write; no partial snapshot is ever persisted.
	GenerateSnapshot(ctx context.Context) (*models.KPISnapshot, error)

	// GetLatestReport returns the most recent snapshot, or a zero-valued
	// default with the exact same shape when none exists
	GetLatestReport(ctx context.Context) (*models.KPISnapshot, error)

	// GetTrendingProducts returns the trending products of the latest
	// snapshot, or an empty list when no snapshot exists
	GetTrendingProducts(ctx context.Context) ([]models.TrendingProduct, error)

	// GetKPIHistory returns up to limit snapshots newest first; a
	// non-positive limit falls back to the default of 7
	GetKPIHistory(ctx context.Context, limit int) ([]*models.KPISnapshot, error)
}

// UpdateKPIsResponse is the payload returned by the update trigger endpoint
type UpdateKPIsResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	KPIs    *models.KPISnapshot `json:"kpis"`
}
