package lambda

import "time"

// RefreshResult summarizes a scheduled KPI refresh invocation
type RefreshResult struct {
	SnapshotID   string    `json:"snapshot_id"`
	Timestamp    time.Time `json:"timestamp"`
	TotalOrders  int64     `json:"total_orders"`
	TotalRevenue float64   `json:"total_revenue"`
	DurationMS   int64     `json:"duration_ms"`
}
