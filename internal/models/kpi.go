package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopProduct is a ranked entry in the all-time best sellers list. Display
// fields are resolved against the product catalog at generation time; a
// product that no longer resolves keeps its row with placeholder fields.
type TopProduct struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductImage  string  `json:"productImage"`
	Brand         string  `json:"brand"`
	TotalQuantity int64   `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// PeriodSales holds revenue and order count for one trailing window
type PeriodSales struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// SalesByPeriod groups the three trailing sales windows
type SalesByPeriod struct {
	Last24Hours PeriodSales `json:"last24Hours"`
	Last7Days   PeriodSales `json:"last7Days"`
	Last30Days  PeriodSales `json:"last30Days"`
}

// CustomerMetrics summarizes the customer base at generation time
type CustomerMetrics struct {
	TotalCustomers            int64   `json:"totalCustomers"`
	ActiveCustomersLast30Days int64   `json:"activeCustomersLast30Days"`
	CustomerActivityRate      float64 `json:"customerActivityRate"`
}

// RevenueTrend is one calendar day of the trailing-7-day revenue series.
// Days without orders are omitted, never zero-filled.
type RevenueTrend struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// ProductSummary is the full product snapshot embedded in trending entries
type ProductSummary struct {
	ProductID       string  `json:"productId"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Brands          string  `json:"brands"`
	ImageURL        string  `json:"imageUrl"`
	Price           float64 `json:"price"`
	NutriscoreGrade string  `json:"nutriscoreGrade"`
	Categories      string  `json:"categories"`
	Stock           int64   `json:"stock"`
}

// TrendingProduct is a ranked entry in the trailing-7-day sellers list.
// Entries whose product no longer resolves are dropped before assembly.
type TrendingProduct struct {
	ProductID      string          `json:"productId"`
	Product        *ProductSummary `json:"product"`
	RecentQuantity int64           `json:"recentQuantity"`
	RecentRevenue  float64         `json:"recentRevenue"`
}

// StatusCount is one bucket of the order status distribution. Unlike every
// other aggregate, the distribution includes refunded orders.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// CategorySales is a ranked entry in the top-categories list
type CategorySales struct {
	Category      string  `json:"category"`
	TotalSales    float64 `json:"totalSales"`
	TotalQuantity int64   `json:"totalQuantity"`
}

// KPISnapshot is one immutable, timestamped KPI document. Snapshots are
// created only by the aggregation engine, read by the retrieval API, and
// deleted only by retention pruning. Every monetary field is rounded to two
// decimals at computation time so stored snapshots are reproducible.
type KPISnapshot struct {
	SnapshotID              string            `json:"id"`
	Timestamp               time.Time         `json:"timestamp"`
	AvgPurchaseValue        float64           `json:"avgPurchaseValue"`
	TotalPurchases30Days    int64             `json:"totalPurchases30Days"`
	TopProducts             []TopProduct      `json:"topProducts"`
	SalesByPeriod           SalesByPeriod     `json:"salesByPeriod"`
	CustomerMetrics         CustomerMetrics   `json:"customerMetrics"`
	RevenueTrends           []RevenueTrend    `json:"revenueTrends"`
	TrendingProducts        []TrendingProduct `json:"trendingProducts"`
	TotalRevenue            float64           `json:"totalRevenue"`
	TotalOrders             int64             `json:"totalOrders"`
	AvgItemsPerOrder        float64           `json:"avgItemsPerOrder"`
	RevenueGrowthRate       float64           `json:"revenueGrowthRate"`
	OrderStatusDistribution []StatusCount     `json:"orderStatusDistribution"`
	TopCategories           []CategorySales   `json:"topCategories"`
}

// NewEmptySnapshot returns a fully-populated zero-valued snapshot. Consumers
// of the retrieval API receive this shape when no snapshot exists yet, so
// "no data" is never a failure and never a different schema.
func NewEmptySnapshot(timestamp time.Time) *KPISnapshot {
	return &KPISnapshot{
		SnapshotID:              uuid.New().String(),
		Timestamp:               timestamp,
		TopProducts:             []TopProduct{},
		RevenueTrends:           []RevenueTrend{},
		TrendingProducts:        []TrendingProduct{},
		OrderStatusDistribution: []StatusCount{},
		TopCategories:           []CategorySales{},
	}
}

// Validate validates the snapshot before persistence
func (s *KPISnapshot) Validate() error {
	if s.SnapshotID == "" {
		return fmt.Errorf("snapshot ID is required")
	}

	if s.Timestamp.IsZero() {
		return fmt.Errorf("snapshot timestamp is required")
	}

	return nil
}
