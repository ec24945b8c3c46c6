package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eshop-reports-api/internal/archive"
	"eshop-reports-api/internal/models"
	"eshop-reports-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// topProductsLimit caps the all-time best sellers list
	topProductsLimit = 10

	// trendingProductsLimit caps the trailing-7-day sellers list
	trendingProductsLimit = 20

	// topCategoriesLimit caps the category ranking
	topCategoriesLimit = 5

	// snapshotRetention is the maximum number of snapshots kept in the
	// store; older ones are pruned on every write
	snapshotRetention = 30

	// defaultHistoryLimit is used when the caller does not specify one
	defaultHistoryLimit = 7
)

// reportService implements the ReportService interface
type reportService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	snapshotRepo repositories.SnapshotRepository
	archiveStore archive.Store
	logger       *logrus.Logger
}

// NewReportService creates a new report service instance. The archive
// store is optional; a nil store disables snapshot archiving.
func NewReportService(
	orderRepo repositories.OrderRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	snapshotRepo repositories.SnapshotRepository,
	archiveStore archive.Store,
	logger *logrus.Logger,
) ReportService {
	if logger == nil {
		logger = logrus.New()
	}
	return &reportService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		snapshotRepo: snapshotRepo,
		archiveStore: archiveStore,
		logger:       logger,
	}
}

// GenerateSnapshot computes, persists and returns one KPI snapshot. The
// operation is all-or-nothing at the snapshot level: every read happens
// before the single insert, and any store failure aborts the whole run.
// Individual product lookups that miss are tolerated per entry instead.
func (s *reportService) GenerateSnapshot(ctx context.Context) (*models.KPISnapshot, error) {
	now := time.Now().UTC()
	last24Hours := now.Add(-24 * time.Hour)
	last7Days := now.Add(-7 * 24 * time.Hour)
	last14Days := now.Add(-14 * 24 * time.Hour)
	last30Days := now.Add(-30 * 24 * time.Hour)

	s.logger.WithField("timestamp", now).Info("Generating KPI snapshot")

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	avgPurchase, purchases30Days := averagePurchaseValue(orders, last30Days)

	revenue24h, orders24h := windowSales(orders, last24Hours, time.Time{})
	revenue7d, orders7d := windowSales(orders, last7Days, time.Time{})
	revenue30d, orders30d := windowSales(orders, last30Days, time.Time{})
	revenuePrev7d, _ := windowSales(orders, last14Days, last7Days)

	topTotals := productTotals(orders, time.Time{})
	if len(topTotals) > topProductsLimit {
		topTotals = topTotals[:topProductsLimit]
	}

	trendingTotals := productTotals(orders, last7Days)
	if len(trendingTotals) > trendingProductsLimit {
		trendingTotals = trendingTotals[:trendingProductsLimit]
	}

	totalRevenue, totalOrders := windowSales(orders, time.Time{}, time.Time{})

	productIndex, err := s.resolveProducts(ctx, orders, topTotals, trendingTotals)
	if err != nil {
		return nil, err
	}

	topProducts := make([]models.TopProduct, 0, len(topTotals))
	for _, total := range topTotals {
		entry := models.TopProduct{
			ProductID:     total.productID,
			ProductName:   "Unknown",
			TotalQuantity: total.quantity,
			TotalRevenue:  roundToTwoDecimals(total.revenue),
		}
		if product := productIndex[total.productID]; product != nil {
			entry.ProductName = product.Name
			entry.ProductImage = product.ImageURL
			entry.Brand = product.Brands
		}
		topProducts = append(topProducts, entry)
	}

	trendingProducts := make([]models.TrendingProduct, 0, len(trendingTotals))
	for _, total := range trendingTotals {
		product := productIndex[total.productID]
		if product == nil {
			// Unresolvable products are dropped here but kept as
			// placeholders in topProducts; consumers rely on the
			// asymmetry.
			continue
		}
		trendingProducts = append(trendingProducts, models.TrendingProduct{
			ProductID: total.productID,
			Product: &models.ProductSummary{
				ProductID:       product.ProductID,
				Code:            product.Code,
				Name:            product.Name,
				Brands:          product.Brands,
				ImageURL:        product.ImageURL,
				Price:           product.Price,
				NutriscoreGrade: product.NutriscoreGrade,
				Categories:      product.Categories,
				Stock:           product.Stock,
			},
			RecentQuantity: total.quantity,
			RecentRevenue:  roundToTwoDecimals(total.revenue),
		})
	}

	topCategories := categoryTotals(orders, productIndex)
	if len(topCategories) > topCategoriesLimit {
		topCategories = topCategories[:topCategoriesLimit]
	}

	activeCustomers := activeCustomerCount(orders, last30Days)

	snapshot := &models.KPISnapshot{
		SnapshotID:           uuid.New().String(),
		Timestamp:            now,
		AvgPurchaseValue:     roundToTwoDecimals(avgPurchase),
		TotalPurchases30Days: purchases30Days,
		TopProducts:          topProducts,
		SalesByPeriod: models.SalesByPeriod{
			Last24Hours: models.PeriodSales{Revenue: roundToTwoDecimals(revenue24h), Orders: orders24h},
			Last7Days:   models.PeriodSales{Revenue: roundToTwoDecimals(revenue7d), Orders: orders7d},
			Last30Days:  models.PeriodSales{Revenue: roundToTwoDecimals(revenue30d), Orders: orders30d},
		},
		CustomerMetrics: models.CustomerMetrics{
			TotalCustomers:            totalCustomers,
			ActiveCustomersLast30Days: activeCustomers,
			CustomerActivityRate:      activityRate(activeCustomers, totalCustomers),
		},
		RevenueTrends:           dailyRevenueTrend(orders, last7Days),
		TrendingProducts:        trendingProducts,
		TotalRevenue:            roundToTwoDecimals(totalRevenue),
		TotalOrders:             totalOrders,
		AvgItemsPerOrder:        roundToTwoDecimals(averageItemsPerOrder(orders)),
		RevenueGrowthRate:       growthRate(revenue7d, revenuePrev7d),
		OrderStatusDistribution: statusDistribution(orders),
		TopCategories:           topCategories,
	}

	if err := s.snapshotRepo.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist KPI snapshot: %w", err)
	}

	if err := s.pruneSnapshots(ctx); err != nil {
		return nil, err
	}

	s.archiveSnapshot(ctx, snapshot)

	s.logger.WithFields(logrus.Fields{
		"snapshot_id":   snapshot.SnapshotID,
		"total_orders":  snapshot.TotalOrders,
		"total_revenue": snapshot.TotalRevenue,
	}).Info("KPI snapshot generated")

	return snapshot, nil
}

// resolveProducts fetches every product referenced by the rankings or by a
// non-refunded line item. A product that no longer resolves maps to nil;
// any other lookup failure aborts the run.
func (s *reportService) resolveProducts(
	ctx context.Context,
	orders []*models.Order,
	rankings ...[]productTotal,
) (map[string]*models.Product, error) {
	index := make(map[string]*models.Product)

	for _, ranking := range rankings {
		for _, total := range ranking {
			index[total.productID] = nil
		}
	}
	for _, order := range orders {
		if order.IsRefunded() {
			continue
		}
		for _, item := range order.Items {
			index[item.ProductID] = nil
		}
	}

	for id := range index {
		product, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", id, err)
		}
		index[id] = product
	}

	return index, nil
}

// pruneSnapshots enforces the retention cap with a two-phase select-then-
// delete: the victims are identified just before deleting them, so
// concurrent prunes can race over the same IDs harmlessly.
func (s *reportService) pruneSnapshots(ctx context.Context) error {
	count, err := s.snapshotRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count snapshots: %w", err)
	}

	excess := count - snapshotRetention
	if excess <= 0 {
		return nil
	}

	ids, err := s.snapshotRepo.OldestIDs(ctx, int(excess))
	if err != nil {
		return fmt.Errorf("failed to select snapshots for pruning: %w", err)
	}

	if err := s.snapshotRepo.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	s.logger.WithField("pruned", len(ids)).Info("Pruned old KPI snapshots")
	return nil
}

// archiveSnapshot writes the snapshot document to the archive store so it
// survives retention pruning. Archive failures never fail the run.
func (s *reportService) archiveSnapshot(ctx context.Context, snapshot *models.KPISnapshot) {
	if s.archiveStore == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to marshal snapshot for archiving")
		return
	}

	key := fmt.Sprintf("snapshots/%s_%s.json",
		snapshot.Timestamp.UTC().Format("20060102T150405Z"), snapshot.SnapshotID)
	if err := s.archiveStore.Put(ctx, key, data); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to archive snapshot")
		return
	}

	s.logger.WithField("key", key).Debug("Snapshot archived")
}

// GetLatestReport returns the most recent snapshot; an empty store yields
// the zero-valued default rather than an error
func (s *reportService) GetLatestReport(ctx context.Context) (*models.KPISnapshot, error) {
	snapshot, err := s.snapshotRepo.Latest(ctx)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.NewEmptySnapshot(time.Now().UTC()), nil
		}
		return nil, fmt.Errorf("failed to load latest KPI snapshot: %w", err)
	}
	return snapshot, nil
}

// GetTrendingProducts returns the trending products of the latest snapshot
func (s *reportService) GetTrendingProducts(ctx context.Context) ([]models.TrendingProduct, error) {
	snapshot, err := s.snapshotRepo.Latest(ctx)
	if err != nil {
		if repositories.IsNotFound(err) {
			return []models.TrendingProduct{}, nil
		}
		return nil, fmt.Errorf("failed to load latest KPI snapshot: %w", err)
	}

	if snapshot.TrendingProducts == nil {
		return []models.TrendingProduct{}, nil
	}
	return snapshot.TrendingProducts, nil
}

// GetKPIHistory returns up to limit snapshots, newest first
func (s *reportService) GetKPIHistory(ctx context.Context, limit int) ([]*models.KPISnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	history, err := s.snapshotRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load KPI history: %w", err)
	}

	if history == nil {
		history = []*models.KPISnapshot{}
	}
	return history, nil
}
