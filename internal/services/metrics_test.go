package services

import (
	"testing"
	"time"

	"eshop-reports-api/internal/models"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testOrder(id, customerID string, total float64, status models.OrderStatus, age time.Duration, items ...models.LineItem) *models.Order {
	return &models.Order{
		OrderID:    id,
		CustomerID: customerID,
		Total:      total,
		Status:     status,
		CreatedAt:  testNow.Add(-age),
		Items:      items,
	}
}

func item(productID string, quantity int64, unitPrice float64) models.LineItem {
	return models.LineItem{
		ProductID: productID,
		Name:      "Product " + productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

func TestRoundToTwoDecimals(t *testing.T) {
	cases := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{1.005, 1.0},
		{1.015, 1.01},
		{33.333333, 33.33},
		{66.666666, 66.67},
		{-5.555, -5.55},
	}

	for _, tc := range cases {
		if got := roundToTwoDecimals(tc.input); got != tc.expected {
			t.Errorf("roundToTwoDecimals(%v) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}

func TestInWindow(t *testing.T) {
	since := testNow.Add(-24 * time.Hour)

	if !inWindow(testNow.Add(-time.Hour), since, time.Time{}) {
		t.Error("timestamp inside window should match")
	}
	if inWindow(testNow.Add(-48*time.Hour), since, time.Time{}) {
		t.Error("timestamp before window should not match")
	}
	if !inWindow(since, since, time.Time{}) {
		t.Error("window start is inclusive")
	}
	if inWindow(testNow, since, testNow) {
		t.Error("window end is exclusive")
	}
	if !inWindow(testNow.Add(-365*24*time.Hour), time.Time{}, time.Time{}) {
		t.Error("zero bounds should be open")
	}
}

func TestWindowSalesExcludesRefunded(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 100, models.OrderStatusPaid, time.Hour),
		testOrder("o2", "c2", 50, models.OrderStatusRefunded, time.Hour),
		testOrder("o3", "c3", 25, models.OrderStatusPartiallyRefunded, time.Hour),
		testOrder("o4", "c4", 75, models.OrderStatusPaid, 48*time.Hour),
	}

	revenue, count := windowSales(orders, testNow.Add(-24*time.Hour), time.Time{})
	if revenue != 125 {
		t.Errorf("expected revenue 125, got %v", revenue)
	}
	if count != 2 {
		t.Errorf("expected 2 orders, got %d", count)
	}
}

func TestAveragePurchaseValue(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 10, models.OrderStatusPaid, time.Hour),
		testOrder("o2", "c2", 20, models.OrderStatusDelivered, 2*time.Hour),
		testOrder("o3", "c3", 999, models.OrderStatusRefunded, time.Hour),
	}

	avg, count := averagePurchaseValue(orders, testNow.Add(-30*24*time.Hour))
	if avg != 15 {
		t.Errorf("expected average 15, got %v", avg)
	}
	if count != 2 {
		t.Errorf("expected 2 purchases, got %d", count)
	}
}

func TestAveragePurchaseValueEmpty(t *testing.T) {
	avg, count := averagePurchaseValue(nil, testNow.Add(-30*24*time.Hour))
	if avg != 0 || count != 0 {
		t.Errorf("expected zero values for empty dataset, got avg=%v count=%d", avg, count)
	}
}

func TestProductTotalsRankingAndTies(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 0, models.OrderStatusPaid, time.Hour,
			item("p-b", 3, 2.0), item("p-a", 3, 1.0)),
		testOrder("o2", "c2", 0, models.OrderStatusPaid, time.Hour,
			item("p-c", 5, 1.5)),
		testOrder("o3", "c3", 0, models.OrderStatusRefunded, time.Hour,
			item("p-a", 100, 1.0)),
	}

	ranked := productTotals(orders, time.Time{})
	if len(ranked) != 3 {
		t.Fatalf("expected 3 products, got %d", len(ranked))
	}

	if ranked[0].productID != "p-c" || ranked[0].quantity != 5 {
		t.Errorf("expected p-c first with quantity 5, got %s/%d", ranked[0].productID, ranked[0].quantity)
	}
	// Equal quantities break ties on product ID ascending
	if ranked[1].productID != "p-a" || ranked[2].productID != "p-b" {
		t.Errorf("expected tie broken as p-a then p-b, got %s then %s", ranked[1].productID, ranked[2].productID)
	}
	if ranked[2].revenue != 6.0 {
		t.Errorf("expected p-b revenue 6.0, got %v", ranked[2].revenue)
	}
}

func TestProductTotalsWindow(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 0, models.OrderStatusPaid, time.Hour, item("p-new", 1, 1)),
		testOrder("o2", "c2", 0, models.OrderStatusPaid, 10*24*time.Hour, item("p-old", 1, 1)),
	}

	ranked := productTotals(orders, testNow.Add(-7*24*time.Hour))
	if len(ranked) != 1 || ranked[0].productID != "p-new" {
		t.Fatalf("expected only p-new in the window, got %+v", ranked)
	}
}

func TestActiveCustomerCount(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 10, models.OrderStatusPaid, time.Hour),
		testOrder("o2", "c1", 10, models.OrderStatusPaid, 2*time.Hour),
		testOrder("o3", "c2", 10, models.OrderStatusRefunded, time.Hour),
		testOrder("o4", "c3", 10, models.OrderStatusPaid, 60*24*time.Hour),
	}

	active := activeCustomerCount(orders, testNow.Add(-30*24*time.Hour))
	if active != 1 {
		t.Errorf("expected 1 active customer, got %d", active)
	}
}

func TestActivityRate(t *testing.T) {
	if got := activityRate(1, 3); got != 33.33 {
		t.Errorf("expected 33.33, got %v", got)
	}
	if got := activityRate(0, 0); got != 0 {
		t.Errorf("expected 0 for empty customer base, got %v", got)
	}
	if got := activityRate(5, 5); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestAverageItemsPerOrder(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 0, models.OrderStatusPaid, time.Hour,
			item("p1", 1, 1), item("p2", 1, 1), item("p3", 1, 1)),
		testOrder("o2", "c2", 0, models.OrderStatusPaid, time.Hour,
			item("p1", 10, 1)),
		testOrder("o3", "c3", 0, models.OrderStatusRefunded, time.Hour,
			item("p1", 1, 1)),
	}

	// Mean of line counts (3 and 1), not of quantities
	if got := averageItemsPerOrder(orders); got != 2 {
		t.Errorf("expected 2 items per order, got %v", got)
	}
	if got := averageItemsPerOrder(nil); got != 0 {
		t.Errorf("expected 0 for no orders, got %v", got)
	}
}

func TestGrowthRate(t *testing.T) {
	if got := growthRate(150, 100); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := growthRate(50, 100); got != -50 {
		t.Errorf("expected -50, got %v", got)
	}
	if got := growthRate(100, 0); got != 0 {
		t.Errorf("expected 0 when previous window is empty, got %v", got)
	}
	if got := growthRate(0, 0); got != 0 {
		t.Errorf("expected 0 for two empty windows, got %v", got)
	}
}

func TestStatusDistributionIncludesRefunded(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 10, models.OrderStatusPaid, time.Hour),
		testOrder("o2", "c2", 10, models.OrderStatusPaid, time.Hour),
		testOrder("o3", "c3", 10, models.OrderStatusRefunded, time.Hour),
		testOrder("o4", "c4", 10, models.OrderStatusShipped, time.Hour),
		testOrder("o5", "c5", 10, models.OrderStatusShipped, time.Hour),
	}

	distribution := statusDistribution(orders)
	if len(distribution) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(distribution))
	}

	// Ordered by count descending, then status ascending
	if distribution[0].Status != models.OrderStatusPaid || distribution[0].Count != 2 {
		t.Errorf("expected paid bucket first, got %+v", distribution[0])
	}
	if distribution[1].Status != models.OrderStatusShipped {
		t.Errorf("expected shipped second, got %+v", distribution[1])
	}
	if distribution[2].Status != models.OrderStatusRefunded || distribution[2].Count != 1 {
		t.Errorf("expected refunded bucket present, got %+v", distribution[2])
	}
}

func TestCategoryTotals(t *testing.T) {
	products := map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "One", Categories: "Boissons, Jus"},
		"p2": {ProductID: "p2", Name: "Two", Categories: "Boissons"},
		"p3": {ProductID: "p3", Name: "Three", Categories: ""},
	}

	orders := []*models.Order{
		testOrder("o1", "c1", 0, models.OrderStatusPaid, time.Hour,
			item("p1", 2, 5.0), item("p2", 1, 3.0)),
		testOrder("o2", "c2", 0, models.OrderStatusPaid, time.Hour,
			item("p3", 1, 4.0), item("p-missing", 1, 2.0)),
		testOrder("o3", "c3", 0, models.OrderStatusRefunded, time.Hour,
			item("p1", 50, 5.0)),
	}

	ranked := categoryTotals(orders, products)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(ranked))
	}

	// Only the first comma token counts: p1 and p2 share "Boissons"
	if ranked[0].Category != "Boissons" || ranked[0].TotalSales != 13.0 || ranked[0].TotalQuantity != 3 {
		t.Errorf("unexpected leading category: %+v", ranked[0])
	}

	// Empty category strings and unresolvable products share one bucket
	if ranked[1].Category != models.UncategorizedLabel || ranked[1].TotalSales != 6.0 {
		t.Errorf("unexpected fallback bucket: %+v", ranked[1])
	}
}

func TestDailyRevenueTrendOmitsEmptyDays(t *testing.T) {
	orders := []*models.Order{
		testOrder("o1", "c1", 10, models.OrderStatusPaid, time.Hour),
		testOrder("o2", "c2", 20, models.OrderStatusPaid, 2*time.Hour),
		testOrder("o3", "c3", 30, models.OrderStatusPaid, 72*time.Hour),
		testOrder("o4", "c4", 99, models.OrderStatusRefunded, time.Hour),
	}

	trend := dailyRevenueTrend(orders, testNow.Add(-7*24*time.Hour))
	if len(trend) != 2 {
		t.Fatalf("expected 2 trend entries, got %d", len(trend))
	}

	// Ascending by date, each a UTC calendar day
	if trend[0].Date != "2024-06-12" || trend[0].Revenue != 30 || trend[0].Orders != 1 {
		t.Errorf("unexpected first entry: %+v", trend[0])
	}
	if trend[1].Date != "2024-06-15" || trend[1].Revenue != 30 || trend[1].Orders != 2 {
		t.Errorf("unexpected second entry: %+v", trend[1])
	}
}

func TestDailyRevenueTrendEmpty(t *testing.T) {
	trend := dailyRevenueTrend(nil, testNow.Add(-7*24*time.Hour))
	if trend == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(trend) != 0 {
		t.Errorf("expected empty trend, got %d entries", len(trend))
	}
}
