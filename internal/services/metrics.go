package services

import (
	"math"
	"sort"
	"time"

	"eshop-reports-api/internal/models"
)

// The metric functions below are pure: they operate over an in-memory order
// set so the engine can be exercised against fixture data without a live
// store. Unless noted otherwise, every function skips refunded orders and
// treats a zero `since` as an unbounded window.

// roundToTwoDecimals rounds monetary values at computation time so stored
// snapshots are reproducible for a given input dataset
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// inWindow reports whether a timestamp falls in [since, until). A zero bound
// is open on that side.
func inWindow(t, since, until time.Time) bool {
	if !since.IsZero() && t.Before(since) {
		return false
	}
	if !until.IsZero() && !t.Before(until) {
		return false
	}
	return true
}

// windowSales sums order totals and counts orders within [since, until),
// excluding refunded orders. The revenue is returned unrounded; callers
// round at assembly.
func windowSales(orders []*models.Order, since, until time.Time) (float64, int64) {
	var revenue float64
	var count int64

	for _, order := range orders {
		if order.IsRefunded() || !inWindow(order.CreatedAt, since, until) {
			continue
		}
		revenue += order.Total
		count++
	}

	return revenue, count
}

// averagePurchaseValue returns the unrounded mean order total and the order
// count over the window
func averagePurchaseValue(orders []*models.Order, since time.Time) (float64, int64) {
	revenue, count := windowSales(orders, since, time.Time{})
	if count == 0 {
		return 0, 0
	}
	return revenue / float64(count), count
}

// productTotal accumulates per-product quantity and revenue from flattened
// line items
type productTotal struct {
	productID string
	quantity  int64
	revenue   float64
}

// productTotals flattens line items of non-refunded orders in the window,
// groups them by product ID and ranks by quantity descending. Ties break on
// product ID ascending so rankings are stable across runs.
func productTotals(orders []*models.Order, since time.Time) []productTotal {
	totals := make(map[string]*productTotal)

	for _, order := range orders {
		if order.IsRefunded() || !inWindow(order.CreatedAt, since, time.Time{}) {
			continue
		}
		for _, item := range order.Items {
			total, ok := totals[item.ProductID]
			if !ok {
				total = &productTotal{productID: item.ProductID}
				totals[item.ProductID] = total
			}
			total.quantity += item.Quantity
			total.revenue += item.Revenue()
		}
	}

	ranked := make([]productTotal, 0, len(totals))
	for _, total := range totals {
		ranked = append(ranked, *total)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].quantity != ranked[j].quantity {
			return ranked[i].quantity > ranked[j].quantity
		}
		return ranked[i].productID < ranked[j].productID
	})

	return ranked
}

// activeCustomerCount counts distinct customers with at least one
// non-refunded order in the window
func activeCustomerCount(orders []*models.Order, since time.Time) int64 {
	seen := make(map[string]struct{})

	for _, order := range orders {
		if order.IsRefunded() || !inWindow(order.CreatedAt, since, time.Time{}) {
			continue
		}
		seen[order.CustomerID] = struct{}{}
	}

	return int64(len(seen))
}

// activityRate returns active/total as a percentage, 0 when there are no
// customers
func activityRate(active, total int64) float64 {
	if total == 0 {
		return 0
	}
	return roundToTwoDecimals(float64(active) / float64(total) * 100)
}

// averageItemsPerOrder returns the unrounded mean line-item count across
// non-refunded orders
func averageItemsPerOrder(orders []*models.Order) float64 {
	var items int64
	var count int64

	for _, order := range orders {
		if order.IsRefunded() {
			continue
		}
		items += int64(len(order.Items))
		count++
	}

	if count == 0 {
		return 0
	}
	return float64(items) / float64(count)
}

// growthRate returns the percentage change of current vs previous revenue,
// rounded to two decimals. A zero previous window yields exactly 0 rather
// than a division by zero, regardless of the current revenue.
func growthRate(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return roundToTwoDecimals((current - previous) / previous * 100)
}

// statusDistribution groups ALL orders by status, refunded included; the
// distribution intentionally shows refunds as their own bucket. Buckets are
// ordered by count descending, then status ascending, for stable output.
func statusDistribution(orders []*models.Order) []models.StatusCount {
	counts := make(map[models.OrderStatus]int64)
	for _, order := range orders {
		counts[order.Status]++
	}

	distribution := make([]models.StatusCount, 0, len(counts))
	for status, count := range counts {
		distribution = append(distribution, models.StatusCount{Status: status, Count: count})
	}

	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Status < distribution[j].Status
	})

	return distribution
}

// categoryTotals attributes line-item revenue of non-refunded orders to the
// primary category of each product and ranks categories by revenue
// descending. Items whose product is missing or uncategorized fall into the
// UncategorizedLabel bucket.
func categoryTotals(orders []*models.Order, products map[string]*models.Product) []models.CategorySales {
	type categoryTotal struct {
		sales    float64
		quantity int64
	}
	totals := make(map[string]*categoryTotal)

	for _, order := range orders {
		if order.IsRefunded() {
			continue
		}
		for _, item := range order.Items {
			category := products[item.ProductID].PrimaryCategory()
			total, ok := totals[category]
			if !ok {
				total = &categoryTotal{}
				totals[category] = total
			}
			total.sales += item.Revenue()
			total.quantity += item.Quantity
		}
	}

	ranked := make([]models.CategorySales, 0, len(totals))
	for category, total := range totals {
		ranked = append(ranked, models.CategorySales{
			Category:      category,
			TotalSales:    roundToTwoDecimals(total.sales),
			TotalQuantity: total.quantity,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSales != ranked[j].TotalSales {
			return ranked[i].TotalSales > ranked[j].TotalSales
		}
		return ranked[i].Category < ranked[j].Category
	})

	return ranked
}

// dailyRevenueTrend groups non-refunded orders in the window by UTC calendar
// day and returns one entry per day that has orders, ascending by date. Days
// without orders are omitted, never zero-filled.
func dailyRevenueTrend(orders []*models.Order, since time.Time) []models.RevenueTrend {
	type dayTotal struct {
		revenue float64
		orders  int64
	}
	days := make(map[string]*dayTotal)

	for _, order := range orders {
		if order.IsRefunded() || !inWindow(order.CreatedAt, since, time.Time{}) {
			continue
		}
		day := order.CreatedAt.UTC().Format("2006-01-02")
		total, ok := days[day]
		if !ok {
			total = &dayTotal{}
			days[day] = total
		}
		total.revenue += order.Total
		total.orders++
	}

	trend := make([]models.RevenueTrend, 0, len(days))
	for day, total := range days {
		trend = append(trend, models.RevenueTrend{
			Date:    day,
			Revenue: roundToTwoDecimals(total.revenue),
			Orders:  total.orders,
		})
	}

	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date < trend[j].Date
	})

	return trend
}
