package sqlite

import (
	"context"
	"database/sql"
	"time"

	"eshop-reports-api/internal/models"
	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// OrderRepository implements the read-only order store over SQLite
type OrderRepository struct {
	*baseRepository
}

// NewOrderRepository creates a new SQLite order repository
func NewOrderRepository(db *sql.DB, logger *logrus.Logger) repositories.OrderRepository {
	return &OrderRepository{
		baseRepository: newBaseRepository(db, "orders", logger),
	}
}

const orderColumns = `order_id, customer_id, total, status, created_at, refund_amount, refunded_at, refund_id`

// ListAll retrieves every order with its line items loaded
func (r *OrderRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at ASC`

	rows, err := r.executeQuery(ctx, "list_all", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := r.scanOrders(rows, "list_all")
	if err != nil {
		return nil, err
	}

	if err := r.loadLineItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListByDateRange retrieves orders created within [start, end) with their
// line items loaded
func (r *OrderRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC`

	rows, err := r.executeQuery(ctx, "list_by_date_range", query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := r.scanOrders(rows, "list_by_date_range")
	if err != nil {
		return nil, err
	}

	if err := r.loadLineItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// Count returns the total number of orders
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	row := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM orders")
	return r.scanCount(row, "count")
}

// scanOrders scans order rows. NULL refund columns stay nil on the model;
// downstream aggregation never sees raw database defaults.
func (r *OrderRepository) scanOrders(rows *sql.Rows, operation string) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		var refundAmount sql.NullFloat64
		var refundedAt sql.NullTime
		var refundID sql.NullString

		err := rows.Scan(
			&order.OrderID,
			&order.CustomerID,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&refundAmount,
			&refundedAt,
			&refundID,
		)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "order", "", err)
		}

		if refundAmount.Valid {
			order.RefundAmount = &refundAmount.Float64
		}
		if refundedAt.Valid {
			order.RefundedAt = &refundedAt.Time
		}
		if refundID.Valid {
			order.RefundID = &refundID.String
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "order", "", err)
	}

	return orders, nil
}

// loadLineItems attaches line items to the given orders in one query
func (r *OrderRepository) loadLineItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*models.Order, len(orders))
	for _, order := range orders {
		byID[order.OrderID] = order
	}

	query := `
		SELECT order_id, product_id, barcode, name, quantity, unit_price
		FROM order_items
		ORDER BY order_id, item_id`

	rows, err := r.executeQuery(ctx, "load_line_items", query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item models.LineItem
		var barcode sql.NullString
		var name sql.NullString

		err := rows.Scan(&orderID, &item.ProductID, &barcode, &name, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return repositories.NewRepositoryError("load_line_items", "order", "", err)
		}

		item.Barcode = barcode.String
		item.Name = name.String

		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return repositories.NewRepositoryError("load_line_items", "order", "", err)
	}

	return nil
}
