package migration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eshop-reports-api/internal/models"
)

// JSONImporter loads document dumps exported from the legacy store into
// the SQLite database
type JSONImporter struct {
	db       *sql.DB
	logger   *logrus.Logger
	jsonPath string
}

// NewJSONImporter creates a new JSON importer reading dumps from jsonPath
func NewJSONImporter(db *sql.DB, jsonPath string, logger *logrus.Logger) *JSONImporter {
	return &JSONImporter{
		db:       db,
		logger:   logger,
		jsonPath: jsonPath,
	}
}

// JSONCustomer mirrors the legacy customer document
type JSONCustomer struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// JSONProduct mirrors the legacy product document
type JSONProduct struct {
	ID              string  `json:"id"`
	Code            string  `json:"code,omitempty"`
	Name            string  `json:"name"`
	Brands          string  `json:"brands,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	Price           float64 `json:"price"`
	NutriscoreGrade string  `json:"nutriscoreGrade,omitempty"`
	Categories      string  `json:"categories,omitempty"`
	Stock           int64   `json:"stock"`
}

// JSONOrderItem mirrors the legacy order line item document
type JSONOrderItem struct {
	ProductID string  `json:"productId"`
	Barcode   string  `json:"barcode,omitempty"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// JSONOrder mirrors the legacy order document
type JSONOrder struct {
	OrderID      string          `json:"orderId"`
	UserID       string          `json:"userId"`
	Total        float64         `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"createdAt"`
	RefundAmount *float64        `json:"refundAmount,omitempty"`
	RefundedAt   *string         `json:"refundedAt,omitempty"`
	RefundID     *string         `json:"refundId,omitempty"`
	Items        []JSONOrderItem `json:"items"`
}

// ImportResult contains the results of the import
type ImportResult struct {
	CustomersImported int
	ProductsImported  int
	OrdersImported    int
	ItemsImported     int
	Warnings          []string
}

// legacyStatuses maps the French status vocabulary of the legacy store to
// the statuses used here
var legacyStatuses = map[string]models.OrderStatus{
	"payée":                    models.OrderStatusPaid,
	"partiellement remboursée": models.OrderStatusPartiallyRefunded,
	"remboursée":               models.OrderStatusRefunded,
	"annulée":                  models.OrderStatusCancelled,
	"en préparation":           models.OrderStatusInPreparation,
	"expédiée":                 models.OrderStatusShipped,
	"livrée":                   models.OrderStatusDelivered,
}

// ImportAll loads customers, products and orders from the JSON dumps in a
// single transaction
func (m *JSONImporter) ImportAll() (*ImportResult, error) {
	m.logger.Info("Starting JSON import...")

	result := &ImportResult{Warnings: make([]string, 0)}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.importCustomers(tx, result); err != nil {
		return result, fmt.Errorf("customer import failed: %w", err)
	}

	if err := m.importProducts(tx, result); err != nil {
		return result, fmt.Errorf("product import failed: %w", err)
	}

	if err := m.importOrders(tx, result); err != nil {
		return result, fmt.Errorf("order import failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit import: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"customers": result.CustomersImported,
		"products":  result.ProductsImported,
		"orders":    result.OrdersImported,
		"items":     result.ItemsImported,
		"warnings":  len(result.Warnings),
	}).Info("JSON import completed")

	return result, nil
}

func (m *JSONImporter) importCustomers(tx *sql.Tx, result *ImportResult) error {
	var docs []JSONCustomer
	if err := m.readDump("customers.json", &docs); err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.UserID == "" || doc.Email == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping customer with missing id or email: %q", doc.UserID))
			continue
		}

		createdAt := parseLegacyTime(doc.CreatedAt)
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO customers (customer_id, email, created_at) VALUES (?, ?, ?)`,
			doc.UserID, doc.Email, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", doc.UserID, err)
		}
		result.CustomersImported++
	}

	return nil
}

func (m *JSONImporter) importProducts(tx *sql.Tx, result *ImportResult) error {
	var docs []JSONProduct
	if err := m.readDump("products.json", &docs); err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.ID == "" {
			result.Warnings = append(result.Warnings, "skipping product with missing id")
			continue
		}
		if doc.Name == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping product %s with missing name", doc.ID))
			continue
		}

		_, err := tx.Exec(
			`INSERT OR REPLACE INTO products
			 (product_id, code, name, brands, image_url, price, nutriscore_grade, categories, stock)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, doc.Code, doc.Name, doc.Brands, doc.ImageURL,
			doc.Price, doc.NutriscoreGrade, doc.Categories, doc.Stock,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", doc.ID, err)
		}
		result.ProductsImported++
	}

	return nil
}

func (m *JSONImporter) importOrders(tx *sql.Tx, result *ImportResult) error {
	var docs []JSONOrder
	if err := m.readDump("orders.json", &docs); err != nil {
		return err
	}

	for _, doc := range docs {
		orderID := doc.OrderID
		if orderID == "" {
			orderID = uuid.New().String()
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("order without id assigned %s", orderID))
		}

		status, err := normalizeStatus(doc.Status)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping order %s: %v", orderID, err))
			continue
		}

		var refundedAt interface{}
		if doc.RefundedAt != nil {
			refundedAt = parseLegacyTime(*doc.RefundedAt)
		}

		_, err = tx.Exec(
			`INSERT OR REPLACE INTO orders
			 (order_id, customer_id, total, status, created_at, refund_amount, refunded_at, refund_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, doc.UserID, doc.Total, string(status),
			parseLegacyTime(doc.CreatedAt), doc.RefundAmount, refundedAt, doc.RefundID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", orderID, err)
		}
		result.OrdersImported++

		if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
			return fmt.Errorf("failed to clear items for order %s: %w", orderID, err)
		}

		for _, item := range doc.Items {
			if item.ProductID == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipping item without product id in order %s", orderID))
				continue
			}
			_, err := tx.Exec(
				`INSERT INTO order_items (order_id, product_id, barcode, name, quantity, unit_price)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				orderID, item.ProductID, item.Barcode, item.Name, item.Quantity, item.UnitPrice,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item for order %s: %w", orderID, err)
			}
			result.ItemsImported++
		}
	}

	return nil
}

func (m *JSONImporter) readDump(name string, out interface{}) error {
	path := filepath.Join(m.jsonPath, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.WithField("file", name).Warn("Dump file not found, skipping")
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return nil
}

// normalizeStatus accepts both the current status vocabulary and the
// legacy French one
func normalizeStatus(raw string) (models.OrderStatus, error) {
	status := models.OrderStatus(raw)
	for _, valid := range models.ValidOrderStatuses {
		if status == valid {
			return status, nil
		}
	}

	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped, nil
	}

	return "", fmt.Errorf("unknown order status %q", raw)
}

// parseLegacyTime parses the timestamp formats found in the dumps,
// falling back to the current time
func parseLegacyTime(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}

	return time.Now().UTC()
}
