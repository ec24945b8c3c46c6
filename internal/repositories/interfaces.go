package repositories

import (
	"context"
	"time"

	"eshop-reports-api/internal/models"
)

// OrderRepository defines the read-only order store consumed by the
// aggregation engine. Orders are created elsewhere (checkout flow); the
// reporting core never mutates them.
type OrderRepository interface {
	// ListAll retrieves every order with its line items loaded
	ListAll(ctx context.Context) ([]*models.Order, error)

	// ListByDateRange retrieves orders created within [start, end) with
	// their line items loaded
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Order, error)

	// Count returns the total number of orders
	Count(ctx context.Context) (int64, error)
}

// CustomerRepository defines the read-only customer store consumed by the
// aggregation engine
type CustomerRepository interface {
	// Count returns the total number of customers
	Count(ctx context.Context) (int64, error)
}

// ProductRepository defines the read-only product catalog consumed for
// snapshot enrichment. Product IDs are barcode strings.
type ProductRepository interface {
	// GetByID retrieves a product by its barcode identifier
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// Count returns the total number of catalog products
	Count(ctx context.Context) (int64, error)
}

// SnapshotRepository defines the append-only KPI snapshot store. Snapshots
// are never updated in place; the only delete path is retention pruning.
type SnapshotRepository interface {
	// Insert persists a new snapshot
	Insert(ctx context.Context, snapshot *models.KPISnapshot) error

	// Latest retrieves the snapshot with the greatest timestamp, or a
	// not-found error when the store is empty
	Latest(ctx context.Context) (*models.KPISnapshot, error)

	// List retrieves up to limit snapshots, newest first
	List(ctx context.Context, limit int) ([]*models.KPISnapshot, error)

	// Count returns the total number of stored snapshots
	Count(ctx context.Context) (int64, error)

	// OldestIDs returns the IDs of the n oldest snapshots by timestamp
	// ascending
	OldestIDs(ctx context.Context, n int) ([]string, error)

	// DeleteByIDs removes the snapshots with the given IDs. IDs that no
	// longer exist are ignored; concurrent prunes may race over the same
	// victims.
	DeleteByIDs(ctx context.Context, ids []string) error
}

// RepositoryContainer holds all repository instances
type RepositoryContainer struct {
	OrderRepo    OrderRepository
	CustomerRepo CustomerRepository
	ProductRepo  ProductRepository
	SnapshotRepo SnapshotRepository
}
