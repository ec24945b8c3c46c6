package sqlite

import (
	"context"
	"database/sql"

	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CustomerRepository implements the read-only customer store over SQLite
type CustomerRepository struct {
	*baseRepository
}

// NewCustomerRepository creates a new SQLite customer repository
func NewCustomerRepository(db *sql.DB, logger *logrus.Logger) repositories.CustomerRepository {
	return &CustomerRepository{
		baseRepository: newBaseRepository(db, "customers", logger),
	}
}

// Count returns the total number of customers
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	row := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM customers")
	return r.scanCount(row, "count")
}
