package sqlite

import (
	"context"
	"database/sql"
	"time"

	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// baseRepository provides query execution and logging shared by all SQLite
// repositories
type baseRepository struct {
	db     *sql.DB
	table  string
	logger *logrus.Logger
}

func newBaseRepository(db *sql.DB, table string, logger *logrus.Logger) *baseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &baseRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// validateID rejects empty identifiers before they reach the database
func (r *baseRepository) validateID(id string) error {
	if id == "" {
		return repositories.NewRepositoryError("validate", r.table, id, repositories.ErrInvalidID)
	}
	return nil
}

// logQuery logs a query with its execution time
func (r *baseRepository) logQuery(operation string, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *baseRepository) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *baseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, duration, nil)

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *baseRepository) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}

	return result, nil
}

// scanCount scans a single COUNT(*) row
func (r *baseRepository) scanCount(row *sql.Row, operation string) (int64, error) {
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError(operation, r.table, "", err)
	}
	return count, nil
}
