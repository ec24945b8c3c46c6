package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"eshop-reports-api/internal/models"
	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SnapshotRepository implements the append-only KPI snapshot store over
// SQLite. Each snapshot is persisted as one JSON document per row, keyed by
// snapshot ID with the timestamp extracted for sorting.
type SnapshotRepository struct {
	*baseRepository
}

// NewSnapshotRepository creates a new SQLite snapshot repository
func NewSnapshotRepository(db *sql.DB, logger *logrus.Logger) repositories.SnapshotRepository {
	return &SnapshotRepository{
		baseRepository: newBaseRepository(db, "kpi_snapshots", logger),
	}
}

// Insert persists a new snapshot. Snapshots are immutable; there is no
// update path.
func (r *SnapshotRepository) Insert(ctx context.Context, snapshot *models.KPISnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return repositories.ValidationError("snapshot", snapshot.SnapshotID, err)
	}

	document, err := json.Marshal(snapshot)
	if err != nil {
		return repositories.NewRepositoryError("insert", "snapshot", snapshot.SnapshotID, err)
	}

	query := `
		INSERT INTO kpi_snapshots (snapshot_id, timestamp, document)
		VALUES (?, ?, ?)`

	_, err = r.executeExec(ctx, "insert", query, snapshot.SnapshotID, snapshot.Timestamp, string(document))
	return err
}

// Latest retrieves the snapshot with the greatest timestamp
func (r *SnapshotRepository) Latest(ctx context.Context) (*models.KPISnapshot, error) {
	query := `
		SELECT document
		FROM kpi_snapshots
		ORDER BY timestamp DESC
		LIMIT 1`

	row := r.executeQueryRow(ctx, "latest", query)

	var document string
	if err := row.Scan(&document); err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("snapshot", "latest")
		}
		return nil, repositories.NewRepositoryError("latest", "snapshot", "", err)
	}

	return r.unmarshalSnapshot(document, "latest")
}

// List retrieves up to limit snapshots, newest first
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]*models.KPISnapshot, error) {
	query := `
		SELECT document
		FROM kpi_snapshots
		ORDER BY timestamp DESC
		LIMIT ?`

	rows, err := r.executeQuery(ctx, "list", query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*models.KPISnapshot
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, repositories.NewRepositoryError("list", "snapshot", "", err)
		}

		snapshot, err := r.unmarshalSnapshot(document, "list")
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "snapshot", "", err)
	}

	return snapshots, nil
}

// Count returns the total number of stored snapshots
func (r *SnapshotRepository) Count(ctx context.Context) (int64, error) {
	row := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM kpi_snapshots")
	return r.scanCount(row, "count")
}

// OldestIDs returns the IDs of the n oldest snapshots by timestamp ascending
func (r *SnapshotRepository) OldestIDs(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	query := `
		SELECT snapshot_id
		FROM kpi_snapshots
		ORDER BY timestamp ASC
		LIMIT ?`

	rows, err := r.executeQuery(ctx, "oldest_ids", query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, repositories.NewRepositoryError("oldest_ids", "snapshot", "", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("oldest_ids", "snapshot", "", err)
	}

	return ids, nil
}

// DeleteByIDs removes the snapshots with the given IDs. IDs already deleted
// by a concurrent prune are silently skipped.
func (r *SnapshotRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := "DELETE FROM kpi_snapshots WHERE snapshot_id IN (" + placeholders + ")"

	_, err := r.executeExec(ctx, "delete_by_ids", query, args...)
	return err
}

func (r *SnapshotRepository) unmarshalSnapshot(document, operation string) (*models.KPISnapshot, error) {
	snapshot := &models.KPISnapshot{}
	if err := json.Unmarshal([]byte(document), snapshot); err != nil {
		return nil, repositories.NewRepositoryError(operation, "snapshot", "", err)
	}
	return snapshot, nil
}
