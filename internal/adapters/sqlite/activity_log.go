package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// ActivityLog implements secondary.ActivityLog with SQLite.
type ActivityLog struct {
	db *sql.DB
}

// NewActivityLog creates a new SQLite activity log.
func NewActivityLog(db *sql.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// Append persists records in a single transaction.
func (l *ActivityLog) Append(ctx context.Context, records []*secondary.ActivityRecord) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin activity transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO activity_log (task_id, action, old_value, new_value, trace_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.TaskID,
			r.Action,
			nullString(r.OldValue),
			nullString(r.NewValue),
			nullString(r.TraceID),
			r.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read activity id: %w", err)
		}
		r.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity: %w", err)
	}
	return nil
}

// List retrieves records matching the given filters, newest first.
func (l *ActivityLog) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	query := `SELECT id, task_id, action, old_value, new_value, trace_id, created_at FROM activity_log WHERE 1=1`
	args := []any{}

	if filters.TaskID != 0 {
		query += " AND task_id = ?"
		args = append(args, filters.TaskID)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ActivityRecord
	for rows.Next() {
		var (
			oldValue  sql.NullString
			newValue  sql.NullString
			traceID   sql.NullString
			createdAt int64
		)

		record := &secondary.ActivityRecord{}
		err := rows.Scan(&record.ID,
			&record.TaskID,
			&record.Action,
			&oldValue,
			&newValue,
			&traceID,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.TraceID = traceID.String
		record.CreatedAt = time.UnixMilli(createdAt).UTC()

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return records, nil
}

// PruneOlderThan deletes records created before cutoff.
func (l *ActivityLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := l.db.ExecContext(ctx, "DELETE FROM activity_log WHERE created_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned activity: %w", err)
	}
	return int(n), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure ActivityLog implements the interface
var _ secondary.ActivityLog = (*ActivityLog)(nil)
