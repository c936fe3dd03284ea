package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"greenhouse_control/internal/models"

	"github.com/google/uuid"
)

type LogSQLite struct {
	db *sql.DB
}

func NewLogSQLite(db *sql.DB) *LogSQLite { return &LogSQLite{db: db} }

var _ LogRepo = (*LogSQLite)(nil)

// Append inserts a new log entry. If ID or CreatedAt are empty, they're set.
func (r *LogSQLite) Append(ctx context.Context, e models.LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	} else {
		e.CreatedAt = e.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO logs (id, level, message, created_at)
		VALUES (?, ?, ?, ?)
	`,
		e.ID,
		strings.ToUpper(strings.TrimSpace(e.Level)),
		e.Message,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// List returns entries filtered by [from, to] (inclusive) and/or level, ordered ASC.
func (r *LogSQLite) List(ctx context.Context, from, to time.Time, level string) ([]models.LogEntry, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.UTC())
	}
	if level = strings.ToUpper(strings.TrimSpace(level)); level != "" {
		conds = append(conds, "level = ?")
		args = append(args, level)
	}

	q := `SELECT id, level, message, created_at FROM logs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select logs: %w", err)
	}
	defer rows.Close()

	out := make([]models.LogEntry, 0, 64)
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
