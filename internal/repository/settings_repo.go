package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite { return &SettingsSQLite{db: db} }

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	selectSettingsSQL = `
		SELECT setting_key, setting_value, setting_type, description, category
		FROM system_settings ORDER BY category, setting_key
	`

	updateSettingSQL = `
		UPDATE system_settings SET setting_value = ?, updated_at = ?
		WHERE setting_key = ?
	`
)

// All returns every settings row.
func (r *SettingsSQLite) All(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, selectSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Setting, 0, 16)
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.Category); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateBatch writes all values in a single transaction. Validation is the
// service's job; this layer only guarantees the batch is all-or-nothing.
// Returns the keys whose rows were actually touched.
func (r *SettingsSQLite) UpdateBatch(ctx context.Context, values map[string]string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	updated := make([]string, 0, len(values))
	for key, value := range values {
		res, err := tx.ExecContext(ctx, updateSettingSQL, value, now, key)
		if err != nil {
			return nil, fmt.Errorf("update setting %q: %w", key, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected for setting %q: %w", key, err)
		}
		if affected > 0 {
			updated = append(updated, key)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settings transaction: %w", err)
	}
	return updated, nil
}
