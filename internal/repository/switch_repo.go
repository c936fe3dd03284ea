package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
)

type SwitchSQLite struct {
	db *sql.DB
}

func NewSwitchSQLite(db *sql.DB) *SwitchSQLite { return &SwitchSQLite{db: db} }

var _ SwitchRepo = (*SwitchSQLite)(nil)

const (
	selectSwitchesSQL = `SELECT name, gpio_pin, state, updated_at FROM gpio_switches ORDER BY id`

	updateSwitchSQL = `UPDATE gpio_switches SET state = ?, updated_at = ? WHERE name = ?`
)

// List returns every GPIO switch row.
func (r *SwitchSQLite) List(ctx context.Context) ([]models.GpioSwitch, error) {
	rows, err := r.db.QueryContext(ctx, selectSwitchesSQL)
	if err != nil {
		return nil, fmt.Errorf("select gpio switches: %w", err)
	}
	defer rows.Close()

	out := make([]models.GpioSwitch, 0, 4)
	for rows.Next() {
		var s models.GpioSwitch
		var state int
		if err := rows.Scan(&s.Name, &s.GpioPin, &state, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gpio switch: %w", err)
		}
		s.State = state != 0
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetState toggles one switch; unknown names are rejected.
func (r *SwitchSQLite) SetState(ctx context.Context, name string, state bool) error {
	res, err := r.db.ExecContext(ctx, updateSwitchSQL, boolToInt(state), time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("update switch %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for switch %q: %w", name, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
