package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
)

type GateSQLite struct {
	db *sql.DB
}

func NewGateSQLite(db *sql.DB) *GateSQLite { return &GateSQLite{db: db} }

var _ GateRepo = (*GateSQLite)(nil)

const (
	selectPositionsSQL = `SELECT motor_name, position FROM gate_status`

	upsertPositionSQL = `
		INSERT INTO gate_status (motor_name, position, last_command, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(motor_name) DO UPDATE SET
			position=excluded.position,
			last_command=excluded.last_command,
			updated_at=excluded.updated_at
	`

	updatePositionSQL = `UPDATE gate_status SET position = ?, updated_at = ? WHERE motor_name = ?`

	updateEnabledSQL = `UPDATE gate_status SET enabled = ?, updated_at = ? WHERE motor_name = ?`

	selectEnabledSQL = `SELECT motor_name, enabled FROM gate_status ORDER BY motor_name`

	selectAutoModesSQL = `SELECT motor_name, auto_enabled FROM gate_auto_mode`

	upsertAutoModeSQL = `
		INSERT INTO gate_auto_mode (motor_name, auto_enabled, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(motor_name) DO UPDATE SET
			auto_enabled=excluded.auto_enabled,
			updated_at=excluded.updated_at
	`

	selectGatesSQL = `
		SELECT motor_name, position, last_command, enabled, updated_at
		FROM gate_status ORDER BY motor_name
	`
)

// Positions returns motor -> position for every known gate.
func (r *GateSQLite) Positions(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, selectPositionsSQL)
	if err != nil {
		return nil, fmt.Errorf("select gate positions: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var motor string
		var pos int
		if err := rows.Scan(&motor, &pos); err != nil {
			return nil, fmt.Errorf("scan gate position: %w", err)
		}
		out[motor] = pos
	}
	return out, rows.Err()
}

// UpsertPosition is the device sync path: write-always, keyed by motor name.
func (r *GateSQLite) UpsertPosition(ctx context.Context, motor string, position int, lastCommand string) error {
	_, err := r.db.ExecContext(ctx, upsertPositionSQL, motor, position, lastCommand, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert position of %q: %w", motor, err)
	}
	return nil
}

// SetPosition is the explicit single-gate update; unknown motors are rejected.
func (r *GateSQLite) SetPosition(ctx context.Context, motor string, position int) error {
	return r.updateGate(ctx, updatePositionSQL, motor, position)
}

// SetEnabled flips the seasonal kill-switch for one gate.
func (r *GateSQLite) SetEnabled(ctx context.Context, motor string, enabled bool) error {
	return r.updateGate(ctx, updateEnabledSQL, motor, boolToInt(enabled))
}

func (r *GateSQLite) updateGate(ctx context.Context, query, motor string, value int) error {
	res, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), motor)
	if err != nil {
		return fmt.Errorf("update gate %q: %w", motor, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for gate %q: %w", motor, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// EnabledFlags returns motor -> enabled for every gate row.
func (r *GateSQLite) EnabledFlags(ctx context.Context) (map[string]bool, error) {
	return r.boolColumn(ctx, selectEnabledSQL)
}

// AutoModes returns motor -> auto_enabled for every row present.
func (r *GateSQLite) AutoModes(ctx context.Context) (map[string]bool, error) {
	return r.boolColumn(ctx, selectAutoModesSQL)
}

// boolColumn scans a (motor, 0/1) result set. The flag is scanned into an
// integer and compared against zero; decoding through a string would turn
// "0" into true.
func (r *GateSQLite) boolColumn(ctx context.Context, query string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select gate flags: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var motor string
		var flag int
		if err := rows.Scan(&motor, &flag); err != nil {
			return nil, fmt.Errorf("scan gate flag: %w", err)
		}
		out[motor] = flag != 0
	}
	return out, rows.Err()
}

// UpsertAutoMode stores the automation flag for one motor.
func (r *GateSQLite) UpsertAutoMode(ctx context.Context, motor string, enabled bool) error {
	_, err := r.db.ExecContext(ctx, upsertAutoModeSQL, motor, boolToInt(enabled), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert auto mode of %q: %w", motor, err)
	}
	return nil
}

// List returns the full gate rows for the dashboard.
func (r *GateSQLite) List(ctx context.Context) ([]models.Gate, error) {
	rows, err := r.db.QueryContext(ctx, selectGatesSQL)
	if err != nil {
		return nil, fmt.Errorf("select gates: %w", err)
	}
	defer rows.Close()

	out := make([]models.Gate, 0, len(models.Motors))
	for rows.Next() {
		var g models.Gate
		var enabled int
		if err := rows.Scan(&g.MotorName, &g.Position, &g.LastCommand, &enabled, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gate: %w", err)
		}
		g.Enabled = enabled != 0
		g.UpdatedAt = g.UpdatedAt.UTC()
		out = append(out, g)
	}
	return out, rows.Err()
}
