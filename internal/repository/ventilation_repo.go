package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
)

type VentilationSQLite struct {
	db *sql.DB
}

func NewVentilationSQLite(db *sql.DB) *VentilationSQLite { return &VentilationSQLite{db: db} }

var _ VentilationRepo = (*VentilationSQLite)(nil)

const (
	ventilationRowID = 1

	selectVentConfigSQL = `
		SELECT enabled, midday_enabled, evening_enabled, latitude, longitude,
		       offset_minutes, duration_minutes, last_run
		FROM ventilation_config WHERE id=?
	`

	updateVentConfigSQL = `
		UPDATE ventilation_config SET
			enabled = ?, midday_enabled = ?, evening_enabled = ?,
			offset_minutes = ?, duration_minutes = ?
		WHERE id = ?
	`

	markRunSQL = `UPDATE ventilation_config SET last_run = ? WHERE id = ?`

	selectPhasesSQL = `
		SELECT id, name, start_time, end_time, enabled
		FROM custom_ventilation_phases ORDER BY start_time
	`

	selectEnabledPhasesSQL = `
		SELECT id, name, start_time, end_time, enabled
		FROM custom_ventilation_phases WHERE enabled = 1 ORDER BY start_time
	`

	insertPhaseSQL = `
		INSERT INTO custom_ventilation_phases (name, start_time, end_time, enabled, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	updatePhaseSQL = `
		UPDATE custom_ventilation_phases
		SET name = ?, start_time = ?, end_time = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`

	deletePhaseSQL = `DELETE FROM custom_ventilation_phases WHERE id = ?`
)

// Config loads the singleton ventilation config row.
func (r *VentilationSQLite) Config(ctx context.Context) (models.VentilationConfig, error) {
	return scanVentConfig(r.db.QueryRowContext(ctx, selectVentConfigSQL, ventilationRowID))
}

// UpdateConfig writes the flag/parameter columns; location and last_run
// are owned by other paths.
func (r *VentilationSQLite) UpdateConfig(ctx context.Context, cfg models.VentilationConfig) error {
	_, err := r.db.ExecContext(ctx, updateVentConfigSQL,
		boolToInt(cfg.Enabled), boolToInt(cfg.MiddayEnabled), boolToInt(cfg.EveningEnabled),
		cfg.OffsetMinutes, cfg.DurationMinutes, ventilationRowID)
	if err != nil {
		return fmt.Errorf("update ventilation config: %w", err)
	}
	return nil
}

// MarkRun stamps the date (YYYY-MM-DD) of the last executed ventilation.
func (r *VentilationSQLite) MarkRun(ctx context.Context, day string) error {
	_, err := r.db.ExecContext(ctx, markRunSQL, day, ventilationRowID)
	if err != nil {
		return fmt.Errorf("mark ventilation run: %w", err)
	}
	return nil
}

// Phases lists all custom phases ordered by start time.
func (r *VentilationSQLite) Phases(ctx context.Context) ([]models.CustomPhase, error) {
	rows, err := r.db.QueryContext(ctx, selectPhasesSQL)
	if err != nil {
		return nil, fmt.Errorf("select custom phases: %w", err)
	}
	defer rows.Close()
	return scanPhases(rows)
}

// SavePhase inserts or updates a custom phase. The guard runs against the
// config and the enabled phases inside the same transaction as the write,
// so two concurrent saves cannot both pass the overlap check and commit
// conflicting windows.
func (r *VentilationSQLite) SavePhase(ctx context.Context, p models.CustomPhase, guard PhaseGuard) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin phase transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The pool is capped at one connection, so the transaction owns the
	// database until commit; no second save can interleave between the
	// guard's read and the write below.
	if guard != nil {
		cfg, err := scanVentConfig(tx.QueryRowContext(ctx, selectVentConfigSQL, ventilationRowID))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return 0, err
		}
		rows, err := tx.QueryContext(ctx, selectEnabledPhasesSQL)
		if err != nil {
			return 0, fmt.Errorf("select enabled phases: %w", err)
		}
		phases, err := scanPhases(rows)
		rows.Close()
		if err != nil {
			return 0, err
		}
		if err := guard(cfg, phases); err != nil {
			return 0, err
		}
	}

	var name *string
	if p.Name != "" {
		name = &p.Name
	}
	now := time.Now().UTC()

	id := p.ID
	if p.ID > 0 {
		res, err := tx.ExecContext(ctx, updatePhaseSQL,
			name, p.StartTime, p.EndTime, boolToInt(p.Enabled), now, p.ID)
		if err != nil {
			return 0, fmt.Errorf("update phase %d: %w", p.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected for phase %d: %w", p.ID, err)
		}
		if affected == 0 {
			return 0, ErrNotFound
		}
	} else {
		res, err := tx.ExecContext(ctx, insertPhaseSQL,
			name, p.StartTime, p.EndTime, boolToInt(p.Enabled), now)
		if err != nil {
			return 0, fmt.Errorf("insert phase: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id for phase: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit phase transaction: %w", err)
	}
	return id, nil
}

// DeletePhase removes a custom phase by id.
func (r *VentilationSQLite) DeletePhase(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deletePhaseSQL, id)
	if err != nil {
		return fmt.Errorf("delete phase %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for phase %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVentConfig(row rowScanner) (models.VentilationConfig, error) {
	var (
		cfg                      models.VentilationConfig
		enabled, midday, evening int
		lastRun                  sql.NullString
	)
	err := row.Scan(&enabled, &midday, &evening, &cfg.Latitude, &cfg.Longitude,
		&cfg.OffsetMinutes, &cfg.DurationMinutes, &lastRun)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VentilationConfig{}, ErrNotFound
	}
	if err != nil {
		return models.VentilationConfig{}, fmt.Errorf("load ventilation config: %w", err)
	}
	cfg.Enabled = enabled != 0
	cfg.MiddayEnabled = midday != 0
	cfg.EveningEnabled = evening != 0
	cfg.LastRun = lastRun.String
	return cfg, nil
}

func scanPhases(rows *sql.Rows) ([]models.CustomPhase, error) {
	out := make([]models.CustomPhase, 0, 8)
	for rows.Next() {
		var p models.CustomPhase
		var name sql.NullString
		var enabled int
		if err := rows.Scan(&p.ID, &name, &p.StartTime, &p.EndTime, &enabled); err != nil {
			return nil, fmt.Errorf("scan custom phase: %w", err)
		}
		p.Name = name.String
		p.Enabled = enabled != 0
		out = append(out, p)
	}
	return out, rows.Err()
}
