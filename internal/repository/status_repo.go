package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite { return &StatusSQLite{db: db} }

var _ StatusRepo = (*StatusSQLite)(nil)

// The snapshot is a true singleton: fixed key, upsert-by-key. No
// select-latest scans.
const (
	statusRowID = 1

	upsertStatusSQL = `
		INSERT INTO status (id, temp_indoor, temp_outdoor, mode, last_action, is_busy, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			temp_indoor=excluded.temp_indoor,
			temp_outdoor=excluded.temp_outdoor,
			mode=excluded.mode,
			last_action=excluded.last_action,
			is_busy=excluded.is_busy,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT temp_indoor, temp_outdoor, mode, last_action, is_busy, updated_at
		FROM status WHERE id=?
	`
)

// Save upserts the singleton status row.
func (r *StatusSQLite) Save(ctx context.Context, s models.DeviceStatus) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		statusRowID,
		s.TempIndoor,
		s.TempOutdoor,
		s.Mode,
		s.LastAction,
		boolToInt(s.IsBusy),
		ts,
	)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

// Load fetches the singleton status row. The second return value reports
// whether a snapshot exists yet.
func (r *StatusSQLite) Load(ctx context.Context) (models.DeviceStatus, bool, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, statusRowID)

	var (
		s          models.DeviceStatus
		lastAction sql.NullString
		isBusy     int
	)
	err := row.Scan(&s.TempIndoor, &s.TempOutdoor, &s.Mode, &lastAction, &isBusy, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeviceStatus{}, false, nil
	}
	if err != nil {
		return models.DeviceStatus{}, false, fmt.Errorf("load status: %w", err)
	}
	s.LastAction = lastAction.String
	s.IsBusy = isBusy != 0
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}

// boolToInt stores booleans as 0/1 integers. The mirror conversion on read
// must go through an integer as well, never through string truthiness.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
