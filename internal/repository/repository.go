package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository/db"
)

// ErrNotFound is returned when a row addressed by id/name does not exist.
var ErrNotFound = errors.New("not found")

// CommandRepo is the durable command queue.
type CommandRepo interface {
	// Enqueue appends a pending command and returns its id.
	Enqueue(ctx context.Context, command string, parameters any) (int64, error)
	// ClaimPending atomically flips every pending command to executing and
	// returns the claimed rows in creation order.
	ClaimPending(ctx context.Context, now time.Time) ([]models.Command, error)
	// Finish moves a command to a terminal status (completed/failed).
	Finish(ctx context.Context, id int64, status, errMsg string, now time.Time) error
	// ReclaimStale demotes executing commands claimed before the deadline
	// back to pending and returns how many were reclaimed.
	ReclaimStale(ctx context.Context, deadline time.Time) (int64, error)
}

// StatusRepo owns the singleton device status snapshot.
type StatusRepo interface {
	Save(ctx context.Context, s models.DeviceStatus) error
	Load(ctx context.Context) (models.DeviceStatus, bool, error)
}

// GateRepo owns per-motor position and the auto/enabled flags.
type GateRepo interface {
	Positions(ctx context.Context) (map[string]int, error)
	UpsertPosition(ctx context.Context, motor string, position int, lastCommand string) error
	SetPosition(ctx context.Context, motor string, position int) error
	SetEnabled(ctx context.Context, motor string, enabled bool) error
	EnabledFlags(ctx context.Context) (map[string]bool, error)
	AutoModes(ctx context.Context) (map[string]bool, error)
	UpsertAutoMode(ctx context.Context, motor string, enabled bool) error
	List(ctx context.Context) ([]models.Gate, error)
}

// PhaseGuard validates a phase against the current config and the other
// enabled phases. It runs inside the save transaction so a concurrent
// writer cannot slip a conflicting window in between check and write.
type PhaseGuard func(cfg models.VentilationConfig, phases []models.CustomPhase) error

// VentilationRepo owns the ventilation config singleton and custom phases.
type VentilationRepo interface {
	Config(ctx context.Context) (models.VentilationConfig, error)
	UpdateConfig(ctx context.Context, cfg models.VentilationConfig) error
	MarkRun(ctx context.Context, day string) error
	Phases(ctx context.Context) ([]models.CustomPhase, error)
	SavePhase(ctx context.Context, p models.CustomPhase, guard PhaseGuard) (int64, error)
	DeletePhase(ctx context.Context, id int64) error
}

// SettingsRepo reads and batch-updates the operational parameters.
type SettingsRepo interface {
	All(ctx context.Context) ([]models.Setting, error)
	UpdateBatch(ctx context.Context, values map[string]string) ([]string, error)
}

// SwitchRepo owns the GPIO switch rows.
type SwitchRepo interface {
	List(ctx context.Context) ([]models.GpioSwitch, error)
	SetState(ctx context.Context, name string, state bool) error
}

// LogRepo is the append-only audit log.
type LogRepo interface {
	Append(ctx context.Context, e models.LogEntry) error
	List(ctx context.Context, from, to time.Time, level string) ([]models.LogEntry, error)
}

type Repository struct {
	Commands    CommandRepo
	Status      StatusRepo
	Gates       GateRepo
	Ventilation VentilationRepo
	Settings    SettingsRepo
	Switches    SwitchRepo
	Logs        LogRepo
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Commands:    NewCommandSQLite(sqlDB),
		Status:      NewStatusSQLite(sqlDB),
		Gates:       NewGateSQLite(sqlDB),
		Ventilation: NewVentilationSQLite(sqlDB),
		Settings:    NewSettingsSQLite(sqlDB),
		Switches:    NewSwitchSQLite(sqlDB),
		Logs:        NewLogSQLite(sqlDB),
	}
}

// InitDB opens the SQLite file and ensures schema and seed rows exist.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
