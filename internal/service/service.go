package service

import (
	"context"
	"errors"
	"time"

	"greenhouse_control/internal/logger"
	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

// ErrValidation marks rejected input; handlers map it to 400.
var ErrValidation = errors.New("invalid input")

// OverlapError reports which ventilation window a new phase collides with.
type OverlapError struct {
	Window string
}

func (e *OverlapError) Error() string {
	return "time window overlaps with: " + e.Window
}

// Commands is the operator->device command queue.
type Commands interface {
	Enqueue(ctx context.Context, command string, parameters any) (int64, error)
	// PollPending returns all pending commands oldest-first and claims them
	// (status becomes executing) in the same operation.
	PollPending(ctx context.Context) ([]models.Command, error)
	Complete(ctx context.Context, id int64) error
	Fail(ctx context.Context, id int64, errMsg string) error
	// RequestRestart enqueues the reserved RESTART command.
	RequestRestart(ctx context.Context) (int64, error)
}

// DeviceState reconciles device pushes and serves the composite status view.
type DeviceState interface {
	GetStatus(ctx context.Context) (models.StatusView, error)
	ApplyReport(ctx context.Context, report models.StatusReport) error
}

// Gates exposes the per-motor registry: positions, auto flags, seasonal
// enabled flags.
type Gates interface {
	List(ctx context.Context) ([]models.Gate, error)
	SetPosition(ctx context.Context, motor string, position int) error
	AutoModes(ctx context.Context) (map[string]bool, error)
	SetAutoMode(ctx context.Context, motor string, enabled bool) error
	EnabledFlags(ctx context.Context) (map[string]bool, error)
	SetEnabled(ctx context.Context, motor string, enabled bool) error
}

// Ventilation owns the schedule config, the custom phases and the overlap
// checking between all enabled windows.
type Ventilation interface {
	View(ctx context.Context) (models.VentilationView, error)
	UpdateConfig(ctx context.Context, patch models.VentilationPatch) error
	MarkRun(ctx context.Context) error
	Phases(ctx context.Context) ([]models.CustomPhase, error)
	SavePhase(ctx context.Context, p models.CustomPhase) (int64, error)
	DeletePhase(ctx context.Context, id int64) error
}

// Settings reads and batch-updates the typed operational parameters.
type Settings interface {
	All(ctx context.Context) (map[string]map[string]models.SettingView, error)
	// UpdateBatch validates every pair first; one bad or unknown key rejects
	// the whole batch. Returns the keys that were written.
	UpdateBatch(ctx context.Context, values map[string]any) ([]string, error)
}

// Switches toggles the relay-driven GPIO switches.
type Switches interface {
	List(ctx context.Context) ([]models.GpioSwitch, error)
	Toggle(ctx context.Context, name string, state bool) error
}

// AuditLog exposes the append-only log with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.LogEntry, error)
}

// Session authenticates the two principals: the web operator (password ->
// session token) and the device (shared API key).
type Session interface {
	Login(password string) (string, error)
	VerifyToken(token string) error
	VerifyAPIKey(key string) bool
}

// Reclaimer runs the background loop that demotes commands claimed by a
// dead poller back to pending. Stop via context cancellation in main().
type Reclaimer interface {
	Run(ctx context.Context, tick time.Duration)
}

// LogFilter supports audit log filtering by time range and level.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Level string    // "", "INFO", "WARNING", "ERROR"
}

// AuthConfig carries the secrets the session service compares against.
type AuthConfig struct {
	APIKey       string
	PasswordHash string // bcrypt hash of the operator password
	SessionTTL   time.Duration
}

// QueueConfig tunes the command claim lease.
type QueueConfig struct {
	// ClaimTimeout is how long a command may sit in executing before the
	// reclaimer hands it back to the pending pool.
	ClaimTimeout time.Duration
}

type Service struct {
	Commands
	DeviceState
	Gates
	Ventilation
	Settings
	Switches
	AuditLog
	Session
	Reclaimer
}

// NewService wires the repository layer into the concrete services.
func NewService(repos *repository.Repository, auth AuthConfig, queue QueueConfig, log *logger.Logger) *Service {
	return &Service{
		Commands:    NewCommandService(repos.Commands, repos.Logs),
		DeviceState: NewStatusService(repos.Status, repos.Gates, repos.Logs),
		Gates:       NewGateService(repos.Gates, repos.Logs),
		Ventilation: NewVentilationService(repos.Ventilation, repos.Logs),
		Settings:    NewSettingsService(repos.Settings, repos.Logs),
		Switches:    NewSwitchService(repos.Switches, repos.Logs),
		AuditLog:    NewAuditLogService(repos.Logs),
		Session:     NewSessionService(auth),
		Reclaimer:   NewReclaimerService(repos.Commands, repos.Logs, queue, log),
	}
}
