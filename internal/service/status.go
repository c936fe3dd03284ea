package service

import (
	"context"
	"fmt"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

const noDataAction = "No data"

type StatusService struct {
	statusRepo repository.StatusRepo
	gateRepo   repository.GateRepo
	logRepo    repository.LogRepo
}

func NewStatusService(statusRepo repository.StatusRepo, gateRepo repository.GateRepo, logRepo repository.LogRepo) *StatusService {
	return &StatusService{statusRepo: statusRepo, gateRepo: gateRepo, logRepo: logRepo}
}

var _ DeviceState = (*StatusService)(nil)

// GetStatus composes the snapshot with the gate position/auto/enabled maps.
func (s *StatusService) GetStatus(ctx context.Context) (models.StatusView, error) {
	status, found, err := s.statusRepo.Load(ctx)
	if err != nil {
		return models.StatusView{}, err
	}
	if !found {
		status = baselineStatus()
	}

	positions, err := s.gateRepo.Positions(ctx)
	if err != nil {
		return models.StatusView{}, err
	}
	autoModes, err := s.gateRepo.AutoModes(ctx)
	if err != nil {
		return models.StatusView{}, err
	}
	enabled, err := s.gateRepo.EnabledFlags(ctx)
	if err != nil {
		return models.StatusView{}, err
	}

	return models.StatusView{
		DeviceStatus:  status,
		GatePositions: positions,
		GateAutoMode:  withMotorDefaults(autoModes),
		GateEnabled:   withMotorDefaults(enabled),
	}, nil
}

// ApplyReport is the device sync path: upsert the singleton snapshot and
// every reported gate position. Audit entries are emitted only for values
// that actually changed, so identical periodic pushes stay silent.
func (s *StatusService) ApplyReport(ctx context.Context, report models.StatusReport) error {
	prev, _, err := s.statusRepo.Load(ctx)
	if err != nil {
		return err
	}
	oldPositions, err := s.gateRepo.Positions(ctx)
	if err != nil {
		return err
	}

	if report.LastAction != "" && report.LastAction != prev.LastAction {
		s.audit(ctx, models.LogInfo, report.LastAction)
	}

	mode := report.Mode
	if mode == "" {
		mode = models.ModeManual
	}
	if err := s.statusRepo.Save(ctx, models.DeviceStatus{
		TempIndoor:  report.TempIndoor,
		TempOutdoor: report.TempOutdoor,
		Mode:        mode,
		LastAction:  report.LastAction,
		IsBusy:      report.IsBusy,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		return err
	}

	for motor, pos := range report.GatePositions {
		newPos := ClampPosition(pos)
		if oldPos, ok := oldPositions[motor]; ok && oldPos != newPos {
			s.audit(ctx, models.LogInfo, fmt.Sprintf("Gate %s: %d%% -> %d%%", motor, oldPos, newPos))
		}
		// Write-always: the position is persisted whether or not it changed.
		if err := s.gateRepo.UpsertPosition(ctx, motor, newPos, "UPDATE"); err != nil {
			return err
		}
	}

	return nil
}

func (s *StatusService) audit(ctx context.Context, level, msg string) {
	_ = s.logRepo.Append(ctx, models.LogEntry{Level: level, Message: msg})
}

// baselineStatus is what GET /api/status reports before the device has
// pushed anything.
func baselineStatus() models.DeviceStatus {
	return models.DeviceStatus{
		Mode:       models.ModeManual,
		LastAction: noDataAction,
		IsBusy:     false,
		UpdatedAt:  time.Now().UTC(),
	}
}

// withMotorDefaults fills the fixed motor set with default-true for rows
// that do not exist yet.
func withMotorDefaults(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(models.Motors))
	for _, motor := range models.Motors {
		out[motor] = true
	}
	for motor, v := range flags {
		out[motor] = v
	}
	return out
}

// ClampPosition bounds a gate position to [0,100]. Clamping (not rejection)
// is applied consistently on every write path so a single out-of-range
// reading cannot fail a whole device sync.
func ClampPosition(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}
