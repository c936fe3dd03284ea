package service

import (
	"context"
	"fmt"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

type GateService struct {
	gateRepo repository.GateRepo
	logRepo  repository.LogRepo
}

func NewGateService(gateRepo repository.GateRepo, logRepo repository.LogRepo) *GateService {
	return &GateService{gateRepo: gateRepo, logRepo: logRepo}
}

var _ Gates = (*GateService)(nil)

// List returns the full gate rows for the dashboard.
func (s *GateService) List(ctx context.Context) ([]models.Gate, error) {
	return s.gateRepo.List(ctx)
}

// SetPosition updates one gate's position (clamped). Unknown motors are
// rejected.
func (s *GateService) SetPosition(ctx context.Context, motor string, position int) error {
	if motor == "" {
		return fmt.Errorf("%w: motor_name required", ErrValidation)
	}
	position = ClampPosition(position)
	if err := s.gateRepo.SetPosition(ctx, motor, position); err != nil {
		return err
	}
	s.audit(ctx, fmt.Sprintf("Gate %s position updated to %d%%", motor, position))
	return nil
}

// AutoModes returns motor -> auto flag, default-true for missing rows.
func (s *GateService) AutoModes(ctx context.Context) (map[string]bool, error) {
	flags, err := s.gateRepo.AutoModes(ctx)
	if err != nil {
		return nil, err
	}
	return withMotorDefaults(flags), nil
}

// SetAutoMode stores whether automatic temperature logic may move the gate.
func (s *GateService) SetAutoMode(ctx context.Context, motor string, enabled bool) error {
	if motor == "" {
		return fmt.Errorf("%w: motor_name required", ErrValidation)
	}
	if err := s.gateRepo.UpsertAutoMode(ctx, motor, enabled); err != nil {
		return err
	}
	state := "OFF"
	if enabled {
		state = "ON"
	}
	s.audit(ctx, fmt.Sprintf("Gate auto mode updated: %s = %s", motor, state))
	return nil
}

// EnabledFlags returns motor -> enabled, default-true for missing rows.
func (s *GateService) EnabledFlags(ctx context.Context) (map[string]bool, error) {
	flags, err := s.gateRepo.EnabledFlags(ctx)
	if err != nil {
		return nil, err
	}
	return withMotorDefaults(flags), nil
}

// SetEnabled flips the seasonal kill-switch. Disabled gates are excluded
// from automatic and most manual movement by the consumers of this flag.
func (s *GateService) SetEnabled(ctx context.Context, motor string, enabled bool) error {
	if motor == "" {
		return fmt.Errorf("%w: motor_name required", ErrValidation)
	}
	if err := s.gateRepo.SetEnabled(ctx, motor, enabled); err != nil {
		return err
	}
	label := "enabled"
	if !enabled {
		label = "disabled (winter mode)"
	}
	s.audit(ctx, fmt.Sprintf("Gate %s %s", motor, label))
	return nil
}

func (s *GateService) audit(ctx context.Context, msg string) {
	_ = s.logRepo.Append(ctx, models.LogEntry{Level: models.LogInfo, Message: msg})
}
