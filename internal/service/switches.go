package service

import (
	"context"
	"fmt"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

type SwitchService struct {
	switchRepo repository.SwitchRepo
	logRepo    repository.LogRepo
}

func NewSwitchService(switchRepo repository.SwitchRepo, logRepo repository.LogRepo) *SwitchService {
	return &SwitchService{switchRepo: switchRepo, logRepo: logRepo}
}

var _ Switches = (*SwitchService)(nil)

func (s *SwitchService) List(ctx context.Context) ([]models.GpioSwitch, error) {
	return s.switchRepo.List(ctx)
}

// Toggle sets one switch; the device applies the state on its next sync.
func (s *SwitchService) Toggle(ctx context.Context, name string, state bool) error {
	if name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if err := s.switchRepo.SetState(ctx, name, state); err != nil {
		return err
	}
	label := "OFF"
	if state {
		label = "ON"
	}
	_ = s.logRepo.Append(ctx, models.LogEntry{
		Level:   models.LogInfo,
		Message: fmt.Sprintf("GPIO switch toggled: %s = %s", name, label),
	})
	return nil
}
