package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

type CommandService struct {
	commandRepo repository.CommandRepo
	logRepo     repository.LogRepo
}

func NewCommandService(commandRepo repository.CommandRepo, logRepo repository.LogRepo) *CommandService {
	return &CommandService{commandRepo: commandRepo, logRepo: logRepo}
}

var _ Commands = (*CommandService)(nil)

// Enqueue appends a pending command. Duplicates are allowed; the queue is
// append-only history, never deduplicated.
func (s *CommandService) Enqueue(ctx context.Context, command string, parameters any) (int64, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return 0, fmt.Errorf("%w: command required", ErrValidation)
	}

	id, err := s.commandRepo.Enqueue(ctx, command, parameters)
	if err != nil {
		return 0, err
	}

	s.audit(ctx, models.LogInfo, fmt.Sprintf("New command: %s (ID: %d)", command, id))
	return id, nil
}

// PollPending claims and returns everything currently pending, oldest
// first. An immediately repeated call returns none of the same commands.
func (s *CommandService) PollPending(ctx context.Context) ([]models.Command, error) {
	return s.commandRepo.ClaimPending(ctx, time.Now().UTC())
}

// Complete records a successful execution reported by the device.
func (s *CommandService) Complete(ctx context.Context, id int64) error {
	if err := s.commandRepo.Finish(ctx, id, models.CommandCompleted, "", time.Now().UTC()); err != nil {
		return err
	}
	s.audit(ctx, models.LogInfo, fmt.Sprintf("Command executed: ID %d", id))
	return nil
}

// Fail records a device-reported execution failure. Terminal; retry is an
// operator re-enqueue.
func (s *CommandService) Fail(ctx context.Context, id int64, errMsg string) error {
	if errMsg == "" {
		errMsg = "Unknown error"
	}
	if err := s.commandRepo.Finish(ctx, id, models.CommandFailed, errMsg, time.Now().UTC()); err != nil {
		return err
	}
	s.audit(ctx, models.LogError, fmt.Sprintf("Command failed: ID %d - %s", id, errMsg))
	return nil
}

// RequestRestart rides the normal queue with a reserved command name, so
// operational control needs no second channel.
func (s *CommandService) RequestRestart(ctx context.Context) (int64, error) {
	id, err := s.commandRepo.Enqueue(ctx, models.CommandRestart, nil)
	if err != nil {
		return 0, err
	}
	s.audit(ctx, models.LogInfo, "Service restart requested (RESTART command)")
	return id, nil
}

// audit is best-effort; a failed log write never fails the operation.
func (s *CommandService) audit(ctx context.Context, level, msg string) {
	_ = s.logRepo.Append(ctx, models.LogEntry{Level: level, Message: msg})
}
