package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

type AuditLogService struct {
	logRepo repository.LogRepo
}

func NewAuditLogService(logRepo repository.LogRepo) *AuditLogService {
	return &AuditLogService{logRepo: logRepo}
}

var _ AuditLog = (*AuditLogService)(nil)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	level := strings.TrimSpace(strings.ToUpper(f.Level))
	return from, to, level, nil
}

func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.LogEntry, error) {
	from, to, level, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.logRepo.List(ctx, from, to, level)
}
