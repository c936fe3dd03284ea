package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenhouse_control/internal/models"
)

func TestAuditLogService_List_InvalidRange(t *testing.T) {
	svc := NewAuditLogService(&fakeLogRepo{})

	later := time.Now()
	earlier := later.Add(-time.Hour)
	_, err := svc.List(context.Background(), LogFilter{From: later, To: earlier})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("List() error = %v, want errInvalidTimeRange", err)
	}
}

func TestAuditLogService_List_NormalizesLevel(t *testing.T) {
	repo := &fakeLogRepo{entries: []models.LogEntry{
		{Level: models.LogError, Message: "boom", CreatedAt: time.Now().UTC()},
		{Level: models.LogInfo, Message: "fine", CreatedAt: time.Now().UTC()},
	}}
	svc := NewAuditLogService(repo)

	out, err := svc.List(context.Background(), LogFilter{Level: " error "})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 || out[0].Message != "boom" {
		t.Fatalf("List() = %+v, want only the ERROR entry", out)
	}
}

func TestAuditLogService_List_ZeroBoundsMeanUnbounded(t *testing.T) {
	repo := &fakeLogRepo{entries: []models.LogEntry{
		{Level: models.LogInfo, Message: "a", CreatedAt: time.Now().UTC().Add(-48 * time.Hour)},
		{Level: models.LogInfo, Message: "b", CreatedAt: time.Now().UTC()},
	}}
	svc := NewAuditLogService(repo)

	out, err := svc.List(context.Background(), LogFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(out))
	}
}
