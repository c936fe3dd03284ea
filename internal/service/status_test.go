package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"greenhouse_control/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestStatusService_GetStatus_BaselineWhenNoSnapshot(t *testing.T) {
	svc := NewStatusService(
		&fakeStatusRepo{loadFound: false},
		&fakeGateRepo{positions: map[string]int{}},
		&fakeLogRepo{},
	)

	view, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if view.Mode != models.ModeManual || view.LastAction != "No data" {
		t.Fatalf("baseline = %+v, want MANUAL / No data", view.DeviceStatus)
	}
	if view.TempIndoor != nil || view.TempOutdoor != nil {
		t.Fatalf("baseline temps = %v/%v, want nil", view.TempIndoor, view.TempOutdoor)
	}
	// Missing flag rows default to true for every known motor.
	for _, motor := range models.Motors {
		if !view.GateAutoMode[motor] || !view.GateEnabled[motor] {
			t.Fatalf("motor %s flags = auto:%v enabled:%v, want true/true",
				motor, view.GateAutoMode[motor], view.GateEnabled[motor])
		}
	}
}

func TestStatusService_GetStatus_MergesStoredFlagsOverDefaults(t *testing.T) {
	svc := NewStatusService(
		&fakeStatusRepo{loadFound: true, loadResp: models.DeviceStatus{Mode: models.ModeAuto}},
		&fakeGateRepo{
			positions: map[string]int{"GH1_VORNE": 40},
			autoModes: map[string]bool{"GH2_VORNE": false},
			enabled:   map[string]bool{"GH3_HINTEN": false},
		},
		&fakeLogRepo{},
	)

	view, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if view.Mode != models.ModeAuto {
		t.Fatalf("mode = %q, want AUTO", view.Mode)
	}
	if view.GateAutoMode["GH2_VORNE"] || !view.GateAutoMode["GH1_VORNE"] {
		t.Fatalf("auto modes = %+v", view.GateAutoMode)
	}
	if view.GateEnabled["GH3_HINTEN"] || !view.GateEnabled["GH1_VORNE"] {
		t.Fatalf("enabled flags = %+v", view.GateEnabled)
	}
	if view.GatePositions["GH1_VORNE"] != 40 {
		t.Fatalf("positions = %+v", view.GatePositions)
	}
}

func TestStatusService_ApplyReport_SavesSnapshotWithUTCStamp(t *testing.T) {
	statusRepo := &fakeStatusRepo{}
	svc := NewStatusService(statusRepo, &fakeGateRepo{positions: map[string]int{}}, &fakeLogRepo{})

	t0 := time.Now().UTC()
	err := svc.ApplyReport(context.Background(), models.StatusReport{
		TempIndoor:  floatPtr(24.5),
		TempOutdoor: floatPtr(18.0),
		Mode:        models.ModeAuto,
		LastAction:  "Opened GH1_VORNE",
		IsBusy:      true,
	})
	t1 := time.Now().UTC()
	if err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}

	if len(statusRepo.savedCalls) != 1 {
		t.Fatalf("Save called %d times, want 1", len(statusRepo.savedCalls))
	}
	saved := statusRepo.savedCalls[0]
	if saved.Mode != models.ModeAuto || !saved.IsBusy || *saved.TempIndoor != 24.5 {
		t.Fatalf("saved snapshot = %+v", saved)
	}
	if saved.UpdatedAt.Before(t0) || saved.UpdatedAt.After(t1) {
		t.Fatalf("UpdatedAt = %v, want within [%v, %v]", saved.UpdatedAt, t0, t1)
	}
}

func TestStatusService_ApplyReport_EmptyModeDefaultsToManual(t *testing.T) {
	statusRepo := &fakeStatusRepo{}
	svc := NewStatusService(statusRepo, &fakeGateRepo{positions: map[string]int{}}, &fakeLogRepo{})

	if err := svc.ApplyReport(context.Background(), models.StatusReport{}); err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}
	if got := statusRepo.savedCalls[0].Mode; got != models.ModeManual {
		t.Fatalf("mode = %q, want MANUAL", got)
	}
}

func TestStatusService_ApplyReport_AuditsOnlyChangedPositions(t *testing.T) {
	gateRepo := &fakeGateRepo{positions: map[string]int{
		"GH1_VORNE":  50,
		"GH1_HINTEN": 80,
	}}
	logs := &fakeLogRepo{}
	svc := NewStatusService(&fakeStatusRepo{}, gateRepo, logs)

	err := svc.ApplyReport(context.Background(), models.StatusReport{
		GatePositions: map[string]int{
			"GH1_VORNE":  70, // changed
			"GH1_HINTEN": 80, // same
		},
	})
	if err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}

	// One audit entry for the changed gate, none for the unchanged one.
	var gateEntries []string
	for _, e := range logs.entries {
		if strings.HasPrefix(e.Message, "Gate ") {
			gateEntries = append(gateEntries, e.Message)
		}
	}
	if len(gateEntries) != 1 || !strings.Contains(gateEntries[0], "GH1_VORNE: 50% -> 70%") {
		t.Fatalf("gate audit entries = %v", gateEntries)
	}

	// Both positions are written regardless of change.
	if len(gateRepo.upserts) != 2 {
		t.Fatalf("upserts = %d, want 2 (write-always)", len(gateRepo.upserts))
	}
	for _, up := range gateRepo.upserts {
		if up.LastCommand != "UPDATE" {
			t.Fatalf("last command = %q, want UPDATE", up.LastCommand)
		}
	}
}

func TestStatusService_ApplyReport_ClampsReportedPositions(t *testing.T) {
	gateRepo := &fakeGateRepo{positions: map[string]int{}}
	svc := NewStatusService(&fakeStatusRepo{}, gateRepo, &fakeLogRepo{})

	err := svc.ApplyReport(context.Background(), models.StatusReport{
		GatePositions: map[string]int{"GH2_VORNE": 150, "GH2_HINTEN": -10},
	})
	if err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}
	got := map[string]int{}
	for _, up := range gateRepo.upserts {
		got[up.Motor] = up.Position
	}
	if got["GH2_VORNE"] != 100 || got["GH2_HINTEN"] != 0 {
		t.Fatalf("clamped positions = %+v, want 100 and 0", got)
	}
}

func TestStatusService_ApplyReport_AuditsNewLastAction(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := NewStatusService(
		&fakeStatusRepo{loadFound: true, loadResp: models.DeviceStatus{LastAction: "Opened GH1_VORNE"}},
		&fakeGateRepo{positions: map[string]int{}},
		logs,
	)

	// Same action again: silent.
	if err := svc.ApplyReport(context.Background(), models.StatusReport{LastAction: "Opened GH1_VORNE"}); err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}
	if len(logs.entries) != 0 {
		t.Fatalf("audit entries for repeated action = %+v", logs.entries)
	}

	// New action: logged once.
	if err := svc.ApplyReport(context.Background(), models.StatusReport{LastAction: "Closed GH1_VORNE"}); err != nil {
		t.Fatalf("ApplyReport() error = %v", err)
	}
	if len(logs.entries) != 1 || logs.entries[0].Message != "Closed GH1_VORNE" {
		t.Fatalf("audit entries = %+v", logs.entries)
	}
}

func TestClampPosition(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {50, 50}, {100, 100}, {101, 100},
	}
	for _, tc := range cases {
		if got := ClampPosition(tc.in); got != tc.want {
			t.Fatalf("ClampPosition(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
