package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/service"
)

func TestVentilationHandlers_GetView(t *testing.T) {
	vent := &mockVentilation{view: models.VentilationView{
		VentilationConfig: models.VentilationConfig{
			Enabled:         true,
			DurationMinutes: 20,
			LastRun:         "2026-08-29",
		},
		CustomPhases: []models.CustomPhase{
			{ID: 1, StartTime: "08:00", EndTime: "08:30", Enabled: true},
		},
	}}
	s := &service.Service{Session: &mockSession{}, Ventilation: vent}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ventilation", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var out models.VentilationView
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Enabled || out.LastRun != "2026-08-29" || len(out.CustomPhases) != 1 {
		t.Fatalf("view = %+v", out)
	}
}

func TestVentilationHandlers_UpdateConfigPartialPatch(t *testing.T) {
	vent := &mockVentilation{}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Ventilation: vent}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"midday_enabled":true,"offset_minutes":45}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/ventilation", body))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	patch := vent.lastPatch
	if patch.MiddayEnabled == nil || !*patch.MiddayEnabled {
		t.Fatalf("midday_enabled not in patch: %+v", patch)
	}
	if patch.OffsetMinutes == nil || *patch.OffsetMinutes != 45 {
		t.Fatalf("offset_minutes not in patch: %+v", patch)
	}
	// Absent fields must stay nil so the service keeps current values.
	if patch.Enabled != nil || patch.EveningEnabled != nil || patch.DurationMinutes != nil {
		t.Fatalf("absent fields bound non-nil: %+v", patch)
	}
}

func TestVentilationHandlers_MarkRunIsDeviceOnly(t *testing.T) {
	vent := &mockVentilation{}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Ventilation: vent}
	r := newTestRouter(s)

	// without the key
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ventilation/mark-run", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous mark-run status=%d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/ventilation/mark-run", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("device mark-run status=%d, body=%s", w.Code, w.Body.String())
	}
	if vent.markRuns != 1 {
		t.Fatalf("markRuns = %d", vent.markRuns)
	}
}

func TestVentilationHandlers_SavePhaseDefaultsEnabled(t *testing.T) {
	vent := &mockVentilation{saveID: 2}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Ventilation: vent}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"start_time":"10:00","end_time":"10:30"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/ventilation/custom-phases", body))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if !vent.lastPhase.Enabled {
		t.Fatalf("enabled did not default to true: %+v", vent.lastPhase)
	}

	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["success"] != true || int64(m["id"].(float64)) != 2 {
		t.Fatalf("body = %v", m)
	}
}

func TestVentilationHandlers_SavePhaseOverlapMapsTo409(t *testing.T) {
	vent := &mockVentilation{saveErr: &service.OverlapError{Window: "Midday"}}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Ventilation: vent}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"start_time":"12:00","end_time":"12:30"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/ventilation/custom-phases", body))
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409 (body=%s)", w.Code, w.Body.String())
	}

	var m map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["error"] != "time window overlaps with: Midday" {
		t.Fatalf("error = %q", m["error"])
	}
}

func TestVentilationHandlers_DeletePhase(t *testing.T) {
	vent := &mockVentilation{}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Ventilation: vent}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodDelete, "/api/ventilation/custom-phases/3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if vent.deleteID != 3 {
		t.Fatalf("deleted id = %d", vent.deleteID)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodDelete, "/api/ventilation/custom-phases/zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d, want 400", w.Code)
	}
}
