package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
	"greenhouse_control/internal/service"
)

func TestGateHandlers_AutoModeRoundTrip(t *testing.T) {
	gates := &mockGates{autoModes: map[string]bool{"GH1_VORNE": false, "GH2_VORNE": true}}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Gates: gates}
	r := newTestRouter(s)

	// GET is open
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gate-auto-mode", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	var flags map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &flags)
	if flags["GH1_VORNE"] || !flags["GH2_VORNE"] {
		t.Fatalf("flags = %v", flags)
	}

	// POST with explicit false
	body := bytes.NewBufferString(`{"motor_name":"GH2_VORNE","auto_enabled":false}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gate-auto-mode", body))
	if w.Code != http.StatusOK {
		t.Fatalf("post status=%d, body=%s", w.Code, w.Body.String())
	}
	if gates.lastMotor != "GH2_VORNE" || gates.lastFlag {
		t.Fatalf("SetAutoMode(%q, %v)", gates.lastMotor, gates.lastFlag)
	}

	// Absent flag defaults to true
	body = bytes.NewBufferString(`{"motor_name":"GH3_VORNE"}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gate-auto-mode", body))
	if w.Code != http.StatusOK {
		t.Fatalf("post status=%d, body=%s", w.Code, w.Body.String())
	}
	if !gates.lastFlag {
		t.Fatalf("absent auto_enabled did not default to true")
	}
}

func TestGateHandlers_EnabledUnknownMotor(t *testing.T) {
	gates := &mockGates{err: repository.ErrNotFound}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Gates: gates}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"motor_name":"NO_SUCH","enabled":false}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gate-enabled", body))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestGateHandlers_PositionRequiresValue(t *testing.T) {
	gates := &mockGates{}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Gates: gates}
	r := newTestRouter(s)

	// missing position field
	body := bytes.NewBufferString(`{"motor_name":"GH1_VORNE"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gate-status", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing position status=%d, want 400", w.Code)
	}

	// zero is a valid position; pointer binding must keep it
	body = bytes.NewBufferString(`{"motor_name":"GH1_VORNE","position":0}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gate-status", body))
	if w.Code != http.StatusOK {
		t.Fatalf("zero position status=%d, body=%s", w.Code, w.Body.String())
	}
	if gates.lastMotor != "GH1_VORNE" || gates.lastPosition != 0 {
		t.Fatalf("SetPosition(%q, %d)", gates.lastMotor, gates.lastPosition)
	}
}

func TestGateHandlers_ListGateRows(t *testing.T) {
	gates := &mockGates{gates: []models.Gate{
		{MotorName: "GH1_VORNE", Position: 70, Enabled: true},
		{MotorName: "GH1_HINTEN", Position: 0, Enabled: false},
	}}
	s := &service.Service{Session: &mockSession{}, Gates: gates}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gate-status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out []models.Gate
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out) != 2 || out[1].Enabled {
		t.Fatalf("rows = %+v", out)
	}
}

func TestSwitchHandlers_Toggle(t *testing.T) {
	switches := &mockSwitches{switches: []models.GpioSwitch{
		{Name: "Bewässerung 1", GpioPin: 20, State: false},
	}}
	s := &service.Service{Session: &mockSession{apiKeyOK: true}, Switches: switches}
	r := newTestRouter(s)

	// list is open
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gpio-switches", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}

	// toggle requires the state field
	body := bytes.NewBufferString(`{"name":"Bewässerung 1"}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gpio-switches", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing state status=%d, want 400", w.Code)
	}

	// explicit false must survive pointer binding
	body = bytes.NewBufferString(`{"name":"Bewässerung 1","state":false}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, deviceRequest(http.MethodPost, "/api/gpio-switches", body))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status=%d, body=%s", w.Code, w.Body.String())
	}
	if switches.lastName != "Bewässerung 1" || switches.lastState {
		t.Fatalf("Toggle(%q, %v)", switches.lastName, switches.lastState)
	}
}
