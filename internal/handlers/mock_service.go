package handlers

import (
	"context"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSession struct {
	loginToken string
	loginErr   error
	verifyErr  error
	apiKeyOK   bool

	lastLoginPassword string
	lastVerifyToken   string
	lastAPIKey        string
}

func (m *mockSession) Login(password string) (string, error) {
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}
func (m *mockSession) VerifyToken(token string) error {
	m.lastVerifyToken = token
	return m.verifyErr
}
func (m *mockSession) VerifyAPIKey(key string) bool {
	m.lastAPIKey = key
	return m.apiKeyOK && key != ""
}

type mockCommands struct {
	enqueueID  int64
	enqueueErr error
	pollResp   []models.Command
	pollErr    error
	finishErr  error

	lastCommand    string
	lastParameters any
	completeCalls  []int64
	failCalls      []int64
	lastFailMsg    string
	restartCalls   int
}

func (m *mockCommands) Enqueue(ctx context.Context, command string, parameters any) (int64, error) {
	m.lastCommand = command
	m.lastParameters = parameters
	return m.enqueueID, m.enqueueErr
}
func (m *mockCommands) PollPending(ctx context.Context) ([]models.Command, error) {
	return m.pollResp, m.pollErr
}
func (m *mockCommands) Complete(ctx context.Context, id int64) error {
	m.completeCalls = append(m.completeCalls, id)
	return m.finishErr
}
func (m *mockCommands) Fail(ctx context.Context, id int64, errMsg string) error {
	m.failCalls = append(m.failCalls, id)
	m.lastFailMsg = errMsg
	return m.finishErr
}
func (m *mockCommands) RequestRestart(ctx context.Context) (int64, error) {
	m.restartCalls++
	return m.enqueueID, m.enqueueErr
}

type mockDeviceState struct {
	view       models.StatusView
	getErr     error
	applyErr   error
	lastReport models.StatusReport
	applyCalls int
}

func (m *mockDeviceState) GetStatus(ctx context.Context) (models.StatusView, error) {
	return m.view, m.getErr
}
func (m *mockDeviceState) ApplyReport(ctx context.Context, report models.StatusReport) error {
	m.applyCalls++
	m.lastReport = report
	return m.applyErr
}

type mockGates struct {
	gates     []models.Gate
	autoModes map[string]bool
	enabled   map[string]bool
	err       error

	lastMotor    string
	lastPosition int
	lastFlag     bool
}

func (m *mockGates) List(ctx context.Context) ([]models.Gate, error) { return m.gates, m.err }
func (m *mockGates) SetPosition(ctx context.Context, motor string, position int) error {
	m.lastMotor, m.lastPosition = motor, position
	return m.err
}
func (m *mockGates) AutoModes(ctx context.Context) (map[string]bool, error) {
	return m.autoModes, m.err
}
func (m *mockGates) SetAutoMode(ctx context.Context, motor string, enabled bool) error {
	m.lastMotor, m.lastFlag = motor, enabled
	return m.err
}
func (m *mockGates) EnabledFlags(ctx context.Context) (map[string]bool, error) {
	return m.enabled, m.err
}
func (m *mockGates) SetEnabled(ctx context.Context, motor string, enabled bool) error {
	m.lastMotor, m.lastFlag = motor, enabled
	return m.err
}

type mockVentilation struct {
	view     models.VentilationView
	phases   []models.CustomPhase
	saveID   int64
	err      error
	saveErr  error
	deleteID int64

	lastPatch models.VentilationPatch
	lastPhase models.CustomPhase
	markRuns  int
}

func (m *mockVentilation) View(ctx context.Context) (models.VentilationView, error) {
	return m.view, m.err
}
func (m *mockVentilation) UpdateConfig(ctx context.Context, patch models.VentilationPatch) error {
	m.lastPatch = patch
	return m.err
}
func (m *mockVentilation) MarkRun(ctx context.Context) error {
	m.markRuns++
	return m.err
}
func (m *mockVentilation) Phases(ctx context.Context) ([]models.CustomPhase, error) {
	return m.phases, m.err
}
func (m *mockVentilation) SavePhase(ctx context.Context, p models.CustomPhase) (int64, error) {
	m.lastPhase = p
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	return m.saveID, m.err
}
func (m *mockVentilation) DeletePhase(ctx context.Context, id int64) error {
	m.deleteID = id
	return m.err
}

type mockSettings struct {
	grouped map[string]map[string]models.SettingView
	updated []string
	err     error

	lastValues map[string]any
}

func (m *mockSettings) All(ctx context.Context) (map[string]map[string]models.SettingView, error) {
	return m.grouped, m.err
}
func (m *mockSettings) UpdateBatch(ctx context.Context, values map[string]any) ([]string, error) {
	m.lastValues = values
	if m.err != nil {
		return nil, m.err
	}
	return m.updated, nil
}

type mockSwitches struct {
	switches []models.GpioSwitch
	err      error

	lastName  string
	lastState bool
}

func (m *mockSwitches) List(ctx context.Context) ([]models.GpioSwitch, error) {
	return m.switches, m.err
}
func (m *mockSwitches) Toggle(ctx context.Context, name string, state bool) error {
	m.lastName, m.lastState = name, state
	return m.err
}

type mockAuditLog struct {
	resp       []models.LogEntry
	err        error
	lastFilter service.LogFilter
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.LogEntry, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
