package service

import (
	"context"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

// Shared fakes for the service tests. Each records calls so tests can
// assert on what the service actually wrote.

type fakeLogRepo struct {
	appendErr error
	entries   []models.LogEntry
	listErr   error
}

func (f *fakeLogRepo) Append(ctx context.Context, e models.LogEntry) error {
	f.entries = append(f.entries, e)
	return f.appendErr
}

func (f *fakeLogRepo) List(ctx context.Context, from, to time.Time, level string) ([]models.LogEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.LogEntry
	for _, e := range f.entries {
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.CreatedAt.After(to) {
			continue
		}
		if level != "" && e.Level != level {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeCommandRepo struct {
	nextID     int64
	enqueued   []models.Command
	enqueueErr error

	claimResp []models.Command
	claimErr  error

	finishErr   error
	finishCalls []struct {
		ID     int64
		Status string
		ErrMsg string
	}

	reclaimN        int64
	reclaimErr      error
	reclaimDeadline time.Time
}

func (f *fakeCommandRepo) Enqueue(ctx context.Context, command string, parameters any) (int64, error) {
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	f.nextID++
	f.enqueued = append(f.enqueued, models.Command{
		ID:         f.nextID,
		Command:    command,
		Parameters: parameters,
		Status:     models.CommandPending,
	})
	return f.nextID, nil
}

func (f *fakeCommandRepo) ClaimPending(ctx context.Context, now time.Time) ([]models.Command, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.claimResp, nil
}

func (f *fakeCommandRepo) Finish(ctx context.Context, id int64, status, errMsg string, now time.Time) error {
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finishCalls = append(f.finishCalls, struct {
		ID     int64
		Status string
		ErrMsg string
	}{id, status, errMsg})
	return nil
}

func (f *fakeCommandRepo) ReclaimStale(ctx context.Context, deadline time.Time) (int64, error) {
	f.reclaimDeadline = deadline
	return f.reclaimN, f.reclaimErr
}

type fakeStatusRepo struct {
	loadResp  models.DeviceStatus
	loadFound bool
	loadErr   error

	saveErr    error
	savedCalls []models.DeviceStatus
}

func (f *fakeStatusRepo) Save(ctx context.Context, s models.DeviceStatus) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedCalls = append(f.savedCalls, s)
	return nil
}

func (f *fakeStatusRepo) Load(ctx context.Context) (models.DeviceStatus, bool, error) {
	return f.loadResp, f.loadFound, f.loadErr
}

type fakeGateRepo struct {
	positions map[string]int
	autoModes map[string]bool
	enabled   map[string]bool
	gates     []models.Gate
	err       error

	upserts []struct {
		Motor       string
		Position    int
		LastCommand string
	}
	setPositions map[string]int
	setEnabled   map[string]bool
	setAutoModes map[string]bool
}

func (f *fakeGateRepo) Positions(ctx context.Context) (map[string]int, error) {
	return f.positions, f.err
}

func (f *fakeGateRepo) UpsertPosition(ctx context.Context, motor string, position int, lastCommand string) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, struct {
		Motor       string
		Position    int
		LastCommand string
	}{motor, position, lastCommand})
	return nil
}

func (f *fakeGateRepo) SetPosition(ctx context.Context, motor string, position int) error {
	if f.err != nil {
		return f.err
	}
	if f.setPositions == nil {
		f.setPositions = map[string]int{}
	}
	f.setPositions[motor] = position
	return nil
}

func (f *fakeGateRepo) SetEnabled(ctx context.Context, motor string, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	if f.setEnabled == nil {
		f.setEnabled = map[string]bool{}
	}
	f.setEnabled[motor] = enabled
	return nil
}

func (f *fakeGateRepo) EnabledFlags(ctx context.Context) (map[string]bool, error) {
	return f.enabled, f.err
}

func (f *fakeGateRepo) AutoModes(ctx context.Context) (map[string]bool, error) {
	return f.autoModes, f.err
}

func (f *fakeGateRepo) UpsertAutoMode(ctx context.Context, motor string, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	if f.setAutoModes == nil {
		f.setAutoModes = map[string]bool{}
	}
	f.setAutoModes[motor] = enabled
	return nil
}

func (f *fakeGateRepo) List(ctx context.Context) ([]models.Gate, error) {
	return f.gates, f.err
}

// fakeVentRepo mirrors the real repository's save semantics: the guard
// runs against the stored config and phases before the write happens.
type fakeVentRepo struct {
	cfg    models.VentilationConfig
	cfgErr error

	phases    []models.CustomPhase
	phasesErr error

	nextID   int64
	saveErr  error
	deleted  []int64
	markRuns []string
}

func (f *fakeVentRepo) Config(ctx context.Context) (models.VentilationConfig, error) {
	return f.cfg, f.cfgErr
}

func (f *fakeVentRepo) UpdateConfig(ctx context.Context, cfg models.VentilationConfig) error {
	f.cfg = cfg
	return nil
}

func (f *fakeVentRepo) MarkRun(ctx context.Context, day string) error {
	f.markRuns = append(f.markRuns, day)
	return nil
}

func (f *fakeVentRepo) Phases(ctx context.Context) ([]models.CustomPhase, error) {
	return f.phases, f.phasesErr
}

func (f *fakeVentRepo) SavePhase(ctx context.Context, p models.CustomPhase, guard repository.PhaseGuard) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	if guard != nil {
		if err := guard(f.cfg, f.phases); err != nil {
			return 0, err
		}
	}
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
		f.phases = append(f.phases, p)
		return p.ID, nil
	}
	for i := range f.phases {
		if f.phases[i].ID == p.ID {
			f.phases[i] = p
			return p.ID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f *fakeVentRepo) DeletePhase(ctx context.Context, id int64) error {
	for i := range f.phases {
		if f.phases[i].ID == id {
			f.phases = append(f.phases[:i], f.phases[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeSettingsRepo struct {
	rows    []models.Setting
	allErr  error
	batches []map[string]string
	updErr  error
}

func (f *fakeSettingsRepo) All(ctx context.Context) ([]models.Setting, error) {
	return f.rows, f.allErr
}

func (f *fakeSettingsRepo) UpdateBatch(ctx context.Context, values map[string]string) ([]string, error) {
	if f.updErr != nil {
		return nil, f.updErr
	}
	f.batches = append(f.batches, values)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys, nil
}

type fakeSwitchRepo struct {
	switches []models.GpioSwitch
	err      error
	states   map[string]bool
}

func (f *fakeSwitchRepo) List(ctx context.Context) ([]models.GpioSwitch, error) {
	return f.switches, f.err
}

func (f *fakeSwitchRepo) SetState(ctx context.Context, name string, state bool) error {
	if f.err != nil {
		return f.err
	}
	if f.states == nil {
		f.states = map[string]bool{}
	}
	f.states[name] = state
	return nil
}
