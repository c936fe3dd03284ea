package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

// MaxCustomPhases bounds the number of operator-defined airing windows.
const MaxCustomPhases = 5

// Placeholder fixed windows used for overlap checking. The true morning and
// evening times depend on sunrise/sunset and are computed on the device;
// these constants only have to keep custom phases out of the way.
var fixedWindows = []struct {
	name       string
	start, end string
	enabled    func(cfg models.VentilationConfig) bool
}{
	{"Morning (sunrise)", "05:00:00", "05:20:00", func(c models.VentilationConfig) bool { return c.Enabled }},
	{"Midday", "12:00:00", "12:20:00", func(c models.VentilationConfig) bool { return c.MiddayEnabled }},
	{"Evening (sunset)", "18:00:00", "18:20:00", func(c models.VentilationConfig) bool { return c.EveningEnabled }},
}

var timeOfDayRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

type VentilationService struct {
	ventRepo repository.VentilationRepo
	logRepo  repository.LogRepo
}

func NewVentilationService(ventRepo repository.VentilationRepo, logRepo repository.LogRepo) *VentilationService {
	return &VentilationService{ventRepo: ventRepo, logRepo: logRepo}
}

var _ Ventilation = (*VentilationService)(nil)

// View returns the config plus the custom phases ordered by start time.
func (s *VentilationService) View(ctx context.Context) (models.VentilationView, error) {
	cfg, err := s.ventRepo.Config(ctx)
	if err != nil {
		return models.VentilationView{}, err
	}
	phases, err := s.ventRepo.Phases(ctx)
	if err != nil {
		return models.VentilationView{}, err
	}
	return models.VentilationView{VentilationConfig: cfg, CustomPhases: phases}, nil
}

// UpdateConfig merges the patch over the current config; absent fields keep
// their value.
func (s *VentilationService) UpdateConfig(ctx context.Context, patch models.VentilationPatch) error {
	cfg, err := s.ventRepo.Config(ctx)
	if err != nil {
		return err
	}

	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.MiddayEnabled != nil {
		cfg.MiddayEnabled = *patch.MiddayEnabled
	}
	if patch.EveningEnabled != nil {
		cfg.EveningEnabled = *patch.EveningEnabled
	}
	if patch.OffsetMinutes != nil {
		cfg.OffsetMinutes = *patch.OffsetMinutes
	}
	if patch.DurationMinutes != nil {
		cfg.DurationMinutes = *patch.DurationMinutes
	}

	if err := s.ventRepo.UpdateConfig(ctx, cfg); err != nil {
		return err
	}
	s.audit(ctx, "Ventilation config updated")
	return nil
}

// MarkRun stamps today's date as the last executed ventilation.
func (s *VentilationService) MarkRun(ctx context.Context) error {
	day := time.Now().UTC().Format("2006-01-02")
	if err := s.ventRepo.MarkRun(ctx, day); err != nil {
		return err
	}
	s.audit(ctx, "Ventilation marked as run today")
	return nil
}

// Phases lists all custom phases.
func (s *VentilationService) Phases(ctx context.Context) ([]models.CustomPhase, error) {
	return s.ventRepo.Phases(ctx)
}

// SavePhase creates (ID==0) or updates (ID>0) a custom phase. The overlap
// guard runs inside the repository's save transaction; a conflicting window
// rejects the write entirely.
func (s *VentilationService) SavePhase(ctx context.Context, p models.CustomPhase) (int64, error) {
	if p.StartTime == "" || p.EndTime == "" {
		return 0, fmt.Errorf("%w: start_time and end_time required", ErrValidation)
	}
	if !timeOfDayRe.MatchString(p.StartTime) || !timeOfDayRe.MatchString(p.EndTime) {
		return 0, fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	}
	start, err := parseTimeOfDay(p.StartTime)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := parseTimeOfDay(p.EndTime)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if start >= end {
		return 0, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}

	if p.ID == 0 {
		existing, err := s.ventRepo.Phases(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) >= MaxCustomPhases {
			return 0, fmt.Errorf("%w: at most %d custom phases allowed", ErrValidation, MaxCustomPhases)
		}
	}

	guard := func(cfg models.VentilationConfig, phases []models.CustomPhase) error {
		if conflict := findConflict(start, end, p.ID, cfg, phases); conflict != "" {
			return &OverlapError{Window: conflict}
		}
		return nil
	}

	id, err := s.ventRepo.SavePhase(ctx, p, guard)
	if err != nil {
		return 0, err
	}
	s.audit(ctx, fmt.Sprintf("Custom ventilation phase saved: %s - %s", p.StartTime, p.EndTime))
	return id, nil
}

// DeletePhase removes a custom phase.
func (s *VentilationService) DeletePhase(ctx context.Context, id int64) error {
	if err := s.ventRepo.DeletePhase(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, fmt.Sprintf("Custom ventilation phase deleted: ID %d", id))
	return nil
}

func (s *VentilationService) audit(ctx context.Context, msg string) {
	_ = s.logRepo.Append(ctx, models.LogEntry{Level: models.LogInfo, Message: msg})
}

// findConflict returns the display name of the first enabled window that
// overlaps [start,end), or "" when the range is free. excludeID skips the
// phase being edited so it doesn't collide with itself.
func findConflict(start, end int, excludeID int64, cfg models.VentilationConfig, phases []models.CustomPhase) string {
	for _, w := range fixedWindows {
		if !w.enabled(cfg) {
			continue
		}
		ws, _ := parseTimeOfDay(w.start)
		we, _ := parseTimeOfDay(w.end)
		if rangesOverlap(start, end, ws, we) {
			return w.name
		}
	}

	for _, ph := range phases {
		if !ph.Enabled || (excludeID != 0 && ph.ID == excludeID) {
			continue
		}
		ps, err := parseTimeOfDay(ph.StartTime)
		if err != nil {
			continue
		}
		pe, err := parseTimeOfDay(ph.EndTime)
		if err != nil {
			continue
		}
		if rangesOverlap(start, end, ps, pe) {
			if ph.Name != "" {
				return ph.Name
			}
			return "Phase #" + strconv.FormatInt(ph.ID, 10)
		}
	}

	return ""
}

// rangesOverlap is the half-open interval test: touching endpoints do not
// count, so back-to-back windows are legal.
func rangesOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && e1 > s2
}

// parseTimeOfDay converts "HH:MM" or "HH:MM:SS" to seconds since midnight.
func parseTimeOfDay(s string) (int, error) {
	if !timeOfDayRe.MatchString(s) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hh, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[3:5])
	ss := 0
	if len(s) == 8 {
		ss, _ = strconv.Atoi(s[6:8])
	}
	if hh > 23 || mm > 59 || ss > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return hh*3600 + mm*60 + ss, nil
}
