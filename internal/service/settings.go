package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

// settingDescriptor is one entry of the closed setting enumeration: the
// declared type and the valid numeric range. Validation is a table lookup,
// not a chain of per-key conditionals.
type settingDescriptor struct {
	Type     string
	Min, Max float64
}

// settingDescriptors enumerates every updatable key. Keys outside this
// table are rejected.
var settingDescriptors = map[string]settingDescriptor{
	"DEFAULT_TARGET_TEMP": {models.SettingFloat, 5, 45},
	"TEMP_HYSTERESIS":     {models.SettingFloat, 0.5, 10},
	"TEMP_THRESHOLD":      {models.SettingFloat, 1, 30},
	"MOTOR_RUNTIME_OPEN":  {models.SettingInt, 60, 300},
	"MOTOR_RUNTIME_CLOSE": {models.SettingInt, 60, 300},
	"INTERVAL_FAST":       {models.SettingInt, 1, 30},
	"INTERVAL_NORMAL":     {models.SettingInt, 5, 120},
	"INTERVAL_SLOW":       {models.SettingInt, 10, 600},
	"LOCATION_LAT":        {models.SettingFloat, -90, 90},
	"LOCATION_LON":        {models.SettingFloat, -180, 180},
	"MAX_RETRIES":         {models.SettingInt, 1, 10},
	"RETRY_DELAY":         {models.SettingInt, 5, 120},
}

type SettingsService struct {
	settingsRepo repository.SettingsRepo
	logRepo      repository.LogRepo
}

func NewSettingsService(settingsRepo repository.SettingsRepo, logRepo repository.LogRepo) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logRepo: logRepo}
}

var _ Settings = (*SettingsService)(nil)

// All returns the settings grouped by category with values coerced to
// their declared type.
func (s *SettingsService) All(ctx context.Context) (map[string]map[string]models.SettingView, error) {
	rows, err := s.settingsRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	grouped := map[string]map[string]models.SettingView{}
	for _, row := range rows {
		if _, ok := grouped[row.Category]; !ok {
			grouped[row.Category] = map[string]models.SettingView{}
		}
		grouped[row.Category][row.Key] = models.SettingView{
			Value:       coerceSetting(row.Value, row.Type),
			Type:        row.Type,
			Description: row.Description,
		}
	}
	return grouped, nil
}

// UpdateBatch validates every pair against the descriptor table and only
// then writes, in one transaction. One unknown key or out-of-range value
// rejects the entire batch.
func (s *SettingsService) UpdateBatch(ctx context.Context, values map[string]any) ([]string, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings given", ErrValidation)
	}

	stringized := make(map[string]string, len(values))
	for key, value := range values {
		desc, ok := settingDescriptors[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown setting: %s", ErrValidation, key)
		}
		num, str, err := settingToNumber(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid value for setting: %s", ErrValidation, key)
		}
		if num < desc.Min || num > desc.Max {
			return nil, fmt.Errorf("%w: invalid value for setting: %s", ErrValidation, key)
		}
		stringized[key] = str
	}

	updated, err := s.settingsRepo.UpdateBatch(ctx, stringized)
	if err != nil {
		return nil, err
	}

	if len(updated) > 0 {
		_ = s.logRepo.Append(ctx, models.LogEntry{
			Level:   models.LogInfo,
			Message: "Settings updated: " + strings.Join(updated, ", "),
		})
	}
	return updated, nil
}

// settingToNumber accepts JSON numbers and numeric strings; everything is
// stored as a string and range-checked as float64.
func settingToNumber(value any) (float64, string, error) {
	switch v := value.(type) {
	case float64:
		return v, strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return float64(v), strconv.Itoa(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, "", err
		}
		return f, strings.TrimSpace(v), nil
	default:
		return 0, "", fmt.Errorf("unsupported value type %T", value)
	}
}

// coerceSetting converts the stored string to the declared type for reads.
func coerceSetting(value, typ string) any {
	switch typ {
	case models.SettingInt:
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case models.SettingFloat:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
