package models

// VentilationConfig is the singleton ventilation configuration. The morning
// and evening windows are derived from sunrise/sunset on the device using
// Latitude/Longitude/OffsetMinutes; only the enable flags and parameters
// live here. LastRun is a date string (YYYY-MM-DD) or empty.
type VentilationConfig struct {
	Enabled         bool    `json:"enabled"` // morning window
	MiddayEnabled   bool    `json:"midday_enabled"`
	EveningEnabled  bool    `json:"evening_enabled"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	OffsetMinutes   int     `json:"offset_minutes"`
	DurationMinutes int     `json:"duration_minutes"`
	LastRun         string  `json:"last_run,omitempty"`
}

// VentilationView is the GET /api/ventilation payload: config plus the
// operator-defined custom phases ordered by start time.
type VentilationView struct {
	VentilationConfig
	CustomPhases []CustomPhase `json:"custom_phases"`
}

// VentilationPatch carries a partial config update; nil fields keep the
// current value.
type VentilationPatch struct {
	Enabled         *bool `json:"enabled"`
	MiddayEnabled   *bool `json:"midday_enabled"`
	EveningEnabled  *bool `json:"evening_enabled"`
	OffsetMinutes   *int  `json:"offset_minutes"`
	DurationMinutes *int  `json:"duration_minutes"`
}

// CustomPhase is an operator-defined daily airing window. Times are
// time-of-day strings ("HH:MM" or "HH:MM:SS"); no date dimension.
type CustomPhase struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}
