package models

import "time"

// Operation modes reported by the device.
const (
	ModeManual = "MANUAL"
	ModeAuto   = "AUTO"
)

// DeviceStatus is the last-known-good snapshot pushed by the device.
// Exactly one row exists (fixed id=1, upsert-by-key).
type DeviceStatus struct {
	TempIndoor  *float64  `json:"temp_indoor"`
	TempOutdoor *float64  `json:"temp_outdoor"`
	Mode        string    `json:"mode"` // MANUAL | AUTO
	LastAction  string    `json:"last_action"`
	IsBusy      bool      `json:"is_busy"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusReport is the full snapshot the device pushes on every poll cycle.
type StatusReport struct {
	TempIndoor    *float64       `json:"temp_indoor"`
	TempOutdoor   *float64       `json:"temp_outdoor"`
	Mode          string         `json:"mode"`
	LastAction    string         `json:"last_action"`
	IsBusy        bool           `json:"is_busy"`
	GatePositions map[string]int `json:"gate_positions"`
}

// StatusView is what GET /api/status returns: the snapshot plus the
// per-gate position/auto/enabled maps.
type StatusView struct {
	DeviceStatus
	GatePositions map[string]int  `json:"gate_positions"`
	GateAutoMode  map[string]bool `json:"gate_auto_mode"`
	GateEnabled   map[string]bool `json:"gate_enabled"`
}
