package models

import "time"

// Motors is the fixed set of gate motors (greenhouse + side). Rows missing
// from the database imply default-true auto/enabled flags for these names.
var Motors = []string{
	"GH1_VORNE", "GH1_HINTEN",
	"GH2_VORNE", "GH2_HINTEN",
	"GH3_VORNE", "GH3_HINTEN",
}

// Gate is the persisted state of one motorized ventilation gate.
// Position is a percentage in [0,100]. Enabled=false is the seasonal
// kill-switch (Wintermodus); the auto flag lives in its own table and is
// served as a motor->bool map.
type Gate struct {
	MotorName   string    `json:"motor_name"`
	Position    int       `json:"position"`
	LastCommand string    `json:"last_command"`
	Enabled     bool      `json:"enabled"`
	UpdatedAt   time.Time `json:"updated_at"`
}
