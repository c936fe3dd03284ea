package models

import "time"

// GpioSwitch is one relay-driven switch (irrigation valves etc.) toggled
// from the dashboard and applied by the device.
type GpioSwitch struct {
	Name      string    `json:"name"`
	GpioPin   int       `json:"gpio_pin"`
	State     bool      `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}
