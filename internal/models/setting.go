package models

// Setting value types.
const (
	SettingInt   = "int"
	SettingFloat = "float"
)

// Setting is one operational parameter row. Values are stored as strings
// and coerced to Type on read.
type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"` // int | float | string
	Description string `json:"description"`
	Category    string `json:"category"`
}

// SettingView is the typed per-key entry of the grouped settings response.
type SettingView struct {
	Value       any    `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}
