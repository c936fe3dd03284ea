package models

import "time"

// Log levels recorded in the audit log.
const (
	LogInfo    = "INFO"
	LogWarning = "WARNING"
	LogError   = "ERROR"
)

// LogEntry is a single append-only audit log row. Entries are a side
// effect of state changes, not part of any correctness contract.
type LogEntry struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
