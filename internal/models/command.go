package models

import "time"

// Command statuses. A command is claimed the moment the device polls it and
// can only end in completed or failed.
const (
	CommandPending   = "pending"
	CommandExecuting = "executing"
	CommandCompleted = "completed"
	CommandFailed    = "failed"
)

// CommandRestart is the reserved command name used to ask the device to
// restart its own service. It travels over the same queue as gate commands.
const CommandRestart = "RESTART"

// Command is one entry of the operator->device command queue.
// Rows are append-only; only status/executed_at/error_message ever change.
type Command struct {
	ID           int64      `json:"id"`
	Command      string     `json:"command"`
	Parameters   any        `json:"parameters,omitempty"`
	Status       string     `json:"status"` // pending | executing | completed | failed
	CreatedAt    time.Time  `json:"created_at"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	ExecutedAt   *time.Time `json:"executed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
