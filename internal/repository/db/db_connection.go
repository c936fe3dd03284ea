package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables and seed rows exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite is not great with many writers; a single connection also makes
	// every statement sequence naturally serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaCommands = `
CREATE TABLE IF NOT EXISTS commands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    command TEXT NOT NULL,
    parameters TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL,
    claimed_at TIMESTAMP,
    executed_at TIMESTAMP,
    error_message TEXT
);
`

const schemaStatus = `
CREATE TABLE IF NOT EXISTS status (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    temp_indoor REAL,
    temp_outdoor REAL,
    mode TEXT NOT NULL,
    last_action TEXT,
    is_busy BOOLEAN NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaGateStatus = `
CREATE TABLE IF NOT EXISTS gate_status (
    motor_name TEXT PRIMARY KEY,
    position INTEGER NOT NULL DEFAULT 0,
    last_command TEXT NOT NULL DEFAULT '',
    enabled INTEGER NOT NULL DEFAULT 1,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaGateAutoMode = `
CREATE TABLE IF NOT EXISTS gate_auto_mode (
    motor_name TEXT PRIMARY KEY,
    auto_enabled INTEGER NOT NULL DEFAULT 1,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaVentilationConfig = `
CREATE TABLE IF NOT EXISTS ventilation_config (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    enabled INTEGER NOT NULL,
    midday_enabled INTEGER NOT NULL,
    evening_enabled INTEGER NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    offset_minutes INTEGER NOT NULL,
    duration_minutes INTEGER NOT NULL,
    last_run TEXT
);
`

const schemaCustomPhases = `
CREATE TABLE IF NOT EXISTS custom_ventilation_phases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaSystemSettings = `
CREATE TABLE IF NOT EXISTS system_settings (
    setting_key TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL,
    setting_type TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaGpioSwitches = `
CREATE TABLE IF NOT EXISTS gpio_switches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    gpio_pin INTEGER NOT NULL,
    state INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaLogs = `
CREATE TABLE IF NOT EXISTS logs (
    id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// Settings, gates and switches are update-only through the API, so the
// known rows have to exist up front. INSERT OR IGNORE keeps operator
// edits across restarts.
var seedStatements = []string{
	`INSERT OR IGNORE INTO ventilation_config
	    (id, enabled, midday_enabled, evening_enabled, latitude, longitude, offset_minutes, duration_minutes, last_run)
	 VALUES (1, 0, 1, 1, 47.86559995, 7.61452259, 30, 20, NULL);`,

	`INSERT OR IGNORE INTO gate_status (motor_name, position, last_command, enabled, updated_at) VALUES
	    ('GH1_VORNE', 0, '', 1, CURRENT_TIMESTAMP),
	    ('GH1_HINTEN', 0, '', 1, CURRENT_TIMESTAMP),
	    ('GH2_VORNE', 0, '', 1, CURRENT_TIMESTAMP),
	    ('GH2_HINTEN', 0, '', 1, CURRENT_TIMESTAMP),
	    ('GH3_VORNE', 0, '', 1, CURRENT_TIMESTAMP),
	    ('GH3_HINTEN', 0, '', 1, CURRENT_TIMESTAMP);`,

	`INSERT OR IGNORE INTO gpio_switches (name, gpio_pin, state, updated_at) VALUES
	    ('Bewässerung 1', 20, 0, CURRENT_TIMESTAMP),
	    ('Bewässerung 2', 16, 0, CURRENT_TIMESTAMP),
	    ('Bewässerung 3', 12, 0, CURRENT_TIMESTAMP),
	    ('Zusatz', 25, 0, CURRENT_TIMESTAMP);`,

	`INSERT OR IGNORE INTO system_settings (setting_key, setting_value, setting_type, description, category, updated_at) VALUES
	    ('DEFAULT_TARGET_TEMP', '25', 'float', 'Target temperature for automatic mode (°C)', 'temperature', CURRENT_TIMESTAMP),
	    ('TEMP_HYSTERESIS', '2', 'float', 'Hysteresis band around target temperature (°C)', 'temperature', CURRENT_TIMESTAMP),
	    ('TEMP_THRESHOLD', '5', 'float', 'Indoor/outdoor difference required for ventilation (°C)', 'temperature', CURRENT_TIMESTAMP),
	    ('MOTOR_RUNTIME_OPEN', '135', 'int', 'Seconds for a full open run (0% -> 100%)', 'motor', CURRENT_TIMESTAMP),
	    ('MOTOR_RUNTIME_CLOSE', '128', 'int', 'Seconds for a full close run (100% -> 0%)', 'motor', CURRENT_TIMESTAMP),
	    ('INTERVAL_FAST', '5', 'int', 'Poll interval while a command is executing (s)', 'intervals', CURRENT_TIMESTAMP),
	    ('INTERVAL_NORMAL', '30', 'int', 'Poll interval in normal operation (s)', 'intervals', CURRENT_TIMESTAMP),
	    ('INTERVAL_SLOW', '120', 'int', 'Poll interval at night (s)', 'intervals', CURRENT_TIMESTAMP),
	    ('LOCATION_LAT', '47.86559995', 'float', 'Latitude for sunrise/sunset calculation', 'location', CURRENT_TIMESTAMP),
	    ('LOCATION_LON', '7.61452259', 'float', 'Longitude for sunrise/sunset calculation', 'location', CURRENT_TIMESTAMP),
	    ('MAX_RETRIES', '3', 'int', 'Retry attempts for failed device requests', 'network', CURRENT_TIMESTAMP),
	    ('RETRY_DELAY', '10', 'int', 'Delay between retries (s)', 'network', CURRENT_TIMESTAMP);`,
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	stmts := []string{
		schemaCommands,
		schemaStatus,
		schemaGateStatus,
		schemaGateAutoMode,
		schemaVentilationConfig,
		schemaCustomPhases,
		schemaSystemSettings,
		schemaGpioSwitches,
		schemaLogs,
	}
	stmts = append(stmts, seedStatements...)

	for i, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
