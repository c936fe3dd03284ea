package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"greenhouse_control/internal/models"
)

// ErrTerminalState is returned when a completed/failed command is asked to
// move to a different terminal status.
var ErrTerminalState = errors.New("command already in a terminal state")

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite { return &CommandSQLite{db: db} }

var _ CommandRepo = (*CommandSQLite)(nil)

const (
	insertCommandSQL = `INSERT INTO commands (command, parameters, status, created_at) VALUES (?, ?, ?, ?)`

	// The claim is a single statement: any row observed as pending is flipped
	// to executing in the same operation, so a second concurrent poll can
	// never see it as pending again.
	claimPendingSQL = `
		UPDATE commands SET status = ?, claimed_at = ?
		WHERE status = ?
		RETURNING id, command, parameters, status, created_at, claimed_at, executed_at, error_message
	`

	finishCommandSQL = `
		UPDATE commands SET status = ?, error_message = ?, executed_at = ?
		WHERE id = ? AND (status IN (?, ?) OR status = ?)
	`

	commandStatusSQL = `SELECT status FROM commands WHERE id = ?`

	reclaimStaleSQL = `
		UPDATE commands SET status = ?, claimed_at = NULL
		WHERE status = ? AND claimed_at < ?
	`
)

// Enqueue appends a new pending command. Parameters are stored as JSON text.
func (r *CommandSQLite) Enqueue(ctx context.Context, command string, parameters any) (int64, error) {
	var paramsPtr *string
	if parameters != nil {
		b, err := json.Marshal(parameters)
		if err != nil {
			return 0, fmt.Errorf("marshal parameters for %q: %w", command, err)
		}
		s := string(b)
		paramsPtr = &s
	}

	res, err := r.db.ExecContext(ctx, insertCommandSQL,
		command, paramsPtr, models.CommandPending, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert command %q: %w", command, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for command %q: %w", command, err)
	}
	return id, nil
}

// ClaimPending flips every pending command to executing and returns the
// claimed rows oldest-first. RETURNING gives no ordering guarantee, so the
// FIFO sort happens here.
func (r *CommandSQLite) ClaimPending(ctx context.Context, now time.Time) ([]models.Command, error) {
	rows, err := r.db.QueryContext(ctx, claimPendingSQL,
		models.CommandExecuting, now.UTC(), models.CommandPending)
	if err != nil {
		return nil, fmt.Errorf("claim pending commands: %w", err)
	}
	defer rows.Close()

	out := make([]models.Command, 0, 8)
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Finish moves a command to completed/failed. Transitions are allowed from
// pending/executing; re-stamping the same terminal status is permitted, a
// flip between terminal states is not.
func (r *CommandSQLite) Finish(ctx context.Context, id int64, status, errMsg string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, finishCommandSQL,
		status, errMsg, now.UTC(),
		id, models.CommandPending, models.CommandExecuting, status)
	if err != nil {
		return fmt.Errorf("finish command %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for command %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the id is unknown or the row is stuck in the
	// other terminal state.
	var current string
	err = r.db.QueryRowContext(ctx, commandStatusSQL, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load status of command %d: %w", id, err)
	}
	return fmt.Errorf("command %d is %s: %w", id, current, ErrTerminalState)
}

// ReclaimStale demotes executing commands claimed before the deadline back
// to pending so a dead poller cannot park them forever.
func (r *CommandSQLite) ReclaimStale(ctx context.Context, deadline time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, reclaimStaleSQL,
		models.CommandPending, models.CommandExecuting, deadline.UTC())
	if err != nil {
		return 0, fmt.Errorf("reclaim stale commands: %w", err)
	}
	return res.RowsAffected()
}

func scanCommand(rows *sql.Rows) (models.Command, error) {
	var (
		cmd        models.Command
		paramsStr  sql.NullString
		claimedAt  sql.NullTime
		executedAt sql.NullTime
		errMsg     sql.NullString
	)
	if err := rows.Scan(&cmd.ID, &cmd.Command, &paramsStr, &cmd.Status,
		&cmd.CreatedAt, &claimedAt, &executedAt, &errMsg); err != nil {
		return models.Command{}, fmt.Errorf("scan command row: %w", err)
	}
	cmd.CreatedAt = cmd.CreatedAt.UTC()
	if claimedAt.Valid {
		t := claimedAt.Time.UTC()
		cmd.ClaimedAt = &t
	}
	if executedAt.Valid {
		t := executedAt.Time.UTC()
		cmd.ExecutedAt = &t
	}
	if errMsg.Valid {
		cmd.ErrorMessage = errMsg.String
	}
	if paramsStr.Valid && paramsStr.String != "" {
		var v any
		if err := json.Unmarshal([]byte(paramsStr.String), &v); err == nil {
			cmd.Parameters = v
		} else {
			cmd.Parameters = paramsStr.String // keep raw if malformed
		}
	}
	return cmd, nil
}
