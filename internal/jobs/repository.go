package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
)

type Repository struct {
	db *db.DB
}

func NewRepository(d *db.DB) *Repository { return &Repository{db: d} }

// Enqueue inserts a job into the background_jobs table and returns the new ID
func (r *Repository) Enqueue(ctx context.Context, j *Job) (int64, error) {
	payload := string(j.Payload)
	if j.MaxAttempts == 0 {
		j.MaxAttempts = 5
	}
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = time.Now()
	}
	now := time.Now().UTC().Unix()
	q := `INSERT INTO background_jobs(type, payload, status, attempts, max_attempts, priority, scheduled_at, created, updated) VALUES(?,?,?,?,?,?,?,?,?)`
	res, err := r.db.Exec(ctx, q, j.Type, payload, "queued", j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt.UTC().Unix(), now, now)
	if err != nil {
		return 0, fmt.Errorf("enqueue failed: %w", err)
	}
	return res.LastInsertId()
}

// FetchNext claims the next available job respecting priority and schedule.
// The claim is a conditional update so two workers cannot pick up the same
// job.
func (r *Repository) FetchNext(ctx context.Context) (*Job, error) {
	var j *Job
	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		q := `SELECT id, type, payload, status, attempts, max_attempts, priority, scheduled_at, next_try_at, last_error, created, updated FROM background_jobs WHERE (status = 'queued' OR status = 'retry') AND (next_try_at IS NULL OR next_try_at <= ?) AND scheduled_at <= ? ORDER BY priority ASC, scheduled_at ASC LIMIT 1`
		now := time.Now().UTC().Unix()
		row := tx.QueryRowContext(ctx, q, now, now)
		var (
			id          int64
			typ         string
			payload     sql.NullString
			status      string
			attempts    int
			maxAttempts int
			priority    int
			scheduledAt int64
			nextTry     sql.NullInt64
			lastError   sql.NullString
			created     int64
			updated     int64
		)
		if err := row.Scan(&id, &typ, &payload, &status, &attempts, &maxAttempts, &priority, &scheduledAt, &nextTry, &lastError, &created, &updated); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return fmt.Errorf("fetch next job: %w", err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE background_jobs SET status = 'running', updated = ? WHERE id = ? AND status = ?`, now, id, status)
		if err != nil {
			return fmt.Errorf("claim job: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			// lost the claim race; caller will retry
			return err
		}
		j = &Job{
			ID:          id,
			Type:        typ,
			Status:      "running",
			Attempts:    attempts,
			MaxAttempts: maxAttempts,
			Priority:    priority,
			ScheduledAt: time.Unix(scheduledAt, 0),
			Created:     time.Unix(created, 0),
			Updated:     time.Unix(updated, 0),
		}
		if payload.Valid {
			j.Payload = json.RawMessage(payload.String)
		}
		if nextTry.Valid {
			t := time.Unix(nextTry.Int64, 0)
			j.NextTryAt = &t
		}
		if lastError.Valid {
			j.LastError = lastError.String
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateJob updates attempts, status, next_try_at, last_error
func (r *Repository) UpdateJob(ctx context.Context, j *Job) error {
	var nextTry any
	if j.NextTryAt != nil {
		nextTry = j.NextTryAt.Unix()
	}
	q := `UPDATE background_jobs SET status = ?, attempts = ?, next_try_at = ?, last_error = ?, updated = ? WHERE id = ?`
	if _, err := r.db.Exec(ctx, q, j.Status, j.Attempts, nextTry, j.LastError, time.Now().UTC().Unix(), j.ID); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// MoveToDeadLetter copies the job into the dead-letter table and marks the
// original failed.
func (r *Repository) MoveToDeadLetter(ctx context.Context, j *Job) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO background_jobs_dead(job_id, type, payload, attempts, last_error, moved_at) VALUES(?,?,?,?,?,?)`,
			j.ID, j.Type, string(j.Payload), j.Attempts, j.LastError, time.Now().UTC().Unix()); err != nil {
			return fmt.Errorf("insert dead letter: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE background_jobs SET status = 'failed', last_error = ?, updated = ? WHERE id = ?`,
			j.LastError, time.Now().UTC().Unix(), j.ID); err != nil {
			return fmt.Errorf("mark job failed: %w", err)
		}
		return nil
	})
}

// CountByStatus returns the number of jobs in the given status.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM background_jobs WHERE status = ?`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}
