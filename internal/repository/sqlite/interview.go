package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

const interviewColumns = `id, application_id, job_id, seeker_id, company_id,
date, start_time, duration, end_time, time_zone,
status, confirmation_status, reschedule_count, max_reschedules, reschedule_history,
rating, feedback, result, next_steps, completed_at, created, updated`

// conflictQuery finds active interviews for the same company and date whose
// [start, end) window overlaps the candidate slot. A rescheduled interview
// occupies its new slot even before it is re-confirmed. HH:MM strings compare
// correctly as text.
const conflictQuery = `SELECT id, start_time, end_time FROM interviews
WHERE company_id = ? AND date = ? AND status IN ('scheduled', 'confirmed', 'rescheduled') AND id != ?
AND start_time < ? AND end_time > ?`

// CreateScheduled inserts the interview after re-running conflict detection
// inside the same transaction, so two concurrent schedule calls for the same
// slot cannot both commit.
func (r *SQLiteRepo) CreateScheduled(ctx context.Context, iv *models.Interview) error {
	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		if err := checkConflicts(ctx, tx, iv, ""); err != nil {
			return err
		}
		q := `INSERT INTO interviews (` + interviewColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
		if _, err := tx.ExecContext(ctx, q,
			iv.ID, iv.ApplicationID, iv.JobID, iv.SeekerID, iv.CompanyID,
			iv.Date, iv.StartTime, iv.Duration, iv.EndTime, iv.TimeZone,
			string(iv.Status), string(iv.ConfirmationStatus), iv.RescheduleCount, iv.MaxReschedules, marshalJSON(iv.RescheduleHistory, "[]"),
			iv.Rating, iv.Feedback, string(iv.Result), iv.NextSteps, iv.CompletedAt, iv.Created, iv.Updated,
		); err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}
		return nil
	})
}

// ApplyReschedule persists an already-validated reschedule, re-running conflict
// detection against the new slot (excluding the interview itself). On conflict
// nothing is written.
func (r *SQLiteRepo) ApplyReschedule(ctx context.Context, iv *models.Interview) error {
	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		if err := checkConflicts(ctx, tx, iv, iv.ID); err != nil {
			return err
		}
		q := `UPDATE interviews SET date = ?, start_time = ?, duration = ?, end_time = ?,
status = ?, confirmation_status = ?, reschedule_count = ?, reschedule_history = ?, updated = ?
WHERE id = ?`
		res, err := tx.ExecContext(ctx, q,
			iv.Date, iv.StartTime, iv.Duration, iv.EndTime,
			string(iv.Status), string(iv.ConfirmationStatus), iv.RescheduleCount, marshalJSON(iv.RescheduleHistory, "[]"), iv.Updated,
			iv.ID,
		)
		if err != nil {
			return fmt.Errorf("apply reschedule: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("apply reschedule rows: %w", err)
		}
		if n == 0 {
			return common.NewError(common.CodeNotFound, "interview not found")
		}
		return nil
	})
}

func checkConflicts(ctx context.Context, tx *sql.Tx, iv *models.Interview, excludeID string) error {
	rows, err := tx.QueryContext(ctx, conflictQuery, iv.CompanyID, iv.Date, excludeID, iv.EndTime, iv.StartTime)
	if err != nil {
		return fmt.Errorf("conflict query: %w", err)
	}
	defer rows.Close()

	var conflicts []map[string]any
	for rows.Next() {
		var id, start, end string
		if err := rows.Scan(&id, &start, &end); err != nil {
			return fmt.Errorf("scan conflict: %w", err)
		}
		conflicts = append(conflicts, map[string]any{"interview_id": id, "start_time": start, "end_time": end})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("conflict rows: %w", err)
	}
	if len(conflicts) > 0 {
		return common.NewErrorWithDetails(common.CodeSchedulingConflict,
			fmt.Sprintf("%d conflicting interview(s) on %s", len(conflicts), iv.Date),
			map[string]any{"count": len(conflicts), "conflicts": conflicts})
	}
	return nil
}

func (r *SQLiteRepo) GetInterviewByID(ctx context.Context, id string) (*models.Interview, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id)
	iv, err := scanInterview(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.NewError(common.CodeNotFound, "interview not found")
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return iv, nil
}

func (r *SQLiteRepo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	q := `UPDATE interviews SET status = ?, confirmation_status = ?,
rating = ?, feedback = ?, result = ?, next_steps = ?, completed_at = ?, updated = ?
WHERE id = ?`
	res, err := r.conn.Exec(ctx, q,
		string(iv.Status), string(iv.ConfirmationStatus),
		iv.Rating, iv.Feedback, string(iv.Result), iv.NextSteps, iv.CompletedAt, iv.Updated,
		iv.ID,
	)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update interview rows: %w", err)
	}
	if n == 0 {
		return common.NewError(common.CodeNotFound, "interview not found")
	}
	return nil
}

// ListActiveByCompanyAndDate returns the interviews that still occupy a slot
// (scheduled, confirmed or rescheduled); these are the rows slot generation
// and conflict checks care about.
func (r *SQLiteRepo) ListActiveByCompanyAndDate(ctx context.Context, companyID, date string) ([]models.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE company_id = ? AND date = ? AND status IN ('scheduled', 'confirmed', 'rescheduled') ORDER BY start_time`
	return r.queryInterviews(ctx, q, companyID, date)
}

func (r *SQLiteRepo) ListInterviewsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM interviews WHERE company_id = ? ORDER BY date DESC, start_time DESC LIMIT ? OFFSET ?`
	return r.queryInterviews(ctx, q, companyID, limit, offset)
}

func (r *SQLiteRepo) queryInterviews(ctx context.Context, q string, args ...any) ([]models.Interview, error) {
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var out []models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

func scanInterview(row rowScanner) (*models.Interview, error) {
	var (
		iv          models.Interview
		status      string
		confStatus  string
		result      string
		historyRaw  string
		completedAt sql.NullInt64
	)
	err := row.Scan(
		&iv.ID, &iv.ApplicationID, &iv.JobID, &iv.SeekerID, &iv.CompanyID,
		&iv.Date, &iv.StartTime, &iv.Duration, &iv.EndTime, &iv.TimeZone,
		&status, &confStatus, &iv.RescheduleCount, &iv.MaxReschedules, &historyRaw,
		&iv.Rating, &iv.Feedback, &result, &iv.NextSteps, &completedAt, &iv.Created, &iv.Updated,
	)
	if err != nil {
		return nil, err
	}
	iv.Status = models.InterviewStatus(status)
	iv.ConfirmationStatus = models.ConfirmationStatus(confStatus)
	iv.Result = models.InterviewResult(result)
	if completedAt.Valid {
		iv.CompletedAt = &completedAt.Int64
	}
	if historyRaw != "" && historyRaw != "[]" {
		if err := json.Unmarshal([]byte(historyRaw), &iv.RescheduleHistory); err != nil {
			return nil, fmt.Errorf("decode reschedule history: %w", err)
		}
	}
	return &iv, nil
}
