package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

const applicationColumns = `id, job_id, seeker_id, company_id, job_type, status, source,
hire_status, hire_response, hire_requested_at, hire_responded_at,
interview_id, interview_status, interview_date, interview_start_time, interview_end_time, interview_duration, interview_response,
decline_reason, declined_at, reporting_enabled, report_history, chat_id, chat_initiated,
applied_at, status_changed_at, updated`

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	q := `INSERT INTO applications (` + applicationColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.conn.Exec(ctx, q,
		a.ID, a.JobID, a.SeekerID, a.CompanyID, string(a.JobType), string(a.Status), string(a.Source),
		string(a.HireStatus), string(a.HireResponse), a.HireRequestedAt, a.HireRespondedAt,
		a.InterviewID, string(a.InterviewStatus), a.InterviewDate, a.InterviewStartTime, a.InterviewEndTime, a.InterviewDuration, a.InterviewResponse,
		a.DeclineReason, a.DeclinedAt, boolInt(a.ReportingEnabled), marshalJSON(a.ReportHistory, "[]"), a.ChatID, boolInt(a.ChatInitiated),
		a.AppliedAt, a.StatusChangedAt, a.Updated,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.NewError(common.CodeNotFound, "application not found")
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// UpdateApplication writes all mutable fields conditioned on the row's status
// still being fromStatus. Zero rows affected with an existing row means a
// concurrent transition won.
func (r *SQLiteRepo) UpdateApplication(ctx context.Context, a *models.Application, fromStatus models.ApplicationStatus) error {
	q := `UPDATE applications SET
status = ?, source = ?, hire_status = ?, hire_response = ?, hire_requested_at = ?, hire_responded_at = ?,
interview_id = ?, interview_status = ?, interview_date = ?, interview_start_time = ?, interview_end_time = ?, interview_duration = ?, interview_response = ?,
decline_reason = ?, declined_at = ?, reporting_enabled = ?,
status_changed_at = ?, updated = ?
WHERE id = ? AND status = ?`
	res, err := r.conn.Exec(ctx, q,
		string(a.Status), string(a.Source), string(a.HireStatus), string(a.HireResponse), a.HireRequestedAt, a.HireRespondedAt,
		a.InterviewID, string(a.InterviewStatus), a.InterviewDate, a.InterviewStartTime, a.InterviewEndTime, a.InterviewDuration, a.InterviewResponse,
		a.DeclineReason, a.DeclinedAt, boolInt(a.ReportingEnabled),
		a.StatusChangedAt, a.Updated,
		a.ID, string(fromStatus),
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application rows: %w", err)
	}
	if n == 0 {
		var count int
		if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM applications WHERE id = ?`, a.ID).Scan(&count); err != nil {
			return fmt.Errorf("update application recheck: %w", err)
		}
		if count == 0 {
			return common.NewError(common.CodeNotFound, "application not found")
		}
		return common.NewError(common.CodeInvalidTransition, "application status changed concurrently")
	}
	return nil
}

func (r *SQLiteRepo) SetChatOnce(ctx context.Context, id, chatID string, ts int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE applications SET chat_id = ?, chat_initiated = 1, updated = ? WHERE id = ? AND chat_initiated = 0`, chatID, ts, id)
	if err != nil {
		return false, fmt.Errorf("set chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set chat rows: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepo) AppendAttendance(ctx context.Context, id string, rec models.AttendanceRecord) error {
	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT report_history FROM applications WHERE id = ?`, id).Scan(&raw)
		if err == sql.ErrNoRows {
			return common.NewError(common.CodeNotFound, "application not found")
		}
		if err != nil {
			return fmt.Errorf("read report history: %w", err)
		}
		var history []models.AttendanceRecord
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			return fmt.Errorf("decode report history: %w", err)
		}
		history = append(history, rec)
		if _, err := tx.ExecContext(ctx, `UPDATE applications SET report_history = ?, updated = ? WHERE id = ?`, marshalJSON(history, "[]"), now(), id); err != nil {
			return fmt.Errorf("write report history: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepo) ListApplicationsBySeeker(ctx context.Context, seekerID string, limit, offset int) ([]models.Application, error) {
	return r.listApplications(ctx, `seeker_id`, seekerID, limit, offset)
}

func (r *SQLiteRepo) ListApplicationsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Application, error) {
	return r.listApplications(ctx, `company_id`, companyID, limit, offset)
}

func (r *SQLiteRepo) listApplications(ctx context.Context, column, value string, limit, offset int) ([]models.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + column + ` = ? ORDER BY applied_at DESC LIMIT ? OFFSET ?`
	rows, err := r.conn.QueryRows(ctx, q, value, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		a              models.Application
		hireReq        sql.NullInt64
		hireResp       sql.NullInt64
		declinedAt     sql.NullInt64
		reporting      int
		chatInit       int
		reportsRaw     string
		jobType        string
		status, source string
		hireStatus     string
		hireResponse   string
		ivStatus       string
	)
	err := row.Scan(
		&a.ID, &a.JobID, &a.SeekerID, &a.CompanyID, &jobType, &status, &source,
		&hireStatus, &hireResponse, &hireReq, &hireResp,
		&a.InterviewID, &ivStatus, &a.InterviewDate, &a.InterviewStartTime, &a.InterviewEndTime, &a.InterviewDuration, &a.InterviewResponse,
		&a.DeclineReason, &declinedAt, &reporting, &reportsRaw, &a.ChatID, &chatInit,
		&a.AppliedAt, &a.StatusChangedAt, &a.Updated,
	)
	if err != nil {
		return nil, err
	}
	a.JobType = models.JobType(jobType)
	a.Status = models.ApplicationStatus(status)
	a.Source = models.ApplicationSource(source)
	a.HireStatus = models.HireStatus(hireStatus)
	a.HireResponse = models.HireStatus(hireResponse)
	a.InterviewStatus = models.InterviewStatus(ivStatus)
	a.ReportingEnabled = reporting != 0
	a.ChatInitiated = chatInit != 0
	if hireReq.Valid {
		a.HireRequestedAt = &hireReq.Int64
	}
	if hireResp.Valid {
		a.HireRespondedAt = &hireResp.Int64
	}
	if declinedAt.Valid {
		a.DeclinedAt = &declinedAt.Int64
	}
	if reportsRaw != "" && reportsRaw != "[]" {
		if err := json.Unmarshal([]byte(reportsRaw), &a.ReportHistory); err != nil {
			return nil, fmt.Errorf("decode report history: %w", err)
		}
	}
	return &a, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
