package sqlite

import (
	"context"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

const historyColumns = `id, application_id, job_id, seeker_id, company_id,
action, from_status, to_status, action_by, action_by_id, reason, notes, metadata, action_at`

func (r *SQLiteRepo) AppendHistory(ctx context.Context, h *models.History) error {
	q := `INSERT INTO application_history (` + historyColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.conn.Exec(ctx, q,
		h.ID, h.ApplicationID, h.JobID, h.SeekerID, h.CompanyID,
		h.Action, string(h.FromStatus), string(h.ToStatus), string(h.ActionBy), h.ActionByID, h.Reason, h.Notes, h.Metadata, h.ActionAt,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListHistoryByApplication(ctx context.Context, applicationID string, limit int) ([]models.History, error) {
	return r.listHistory(ctx, `application_id`, applicationID, limit)
}

func (r *SQLiteRepo) ListHistoryBySeeker(ctx context.Context, seekerID string, limit int) ([]models.History, error) {
	return r.listHistory(ctx, `seeker_id`, seekerID, limit)
}

func (r *SQLiteRepo) ListHistoryByCompany(ctx context.Context, companyID string, limit int) ([]models.History, error) {
	return r.listHistory(ctx, `company_id`, companyID, limit)
}

func (r *SQLiteRepo) listHistory(ctx context.Context, column, value string, limit int) ([]models.History, error) {
	if limit <= 0 {
		limit = 50
	}
	// action_at descending for display; rowid breaks ties by insertion order
	q := `SELECT ` + historyColumns + ` FROM application_history WHERE ` + column + ` = ? ORDER BY action_at DESC, rowid DESC LIMIT ?`
	rows, err := r.conn.QueryRows(ctx, q, value, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []models.History
	for rows.Next() {
		var (
			h        models.History
			from, to string
			actionBy string
		)
		if err := rows.Scan(
			&h.ID, &h.ApplicationID, &h.JobID, &h.SeekerID, &h.CompanyID,
			&h.Action, &from, &to, &actionBy, &h.ActionByID, &h.Reason, &h.Notes, &h.Metadata, &h.ActionAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.FromStatus = models.ApplicationStatus(from)
		h.ToStatus = models.ApplicationStatus(to)
		h.ActionBy = models.Actor(actionBy)
		out = append(out, h)
	}
	return out, rows.Err()
}
