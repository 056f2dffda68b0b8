package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

func (r *SQLiteRepo) GetActiveBlock(ctx context.Context, companyID, seekerID string) (*models.BlockEntry, error) {
	q := `SELECT id, company_id, seeker_id, reason, blocked_by, blocked_at, is_active FROM company_blocks
WHERE company_id = ? AND seeker_id = ? AND is_active = 1 ORDER BY blocked_at DESC LIMIT 1`
	row := r.conn.QueryRow(ctx, q, companyID, seekerID)
	b, err := scanBlock(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get active block: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepo) CreateBlock(ctx context.Context, b *models.BlockEntry) (int64, error) {
	if b.BlockedAt == 0 {
		b.BlockedAt = now()
	}
	q := `INSERT INTO company_blocks (company_id, seeker_id, reason, blocked_by, blocked_at, is_active) VALUES (?,?,?,?,?,?)`
	res, err := r.conn.Exec(ctx, q, b.CompanyID, b.SeekerID, b.Reason, b.BlockedBy, b.BlockedAt, boolInt(b.IsActive))
	if err != nil {
		return 0, fmt.Errorf("create block: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) DeactivateBlock(ctx context.Context, companyID, seekerID string) error {
	_, err := r.conn.Exec(ctx, `UPDATE company_blocks SET is_active = 0 WHERE company_id = ? AND seeker_id = ?`, companyID, seekerID)
	if err != nil {
		return fmt.Errorf("deactivate block: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListBlocksByCompany(ctx context.Context, companyID string) ([]models.BlockEntry, error) {
	q := `SELECT id, company_id, seeker_id, reason, blocked_by, blocked_at, is_active FROM company_blocks WHERE company_id = ? ORDER BY blocked_at DESC`
	rows, err := r.conn.QueryRows(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var out []models.BlockEntry
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBlock(row rowScanner) (*models.BlockEntry, error) {
	var (
		b      models.BlockEntry
		active int
	)
	if err := row.Scan(&b.ID, &b.CompanyID, &b.SeekerID, &b.Reason, &b.BlockedBy, &b.BlockedAt, &active); err != nil {
		return nil, err
	}
	b.IsActive = active != 0
	return &b, nil
}
