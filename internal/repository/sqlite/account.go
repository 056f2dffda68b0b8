package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.Created == 0 {
		a.Created = now()
	}
	a.Updated = a.Created
	q := `INSERT INTO accounts (id, role, name, email, password_hash, created, updated) VALUES (?,?,?,?,?,?,?)`
	if _, err := r.conn.Exec(ctx, q, a.ID, a.Role, a.Name, a.Email, a.PasswordHash, a.Created, a.Updated); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, role, name, email, password_hash, created, updated FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, role, name, email, password_hash, created, updated FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Role, &a.Name, &a.Email, &a.PasswordHash, &a.Created, &a.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, common.NewError(common.CodeNotFound, "account not found")
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}
