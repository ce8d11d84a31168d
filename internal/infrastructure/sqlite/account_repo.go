package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/account-api/internal/domain"
)

const accountColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db.sqlDB}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser,
		toMillis(now), toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return r.FindByID(ctx, a.ID)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET    email = ?, name = ?, password_hash = ?,
		       is_active = ?, is_staff = ?, is_superuser = ?, updated_at = ?
		WHERE  id = ?`,
		a.Email, a.Name, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser,
		toMillis(time.Now()), a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, a.ID)
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		a                    domain.Account
		createdAt, updatedAt int64
	)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash,
		&a.IsActive, &a.IsStaff, &a.IsSuperuser, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}
