package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/account-api/internal/domain"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db.sqlDB}
}

func (r *TokenRepository) FindOrCreate(ctx context.Context, accountID, candidate string) (*domain.Token, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tokens (value, account_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (account_id) DO NOTHING`,
		candidate, accountID, toMillis(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, false, domain.ErrAccountNotFound
		}
		return nil, false, fmt.Errorf("insert token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	token, err := scanToken(tx.QueryRowContext(ctx,
		`SELECT value, account_id, created_at FROM tokens WHERE account_id = ?`, accountID))
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return token, n == 1, nil
}

func (r *TokenRepository) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	return scanToken(r.db.QueryRowContext(ctx,
		`SELECT value, account_id, created_at FROM tokens WHERE value = ?`, value))
}

func scanToken(row *sql.Row) (*domain.Token, error) {
	var (
		t         domain.Token
		createdAt int64
	)
	if err := row.Scan(&t.Value, &t.AccountID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	t.CreatedAt = fromMillis(createdAt)
	return &t, nil
}
