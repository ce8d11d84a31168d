package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// A concurrent insert that commits after this statement's snapshot makes
// both halves of the find-or-create query come back empty; the next attempt
// runs on a fresh snapshot and sees the winner's row.
const findOrCreateAttempts = 3

type TokenRepository struct {
	db Querier
}

func NewTokenRepository(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) FindOrCreate(ctx context.Context, accountID, candidate string) (*domain.Token, bool, error) {
	// ON CONFLICT on the unique account_id index makes issuance atomic.
	query := `
		WITH inserted AS (
			INSERT INTO tokens (value, account_id)
			VALUES ($1, $2)
			ON CONFLICT (account_id) DO NOTHING
			RETURNING value, account_id::text, created_at, TRUE AS created
		)
		SELECT value, account_id, created_at, created FROM inserted
		UNION ALL
		SELECT value, account_id::text, created_at, FALSE FROM tokens WHERE account_id = $2
		LIMIT 1`

	for range findOrCreateAttempts {
		var (
			t       domain.Token
			created bool
		)
		err := r.db.QueryRow(ctx, query, candidate, accountID).
			Scan(&t.Value, &t.AccountID, &t.CreatedAt, &created)
		if err == nil {
			return &t, created, nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, false, domain.ErrAccountNotFound
		}
		return nil, false, fmt.Errorf("find or create token: %w", err)
	}
	return nil, false, fmt.Errorf("find or create token: no row after %d attempts", findOrCreateAttempts)
}

func (r *TokenRepository) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	query := `SELECT value, account_id::text, created_at FROM tokens WHERE value = $1`

	var t domain.Token
	err := r.db.QueryRow(ctx, query, value).Scan(&t.Value, &t.AccountID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return &t, nil
}
