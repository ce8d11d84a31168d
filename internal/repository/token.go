package repository

import (
	"context"

	"github.com/ErlanBelekov/account-api/internal/domain"
)

type TokenRepository interface {
	// FindOrCreate atomically returns the account's existing token, or stores
	// candidate as its token. created reports which of the two happened.
	// Concurrent callers for the same account always observe a single token.
	FindOrCreate(ctx context.Context, accountID, candidate string) (token *domain.Token, created bool, err error)

	// FindByValue returns domain.ErrTokenNotFound for unknown values.
	FindByValue(ctx context.Context, value string) (*domain.Token, error)
}
