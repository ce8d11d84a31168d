package repository

import (
	"context"

	"github.com/ErlanBelekov/account-api/internal/domain"
)

// AccountRepository persists accounts. Emails reaching it are already normalized.
type AccountRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already stored.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update writes every mutable column of account. Returns
	// domain.ErrAccountNotFound for an unknown ID and domain.ErrEmailTaken
	// when the new email belongs to another account.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
