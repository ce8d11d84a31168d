package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/metrics"
)

const DefaultMinPasswordLength = 5

// accountStore is the part of credential.Store the account flows need.
type accountStore interface {
	Create(ctx context.Context, in domain.NewAccount) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, id string, upd domain.AccountUpdate) (*domain.Account, error)
}

type AccountUsecase struct {
	store             accountStore
	minPasswordLength int
}

func NewAccountUsecase(store accountStore, minPasswordLength int) *AccountUsecase {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	return &AccountUsecase{store: store, minPasswordLength: minPasswordLength}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput holds the profile fields to change; nil fields are kept.
type UpdateProfileInput struct {
	Email    *string
	Name     *string
	Password *string
}

// Register checks the password policy before anything reaches the store.
func (u *AccountUsecase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := u.checkPassword(input.Password); err != nil {
		return nil, err
	}

	account, err := u.store.Create(ctx, domain.NewAccount{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	metrics.AccountsRegisteredTotal.Inc()
	return account, nil
}

func (u *AccountUsecase) GetProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	account, err := u.store.FindByID(ctx, accountID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return account.Profile(), nil
}

func (u *AccountUsecase) UpdateProfile(ctx context.Context, accountID string, input UpdateProfileInput) (domain.Profile, error) {
	if input.Password != nil {
		if err := u.checkPassword(*input.Password); err != nil {
			return domain.Profile{}, err
		}
	}

	account, err := u.store.Update(ctx, accountID, domain.AccountUpdate{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return account.Profile(), nil
}

func (u *AccountUsecase) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < u.minPasswordLength {
		return domain.NewValidationError("password",
			fmt.Sprintf("ensure this field has at least %d characters", u.minPasswordLength))
	}
	return nil
}
