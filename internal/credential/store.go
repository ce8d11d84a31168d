// Package credential owns account records and their password digests.
// It normalizes emails, enforces field limits and never persists plaintext.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/password"
	"github.com/ErlanBelekov/account-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxFieldLength = 255

type Store struct {
	accounts repository.AccountRepository
	hasher   password.Hasher
	validate *validator.Validate
}

func NewStore(accounts repository.AccountRepository, hasher password.Hasher) *Store {
	return &Store{
		accounts: accounts,
		hasher:   hasher,
		validate: validator.New(),
	}
}

// NormalizeEmail is the uniqueness key for accounts: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account. The returned account has no password digest.
func (s *Store) Create(ctx context.Context, in domain.NewAccount) (*domain.Account, error) {
	email, err := s.checkEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(in.Name); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.accounts.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: digest,
		IsActive:     true,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return redact(created), nil
}

// CreateSuperuser creates an account and promotes it to staff and superuser.
func (s *Store) CreateSuperuser(ctx context.Context, email, plaintext string) (*domain.Account, error) {
	created, err := s.Create(ctx, domain.NewAccount{Email: email, Password: plaintext})
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("reload account: %w", err)
	}
	account.IsStaff = true
	account.IsSuperuser = true

	promoted, err := s.accounts.Update(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("promote account: %w", err)
	}
	return redact(promoted), nil
}

// FindByEmail returns the full record, digest included, for credential checks.
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// Update applies the non-nil fields of upd. A new password is re-hashed.
func (s *Store) Update(ctx context.Context, id string, upd domain.AccountUpdate) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email, err := s.checkEmail(*upd.Email)
		if err != nil {
			return nil, err
		}
		account.Email = email
	}
	if upd.Name != nil {
		if err := s.checkName(*upd.Name); err != nil {
			return nil, err
		}
		account.Name = *upd.Name
	}
	if upd.Password != nil {
		digest, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = digest
	}

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return redact(updated), nil
}

func (s *Store) checkEmail(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		return "", domain.NewValidationError("email", "this field is required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", domain.NewValidationError("email", "enter a valid email address")
	}
	if len(email) > maxFieldLength {
		return "", domain.NewValidationError("email", "ensure this field has no more than 255 characters")
	}
	return email, nil
}

func (s *Store) checkName(name string) error {
	if err := s.validate.Var(name, "max=255"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return domain.NewValidationError("name", "ensure this field has no more than 255 characters")
		}
		return fmt.Errorf("validate name: %w", err)
	}
	return nil
}

func redact(a *domain.Account) *domain.Account {
	out := *a
	out.PasswordHash = ""
	return &out
}
