package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/metrics"
	"github.com/ErlanBelekov/account-api/internal/password"
	"github.com/ErlanBelekov/account-api/internal/repository"
)

const tokenBytes = 20

// credentialFinder is the read side of credential.Store.
type credentialFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

type AuthUsecase struct {
	accounts credentialFinder
	tokens   repository.TokenRepository
	hasher   password.Hasher
	newToken func() (string, error)

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthUsecase(accounts credentialFinder, tokens repository.TokenRepository, hasher password.Hasher) *AuthUsecase {
	return &AuthUsecase{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		newToken: generateToken,
	}
}

// Authenticate verifies email and password and returns the account's token,
// creating it on the first successful login. Every credential failure is
// reported as domain.ErrAuthentication.
func (u *AuthUsecase) Authenticate(ctx context.Context, email, plaintext string) (*domain.Token, error) {
	account, err := u.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// keep the unknown-email path as slow as a real comparison
			u.hasher.Verify(plaintext, u.dummy())
			metrics.AuthAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return nil, domain.ErrAuthentication
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !u.hasher.Verify(plaintext, account.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("wrong_password").Inc()
		return nil, domain.ErrAuthentication
	}
	if !account.IsActive {
		metrics.AuthAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAuthentication
	}
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	candidate, err := u.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token, created, err := u.tokens.FindOrCreate(ctx, account.ID, candidate)
	if err != nil {
		return nil, fmt.Errorf("find or create token: %w", err)
	}
	if created {
		metrics.TokensIssuedTotal.WithLabelValues("created").Inc()
	} else {
		metrics.TokensIssuedTotal.WithLabelValues("reused").Inc()
	}
	return token, nil
}

// ResolveToken maps a presented token to its active account. The returned
// account carries no password digest.
func (u *AuthUsecase) ResolveToken(ctx context.Context, value string) (*domain.Account, error) {
	if value == "" {
		metrics.TokenResolutionsTotal.WithLabelValues("missing").Inc()
		return nil, domain.ErrAuthentication
	}

	token, err := u.tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.TokenResolutionsTotal.WithLabelValues("unknown").Inc()
			return nil, domain.ErrAuthentication
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	account, err := u.accounts.FindByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.TokenResolutionsTotal.WithLabelValues("unknown").Inc()
			return nil, domain.ErrAuthentication
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !account.IsActive {
		metrics.TokenResolutionsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAuthentication
	}

	metrics.TokenResolutionsTotal.WithLabelValues("success").Inc()
	resolved := *account
	resolved.PasswordHash = ""
	return &resolved, nil
}

func (u *AuthUsecase) dummy() string {
	u.dummyOnce.Do(func() {
		// on hash failure the digest stays empty and Verify returns false
		u.dummyDigest, _ = u.hasher.Hash("unusable-password-placeholder")
	})
	return u.dummyDigest
}

// generateToken returns 40 hex characters of crypto-random data.
func generateToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
