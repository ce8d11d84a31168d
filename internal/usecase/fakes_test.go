package usecase_test

import (
	"context"
	"sync"

	"github.com/ErlanBelekov/account-api/internal/credential"
	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/password"
	"github.com/ErlanBelekov/account-api/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- in-memory repositories ----

type memAccounts struct {
	mu      sync.Mutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: make(map[string]domain.Account), byEmail: make(map[string]string)}
}

func (r *memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.byID[a.ID] = *a
	r.byEmail[a.Email] = a.ID
	out := *a
	return &out, nil
}

func (r *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *memAccounts) Update(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[a.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if owner, taken := r.byEmail[a.Email]; taken && owner != a.ID {
		return nil, domain.ErrEmailTaken
	}
	delete(r.byEmail, old.Email)
	r.byID[a.ID] = *a
	r.byEmail[a.Email] = a.ID
	out := *a
	return &out, nil
}

func (r *memAccounts) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type memTokens struct {
	mu        sync.Mutex
	byValue   map[string]domain.Token
	byAccount map[string]string
}

func newMemTokens() *memTokens {
	return &memTokens{byValue: make(map[string]domain.Token), byAccount: make(map[string]string)}
}

func (r *memTokens) FindOrCreate(_ context.Context, accountID, candidate string) (*domain.Token, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.byAccount[accountID]; ok {
		t := r.byValue[value]
		return &t, false, nil
	}
	t := domain.Token{Value: candidate, AccountID: accountID}
	r.byValue[candidate] = t
	r.byAccount[accountID] = candidate
	return &t, true, nil
}

func (r *memTokens) FindByValue(_ context.Context, value string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byValue[value]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return &t, nil
}

// ---- function-field fakes ----

type fakeTokenRepo struct {
	findOrCreate func(ctx context.Context, accountID, candidate string) (*domain.Token, bool, error)
	findByValue  func(ctx context.Context, value string) (*domain.Token, error)
}

func (r *fakeTokenRepo) FindOrCreate(ctx context.Context, accountID, candidate string) (*domain.Token, bool, error) {
	return r.findOrCreate(ctx, accountID, candidate)
}

func (r *fakeTokenRepo) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	return r.findByValue(ctx, value)
}

type fakeFinder struct {
	findByEmail func(ctx context.Context, email string) (*domain.Account, error)
	findByID    func(ctx context.Context, id string) (*domain.Account, error)
}

func (f *fakeFinder) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return f.findByEmail(ctx, email)
}

func (f *fakeFinder) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return f.findByID(ctx, id)
}

// ---- helpers ----

type env struct {
	accounts *memAccounts
	tokens   *memTokens
	store    *credential.Store
	account  *usecase.AccountUsecase
	auth     *usecase.AuthUsecase
}

func newEnv() *env {
	accounts := newMemAccounts()
	tokens := newMemTokens()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	store := credential.NewStore(accounts, hasher)
	return &env{
		accounts: accounts,
		tokens:   tokens,
		store:    store,
		account:  usecase.NewAccountUsecase(store, usecase.DefaultMinPasswordLength),
		auth:     usecase.NewAuthUsecase(store, tokens, hasher),
	}
}

func strPtr(s string) *string { return &s }
