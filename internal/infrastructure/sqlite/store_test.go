package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/infrastructure/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "accounts.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAccount(email string) *domain.Account {
	return &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test",
		PasswordHash: "digest",
		IsActive:     true,
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", created.Email)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsStaff)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "digest", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", byID.Name)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount("a@b.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAccountRepository_FindMissing(t *testing.T) {
	repo := sqlite.NewAccountRepository(openTestDB(t))

	_, err := repo.FindByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_Update(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)

	created.Name = "Renamed"
	created.IsStaff = true
	created.IsSuperuser = true
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.IsStaff)
	assert.True(t, updated.IsSuperuser)

	_, err = repo.Update(ctx, newAccount("ghost@b.com"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_UpdateToTakenEmail(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("first@b.com"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newAccount("second@b.com"))
	require.NoError(t, err)

	second.Email = "first@b.com"
	_, err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestTokenRepository_FindOrCreate(t *testing.T) {
	db := openTestDB(t)
	accounts := sqlite.NewAccountRepository(db)
	tokens := sqlite.NewTokenRepository(db)
	ctx := context.Background()

	account, err := accounts.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)

	first, created, err := tokens.FindOrCreate(ctx, account.ID, "token-one")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "token-one", first.Value)
	assert.Equal(t, account.ID, first.AccountID)

	second, created, err := tokens.FindOrCreate(ctx, account.ID, "token-two")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "token-one", second.Value)

	_, err = tokens.FindByValue(ctx, "token-two")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestTokenRepository_FindOrCreate_Concurrent(t *testing.T) {
	db := openTestDB(t)
	accounts := sqlite.NewAccountRepository(db)
	tokens := sqlite.NewTokenRepository(db)
	ctx := context.Background()

	account, err := accounts.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)

	const n = 10
	values := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, _, err := tokens.FindOrCreate(ctx, account.ID, uuid.NewString())
			errs[i] = err
			if err == nil {
				values[i] = tok.Value
			}
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, values[0], values[i])
	}
}

func TestTokenRepository_UnknownAccount(t *testing.T) {
	tokens := sqlite.NewTokenRepository(openTestDB(t))

	_, _, err := tokens.FindOrCreate(context.Background(), uuid.NewString(), "token")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTokenRepository_FindByValue(t *testing.T) {
	db := openTestDB(t)
	accounts := sqlite.NewAccountRepository(db)
	tokens := sqlite.NewTokenRepository(db)
	ctx := context.Background()

	account, err := accounts.Create(ctx, newAccount("a@b.com"))
	require.NoError(t, err)
	_, _, err = tokens.FindOrCreate(ctx, account.ID, "abc123")
	require.NoError(t, err)

	tok, err := tokens.FindByValue(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, tok.AccountID)
	assert.False(t, tok.CreatedAt.IsZero())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "  ", slog.Default())
	assert.Error(t, err)
}
