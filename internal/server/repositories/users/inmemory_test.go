package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username string) *models.User {
	return &models.User{
		Username:     username,
		PasswordHash: []byte("hash"),
		Salt:         []byte("salt"),
		DateOfBirth:  time.Date(2006, 4, 12, 0, 0, 0, 0, time.UTC),
		AccessLevel:  models.AccessUser,
	}
}

func TestInMemory_CreateAndGetRoundTrip(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	in := newUser("alice")
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, *in, *got)
	assert.Equal(t, 0, got.Strikes, "new accounts start with zero strikes")
}

func TestInMemory_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice")))
	assert.ErrorIs(t, repo.Create(ctx, newUser("alice")), common.ErrorAlreadyExists)
}

func TestInMemory_GetMissing(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_AddAndResetStrikes(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("bob")))

	n, err := repo.AddStrike(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.AddStrike(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.ResetStrikes(ctx, "bob"))
	got, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Strikes)

	// idempotent on an already-clean record and on a missing one
	require.NoError(t, repo.ResetStrikes(ctx, "bob"))
	require.NoError(t, repo.ResetStrikes(ctx, "ghost"))
}

func TestInMemory_AddStrike_Missing(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.AddStrike(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_DeleteIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("carol")))

	require.NoError(t, repo.Delete(ctx, "carol"))
	require.NoError(t, repo.Delete(ctx, "carol"))

	_, err := repo.GetByUsername(ctx, "carol")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_ListOrdered(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, repo.Create(ctx, newUser(name)))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob", got[1].Username)
	assert.Equal(t, "carol", got[2].Username)
}

// Concurrent strike increments must never lose an update: the counter ends
// at exactly the number of attempts.
func TestInMemory_AddStrike_NoLostUpdates(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("bob")))

	const attempts = 50
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AddStrike(ctx, "bob")
		}()
	}
	wg.Wait()

	got, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, attempts, got.Strikes)
}
