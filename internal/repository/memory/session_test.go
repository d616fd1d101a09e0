package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setupRepo(t *testing.T) (*SessionRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	repo := NewSessionRepository(30 * time.Minute)
	repo.now = clock.now
	return repo, clock
}

func newSession(id string) *form.Session {
	return form.NewSession(id, "user-1", nil, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
}

// --- Sessions ---

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	s := newSession("s-1")
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	got.State.Basic.Name = "mutated"
	again, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, again.State.Basic.Name, "stored copy is isolated")
}

func TestSessionRepository_CreateDuplicate(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("s-1")))
	err := repo.Create(ctx, newSession("s-1"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSessionRepository_GetNotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionRepository_SaveIfVersion(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	s, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	s.State.Basic.Name = "Oak Bench"
	s.Version = 2

	ok, err := repo.SaveIfVersion(ctx, s, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	stale := s.Clone()
	stale.State.Basic.Name = "stale"
	stale.Version = 2
	ok, err = repo.SaveIfVersion(ctx, stale, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Oak Bench", got.State.Basic.Name)
	assert.Equal(t, 2, got.Version)
}

func TestSessionRepository_SaveIfVersionMissing(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.SaveIfVersion(context.Background(), newSession("ghost"), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo, clock := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s-1")))
	require.NoError(t, repo.Create(ctx, newSession("s-2")))

	clock.advance(20 * time.Minute)
	s, err := repo.Get(ctx, "s-2")
	require.NoError(t, err)
	s.Version = 2
	ok, err := repo.SaveIfVersion(ctx, s, 1)
	require.NoError(t, err)
	require.True(t, ok)

	clock.advance(15 * time.Minute)
	_, err = repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.Get(ctx, "s-2")
	assert.NoError(t, err, "write refreshes ttl")

	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 1, repo.Len())
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	require.NoError(t, repo.Delete(ctx, "s-1"))
	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Upload locks ---

func TestUploadLocks(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	locks := NewUploadLocks()
	locks.now = clock.now
	ctx := context.Background()

	token, ok, err := locks.Acquire(ctx, "s-1", domain.UploadKindImages, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, _ = locks.Acquire(ctx, "s-1", domain.UploadKindImages, time.Minute)
	assert.False(t, ok, "second upload of the same kind is rejected")

	_, ok, _ = locks.Acquire(ctx, "s-1", domain.UploadKindModel, time.Minute)
	assert.True(t, ok, "kinds are independent")

	_, ok, _ = locks.Acquire(ctx, "s-2", domain.UploadKindImages, time.Minute)
	assert.True(t, ok, "sessions are independent")

	held, err := locks.Held(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, map[domain.UploadKind]bool{domain.UploadKindImages: true, domain.UploadKindModel: true}, held)

	require.NoError(t, locks.Release(ctx, "s-1", domain.UploadKindImages, token))
	held, _ = locks.Held(ctx, "s-1")
	assert.False(t, held[domain.UploadKindImages])

	clock.advance(2 * time.Minute)
	held, _ = locks.Held(ctx, "s-1")
	assert.False(t, held[domain.UploadKindModel], "stale lock expires")
	_, ok, _ = locks.Acquire(ctx, "s-1", domain.UploadKindModel, time.Minute)
	assert.True(t, ok)
}

func TestUploadLocks_StaleReleaseKeepsNewHolder(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	locks := NewUploadLocks()
	locks.now = clock.now
	ctx := context.Background()

	first, ok, err := locks.Acquire(ctx, "s-1", domain.UploadKindImages, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	clock.advance(2 * time.Minute)
	second, ok, err := locks.Acquire(ctx, "s-1", domain.UploadKindImages, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, first, second)

	require.NoError(t, locks.Release(ctx, "s-1", domain.UploadKindImages, first))
	held, err := locks.Held(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, held[domain.UploadKindImages], "late release of an expired lock leaves the new holder")

	_, ok, _ = locks.Acquire(ctx, "s-1", domain.UploadKindImages, time.Minute)
	assert.False(t, ok)

	require.NoError(t, locks.Release(ctx, "s-1", domain.UploadKindImages, second))
	held, _ = locks.Held(ctx, "s-1")
	assert.False(t, held[domain.UploadKindImages])
}

func TestRunSweeper_StopsOnCancel(t *testing.T) {
	repo := NewSessionRepository(time.Millisecond)
	require.NoError(t, repo.Create(context.Background(), newSession("s-1")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- repo.RunSweeper(ctx, 5*time.Millisecond, discardLogger()) }()

	assert.Eventually(t, func() bool { return repo.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
