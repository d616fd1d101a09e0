package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/repository"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.UploadLocks       = (*UploadLocks)(nil)
)

type entry struct {
	session   *form.Session
	expiresAt time.Time
}

// SessionRepository is an in-process session store. Sessions expire ttl after
// their last write; expired entries are invisible to Get and reclaimed by Sweep.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionRepository) Get(_ context.Context, id string) (*form.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || !r.now().Before(e.expiresAt) {
		return nil, apperrors.NotFound("session", id)
	}
	return e.session.Clone(), nil
}

func (r *SessionRepository) Create(_ context.Context, s *form.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[s.ID]; ok && r.now().Before(e.expiresAt) {
		return apperrors.Conflict("session " + s.ID + " already exists")
	}
	r.sessions[s.ID] = entry{session: s.Clone(), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *SessionRepository) SaveIfVersion(_ context.Context, s *form.Session, expectedVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[s.ID]
	if !ok || !r.now().Before(e.expiresAt) {
		return false, apperrors.NotFound("session", s.ID)
	}
	if e.session.Version != expectedVersion {
		return false, nil
	}
	r.sessions[s.ID] = entry{session: s.Clone(), expiresAt: r.now().Add(r.ttl)}
	return true, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *SessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired or not.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *SessionRepository) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.InfoContext(ctx, "expired sessions removed", slog.Int("count", n))
			}
		}
	}
}

// UploadLocks is an in-process implementation of repository.UploadLocks.
type UploadLocks struct {
	mu    sync.Mutex
	locks map[string]uploadLock
	now   func() time.Time
}

type uploadLock struct {
	token   string
	expires time.Time
}

// NewUploadLocks creates an empty lock table.
func NewUploadLocks() *UploadLocks {
	return &UploadLocks{locks: make(map[string]uploadLock), now: time.Now}
}

func lockKey(sessionID string, kind domain.UploadKind) string {
	return sessionID + "/" + string(kind)
}

func (l *UploadLocks) Acquire(_ context.Context, sessionID string, kind domain.UploadKind, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockKey(sessionID, kind)
	if cur, ok := l.locks[key]; ok && l.now().Before(cur.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.locks[key] = uploadLock{token: token, expires: l.now().Add(ttl)}
	return token, true, nil
}

func (l *UploadLocks) Release(_ context.Context, sessionID string, kind domain.UploadKind, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockKey(sessionID, kind)
	if cur, ok := l.locks[key]; ok && cur.token == token {
		delete(l.locks, key)
	}
	return nil
}

func (l *UploadLocks) Held(_ context.Context, sessionID string) (map[domain.UploadKind]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	held := make(map[domain.UploadKind]bool, len(repository.UploadKinds))
	for _, kind := range repository.UploadKinds {
		cur, ok := l.locks[lockKey(sessionID, kind)]
		held[kind] = ok && now.Before(cur.expires)
	}
	return held, nil
}
