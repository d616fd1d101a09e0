package repository

import (
	"context"
	"time"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
)

// SessionRepository defines persistence for product editing sessions.
// Implementations return copies; mutating a returned session does not affect
// the stored one until it is saved.
type SessionRepository interface {
	// Get retrieves a session by ID. A missing or expired session yields a
	// NotFound AppError.
	Get(ctx context.Context, id string) (*form.Session, error)

	// Create stores a new session.
	Create(ctx context.Context, s *form.Session) error

	// SaveIfVersion stores s only if the stored version equals expectedVersion.
	// It returns false when another writer got there first.
	SaveIfVersion(ctx context.Context, s *form.Session, expectedVersion int) (bool, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// UploadLocks guards each upload kind of a session with a single-flight lock.
type UploadLocks interface {
	// Acquire takes the lock for kind, returning false if it is already held.
	// The lock expires after ttl if never released. The returned token
	// identifies this holder to Release.
	Acquire(ctx context.Context, sessionID string, kind domain.UploadKind, ttl time.Duration) (token string, ok bool, err error)

	// Release frees the lock for kind if it is still held under token. A lock
	// that expired and was taken by another holder is left untouched.
	Release(ctx context.Context, sessionID string, kind domain.UploadKind, token string) error

	// Held reports which kinds are currently locked for the session.
	Held(ctx context.Context, sessionID string) (map[domain.UploadKind]bool, error)
}

// UploadKinds lists every lockable upload kind.
var UploadKinds = []domain.UploadKind{domain.UploadKindImages, domain.UploadKindModel}
