package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/repository"
	"github.com/samijoehayek/opus-oakadmin/pkg/database"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

const (
	sessionPrefix = "oakadmin:session:"
	lockPrefix    = "oakadmin:upload:"

	fieldData = "data"
)

// saveIfVersion compares the stored version with ARGV[1] and, on match,
// writes ARGV[2]/ARGV[3] and refreshes the TTL (ARGV[4] ms).
// Returns -1 when the key is missing, 0 on version mismatch, 1 on success.
var saveIfVersion = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if not cur then
  return -1
end
if tonumber(cur) ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'version', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

var createSession = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'version', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.UploadLocks       = (*UploadLocks)(nil)
)

// SessionRepository implements repository.SessionRepository using Redis.
// Each session is a hash holding the JSON document and its version.
type SessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionRepository creates a new Redis-backed session repository.
func NewSessionRepository(client redis.UniversalClient, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (_ *form.Session, err error) {
	key := sessionPrefix + id
	ctx, end := database.TraceRedis(ctx, "HGET", key)
	defer func() { end(err) }()

	data, err := r.client.HGet(ctx, key, fieldData).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("session", id)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var s form.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Create stores a new session with the configured TTL.
func (r *SessionRepository) Create(ctx context.Context, s *form.Session) (err error) {
	key := sessionPrefix + s.ID
	ctx, end := database.TraceRedis(ctx, "EVALSHA", key)
	defer func() { end(err) }()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	created, err := createSession.Run(ctx, r.client, []string{key}, data, s.Version, r.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis create session: %w", err)
	}
	if created == 0 {
		return apperrors.Conflict("session " + s.ID + " already exists")
	}
	return nil
}

// SaveIfVersion stores s when the stored version still equals expectedVersion.
func (r *SessionRepository) SaveIfVersion(ctx context.Context, s *form.Session, expectedVersion int) (_ bool, err error) {
	key := sessionPrefix + s.ID
	ctx, end := database.TraceRedis(ctx, "EVALSHA", key)
	defer func() { end(err) }()

	data, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("marshal session: %w", err)
	}

	res, err := saveIfVersion.Run(ctx, r.client, []string{key},
		expectedVersion, data, s.Version, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis save session: %w", err)
	}

	switch res {
	case -1:
		return false, apperrors.NotFound("session", s.ID)
	case 0:
		return false, nil
	default:
		return true, nil
	}
}

// Delete removes a session from Redis.
func (r *SessionRepository) Delete(ctx context.Context, id string) (err error) {
	key := sessionPrefix + id
	ctx, end := database.TraceRedis(ctx, "DEL", key)
	defer func() { end(err) }()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

// releaseLock deletes KEYS[1] only while it still holds the token ARGV[1].
var releaseLock = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// UploadLocks implements repository.UploadLocks with SET NX PX keys, so a
// lock is shared by every replica and survives a crashed holder only for ttl.
type UploadLocks struct {
	client redis.UniversalClient
}

// NewUploadLocks creates Redis-backed upload locks.
func NewUploadLocks(client redis.UniversalClient) *UploadLocks {
	return &UploadLocks{client: client}
}

func lockKey(sessionID string, kind domain.UploadKind) string {
	return lockPrefix + sessionID + ":" + string(kind)
}

func (l *UploadLocks) Acquire(ctx context.Context, sessionID string, kind domain.UploadKind, ttl time.Duration) (_ string, _ bool, err error) {
	key := lockKey(sessionID, kind)
	ctx, end := database.TraceRedis(ctx, "SETNX", key)
	defer func() { end(err) }()

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis acquire upload lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *UploadLocks) Release(ctx context.Context, sessionID string, kind domain.UploadKind, token string) (err error) {
	key := lockKey(sessionID, kind)
	ctx, end := database.TraceRedis(ctx, "EVALSHA", key)
	defer func() { end(err) }()

	if err := releaseLock.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("redis release upload lock: %w", err)
	}
	return nil
}

func (l *UploadLocks) Held(ctx context.Context, sessionID string) (_ map[domain.UploadKind]bool, err error) {
	ctx, end := database.TraceRedis(ctx, "EXISTS", lockPrefix+sessionID)
	defer func() { end(err) }()

	cmds := make(map[domain.UploadKind]*redis.IntCmd, len(repository.UploadKinds))
	_, err = l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, kind := range repository.UploadKinds {
			cmds[kind] = pipe.Exists(ctx, lockKey(sessionID, kind))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis check upload locks: %w", err)
	}

	held := make(map[domain.UploadKind]bool, len(cmds))
	for kind, cmd := range cmds {
		held[kind] = cmd.Val() > 0
	}
	return held, nil
}
