package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

const (
	userKeyPrefix  = "session:user:"
	tokenKeyPrefix = "session:token:"
)

// KEYS: user key. ARGV: user id, digest, ttl ms, token key prefix.
var saveSessionLua = redis.NewScript(`
local prev = redis.call("GET", KEYS[1])
if prev then
  redis.call("DEL", ARGV[4] .. prev)
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
redis.call("SET", ARGV[4] .. ARGV[2], ARGV[1], "PX", ARGV[3])
return 1
`)

// KEYS: user key, old token key, new token key. ARGV: old digest, new digest,
// user id, ttl ms.
var replaceSessionLua = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[2])
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[4])
redis.call("SET", KEYS[3], ARGV[3], "PX", ARGV[4])
return 1
`)

// KEYS: token key. ARGV: digest, user key prefix.
var deleteSessionLua = redis.NewScript(`
local uid = redis.call("GET", KEYS[1])
if not uid then
  return 0
end
redis.call("DEL", KEYS[1])
local user_key = ARGV[2] .. uid
if redis.call("GET", user_key) == ARGV[1] then
  redis.call("DEL", user_key)
end
return 1
`)

// SessionRepository keeps sessions in Redis. Every mutation runs as a Lua
// script so the user and token keys never disagree.
type SessionRepository struct {
	client redis.UniversalClient
	salt   string
	ttl    time.Duration
}

func NewSessionRepository(client redis.UniversalClient, salt string, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, salt: salt, ttl: ttl}
}

var _ outbound.SessionRepository = (*SessionRepository)(nil)

// NewClient parses a redis:// URL and checks connectivity.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *SessionRepository) Save(ctx context.Context, userID, refreshToken string) error {
	err := saveSessionLua.Run(ctx, r.client,
		[]string{userKeyPrefix + userID},
		userID, r.hash(refreshToken), r.ttl.Milliseconds(), tokenKeyPrefix,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	digest := r.hash(refreshToken)
	userID, err := r.client.Get(ctx, tokenKeyPrefix+digest).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	current, err := r.client.Get(ctx, userKeyPrefix+userID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if current != digest {
		return nil, outbound.ErrSessionNotFound
	}

	return &entity.Session{UserID: userID, RefreshToken: refreshToken}, nil
}

func (r *SessionRepository) Replace(ctx context.Context, userID, oldToken, newToken string) error {
	oldDigest, newDigest := r.hash(oldToken), r.hash(newToken)
	swapped, err := replaceSessionLua.Run(ctx, r.client,
		[]string{userKeyPrefix + userID, tokenKeyPrefix + oldDigest, tokenKeyPrefix + newDigest},
		oldDigest, newDigest, userID, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if swapped == 0 {
		return outbound.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, refreshToken string) (int64, error) {
	digest := r.hash(refreshToken)
	deleted, err := deleteSessionLua.Run(ctx, r.client,
		[]string{tokenKeyPrefix + digest},
		digest, userKeyPrefix,
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return deleted, nil
}

func (r *SessionRepository) hash(token string) string {
	return entity.HashRefreshToken(token, r.salt)
}
