package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultSessionKeyPrefix = "market:session:"

// RedisSessionStore keeps sessions in Redis so every instance behind a load
// balancer sees the same logins. Expiry is delegated to the key TTL.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type sessionPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRedisClient connects to Redis and verifies the connection with a PING
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisSessionStore wraps an existing client. An empty keyPrefix uses the default.
func NewRedisSessionStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = defaultSessionKeyPrefix
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID uuid.UUID, username string) (*identity.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, shared.NewStorageError("Failed to create session", err)
	}
	expiresAt := time.Now().Add(s.ttl)

	data, err := json.Marshal(sessionPayload{UserID: userID, Username: username, ExpiresAt: expiresAt})
	if err != nil {
		return nil, shared.NewStorageError("Failed to create session", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+token, data, s.ttl).Err(); err != nil {
		return nil, shared.NewTransientStorageError("Failed to create session", err)
	}

	return &identity.Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (*identity.Session, error) {
	if token == "" {
		return nil, shared.ErrUnauthorized
	}

	data, err := s.client.Get(ctx, s.keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, shared.NewTransientStorageError("Failed to resolve session", err)
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// unreadable entries are treated as logged out
		return nil, shared.ErrUnauthorized
	}

	return &identity.Session{
		Token:     token,
		UserID:    payload.UserID,
		Username:  payload.Username,
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.keyPrefix+token).Err(); err != nil {
		return shared.NewTransientStorageError("Failed to revoke session", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ identity.SessionStore = (*RedisSessionStore)(nil)
