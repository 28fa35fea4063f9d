package cache

import (
	"context"
	"fmt"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SessionStoreFactory picks the session store implementation from configuration
type SessionStoreFactory struct {
	redisConfig config.RedisConfig
	session     config.SessionConfig
	logger      *zap.Logger
}

// SessionStoreFactoryOption is a functional option for configuring the factory
type SessionStoreFactoryOption func(*SessionStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.logger = logger
	}
}

// NewSessionStoreFactory creates a new factory
func NewSessionStoreFactory(redisCfg config.RedisConfig, sessionCfg config.SessionConfig, opts ...SessionStoreFactoryOption) *SessionStoreFactory {
	f := &SessionStoreFactory{
		redisConfig: redisCfg,
		session:     sessionCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable.
// When it is unreachable the in-memory store is used if FallbackToMemory is set.
func (f *SessionStoreFactory) CreateStore(ctx context.Context) (identity.SessionStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory session store")
		return NewInMemorySessionStore(f.session.TTL, 0), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig.Addr(), f.redisConfig.Password, f.redisConfig.DB)
	if err == nil {
		f.logger.Info("Using Redis session store", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisSessionStore(client, "", f.session.TTL), nil
	}

	if !f.redisConfig.FallbackToMemory {
		return nil, fmt.Errorf("redis required for sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session store. "+
		"Sessions will not be shared between instances.",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return NewInMemorySessionStore(f.session.TTL, 0), nil
}
