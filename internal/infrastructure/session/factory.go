package session

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/infrastructure/config"
)

// CartStore is a cart.Store that owns resources
type CartStore interface {
	cart.Store
	Close() error
}

// CartStoreFactory creates cart stores based on configuration
type CartStoreFactory struct {
	sessionConfig         config.SessionConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStoreFactoryOption is a functional option for configuring the factory
type CartStoreFactoryOption func(*CartStoreFactory)

// WithLogger sets the logger for the factory and the stores it creates
func WithLogger(logger *zap.Logger) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable
func WithInMemoryFallback(allow bool) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCartStoreFactory creates a new factory
func NewCartStoreFactory(sessionCfg config.SessionConfig, redisCfg config.RedisConfig, opts ...CartStoreFactoryOption) *CartStoreFactory {
	f := &CartStoreFactory{
		sessionConfig: sessionCfg,
		redisConfig:   redisCfg,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-backed cart store
func (f *CartStoreFactory) CreateRedisStore() (CartStore, error) {
	store, err := NewRedisCartStore(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.sessionConfig.KeyPrefix, f.sessionConfig.TTL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cart store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory cart store.
// Carts are lost on restart and are not shared between instances.
func (f *CartStoreFactory) CreateInMemoryStore() (CartStore, error) {
	store, err := NewInMemoryCartStore(f.sessionConfig.TTL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory cart store: %w", err)
	}
	return store, nil
}

// CreateStore creates the configured store
func (f *CartStoreFactory) CreateStore() (CartStore, error) {
	if f.sessionConfig.Backend != "redis" {
		f.logger.Info("using in-memory cart store")
		return f.CreateInMemoryStore()
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis cart store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for session carts but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store. "+
		"Carts will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore()
}
