package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atlanticave/storefront/internal/domain/cart"
)

const (
	defaultKeyPrefix = "storefront:cart:"
	// maxUpdateAttempts bounds optimistic-lock retries when concurrent requests race on one session
	maxUpdateAttempts = 10
)

// ErrConcurrentUpdate is returned when an update keeps losing the optimistic lock
var ErrConcurrentUpdate = cart.ErrConcurrentUpdate

// ErrInvalidTTL is returned by the store constructors for a non-positive idle lifetime
var ErrInvalidTTL = errors.New("session: cart ttl must be positive")

// RedisCartStore implements cart.Store on Redis.
// Updates run in a WATCH/MULTI transaction on the session key.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisCartStore connects to Redis and verifies the connection
func NewRedisCartStore(opts *redis.Options, keyPrefix string, ttl time.Duration, logger *zap.Logger) (*RedisCartStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, keyPrefix, ttl, logger)
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client.
// ttl is the idle lifetime: every Load or Update resets the key expiry.
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration, logger *zap.Logger) (*RedisCartStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// Load returns the session's cart, or an empty cart
func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.GetEx(ctx, s.key(sessionID), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeOrReset(data, sessionID, s.logger), nil
}

// Update applies fn inside an optimistic transaction, retrying when another writer wins the race
func (s *RedisCartStore) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	key := s.key(sessionID)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var updated *cart.Cart
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return fmt.Errorf("failed to load cart: %w", err)
			}

			c := decodeOrReset(data, sessionID, s.logger)
			if err := fn(c); err != nil {
				return err
			}

			var encoded []byte
			if !c.IsEmpty() {
				if encoded, err = cart.Encode(c); err != nil {
					return err
				}
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if encoded == nil {
					pipe.Del(ctx, key)
				} else {
					pipe.Set(ctx, key, encoded, s.ttl)
				}
				return nil
			})
			if err != nil {
				return err
			}
			updated = c
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("cart update lost optimistic lock, retrying",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, ErrConcurrentUpdate
}

// Delete destroys the session's cart
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client
func (s *RedisCartStore) GetClient() *redis.Client {
	return s.client
}

func (s *RedisCartStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

var _ cart.Store = (*RedisCartStore)(nil)
