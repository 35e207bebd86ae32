package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"c2Scope/internal/model"
)

const (
	creatorKeyPrefix = "c2scope:creator:"
	defaultCacheTTL  = 24 * time.Hour
	pingTimeout      = 2 * time.Second
)

// ErrMiss is returned by a Backend when the key is absent.
var ErrMiss = errors.New("cache miss")

// Backend is a string key-value store with expiry.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Resolver looks up the deployer of a contract.
type Resolver interface {
	ContractCreator(ctx context.Context, contract string) string
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to Redis and checks the connection.
func NewRedisBackend(cfg Config) (Backend, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisBackend{client: client}, nil
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	value, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return value, err
}

func (b *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}

// CreatorCache is a read-through cache in front of a Resolver. Only resolved
// creators are stored; cache failures fall back to the resolver.
type CreatorCache struct {
	base    Resolver
	backend Backend
	chainID uint64
	ttl     time.Duration
	logger  *zap.Logger
}

func NewCreatorCache(base Resolver, backend Backend, chainID uint64, ttl time.Duration, logger *zap.Logger) *CreatorCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CreatorCache{base: base, backend: backend, chainID: chainID, ttl: ttl, logger: logger}
}

func (c *CreatorCache) ContractCreator(ctx context.Context, contract string) string {
	key := creatorKey(c.chainID, contract)
	cached, err := c.backend.Get(ctx, key)
	switch {
	case err == nil && cached != "":
		c.logger.Debug("creator cache hit", zap.String("contract", contract))
		return cached
	case err != nil && !errors.Is(err, ErrMiss):
		c.logger.Warn("creator cache read failed", zap.String("contract", contract), zap.Error(err))
	}

	creator := c.base.ContractCreator(ctx, contract)
	if creator == "" || creator == model.CreatorUnknown {
		return model.CreatorUnknown
	}
	if err := c.backend.Set(ctx, key, creator, c.ttl); err != nil {
		c.logger.Warn("creator cache write failed", zap.String("contract", contract), zap.Error(err))
	}
	return creator
}

func (c *CreatorCache) Close() error {
	return c.backend.Close()
}

func creatorKey(chainID uint64, contract string) string {
	var b strings.Builder
	b.Grow(len(creatorKeyPrefix) + 64)
	b.WriteString(creatorKeyPrefix)
	b.WriteString(strconv.FormatUint(chainID, 10))
	b.WriteByte(':')
	b.WriteString(strings.ToLower(contract))
	return b.String()
}
