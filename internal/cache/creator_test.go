package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2Scope/internal/model"
)

type mapBackend struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	gets   int
	closed bool
}

func newMapBackend() *mapBackend {
	return &mapBackend{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mapBackend) Get(_ context.Context, key string) (string, error) {
	m.gets++
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrMiss
	}
	return value, nil
}

func (m *mapBackend) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mapBackend) Close() error {
	m.closed = true
	return nil
}

type countingResolver struct {
	creator string
	calls   int
}

func (r *countingResolver) ContractCreator(context.Context, string) string {
	r.calls++
	return r.creator
}

func TestCreatorCacheReadThrough(t *testing.T) {
	backend := newMapBackend()
	base := &countingResolver{creator: "0xdeployer"}
	cache := NewCreatorCache(base, backend, 137, time.Hour, nil)

	ctx := context.Background()
	assert.Equal(t, "0xdeployer", cache.ContractCreator(ctx, "0xAbC"))
	assert.Equal(t, "0xdeployer", cache.ContractCreator(ctx, "0xabc"))
	assert.Equal(t, 1, base.calls)

	key := "c2scope:creator:137:0xabc"
	assert.Equal(t, "0xdeployer", backend.values[key])
	assert.Equal(t, time.Hour, backend.ttls[key])

	require.NoError(t, cache.Close())
	assert.True(t, backend.closed)
}

func TestCreatorCacheSkipsUnknown(t *testing.T) {
	backend := newMapBackend()
	base := &countingResolver{creator: model.CreatorUnknown}
	cache := NewCreatorCache(base, backend, 1, 0, nil)

	assert.Equal(t, model.CreatorUnknown, cache.ContractCreator(context.Background(), "0xabc"))
	assert.Equal(t, model.CreatorUnknown, cache.ContractCreator(context.Background(), "0xabc"))
	assert.Equal(t, 2, base.calls)
	assert.Empty(t, backend.values)
}

func TestCreatorCacheFallsThroughOnErrors(t *testing.T) {
	backend := newMapBackend()
	backend.getErr = errors.New("connection refused")
	backend.setErr = errors.New("connection refused")
	base := &countingResolver{creator: "0xdeployer"}
	cache := NewCreatorCache(base, backend, 1, 0, nil)

	assert.Equal(t, "0xdeployer", cache.ContractCreator(context.Background(), "0xabc"))
	assert.Equal(t, 1, base.calls)
}

func TestNewRedisBackendRequiresAddr(t *testing.T) {
	_, err := NewRedisBackend(Config{})
	assert.Error(t, err)
}
