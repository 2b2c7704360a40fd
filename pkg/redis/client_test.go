package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockkeeper/pkg/config"
)

func TestSetNXGetDel(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "k", "v1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "k", "v2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	require.NoError(t, client.Del(ctx, "k"))
	_, err = client.Get(ctx, "k")
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestIdempotencyKey(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "stockkeeper:idempotency:POST|/api/v1/products:abc", client.IdempotencyKey("POST|/api/v1/products", "abc"))
	assert.Equal(t, "stockkeeper:idempotency:abc", client.IdempotencyKey(" ", "abc"))
}

func TestUninitializedClient(t *testing.T) {
	ctx := context.Background()
	client := &Client{}

	assert.Error(t, client.Ping(ctx))
	_, err := client.Get(ctx, "k")
	assert.Error(t, err)
	_, err = client.SetNX(ctx, "k", "v", 0)
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 4, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)

	_, err = optionsFromConfig(config.RedisConfig{URL: "://bad"})
	require.Error(t, err)
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
