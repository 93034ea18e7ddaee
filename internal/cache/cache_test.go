package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "coins", []byte(`[{"id":"bitcoin"}]`), 0))
	val, found, err := m.Get(ctx, "coins")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"bitcoin"}]`, string(val))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(30 * time.Second)
	_, found, _ := m.Get(ctx, "k")
	assert.True(t, found, "entry should still be live")

	now = now.Add(time.Minute)
	_, found, _ = m.Get(ctx, "k")
	assert.False(t, found, "entry should have expired")
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	src := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", src, 0))
	src[0] = 'x'

	val, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(val))
	val[1] = 'y'

	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestRedis_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedis(db, "allocator:")
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("allocator:coins").SetVal("payload")
		val, found, err := c.Get(ctx, "coins")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "payload", string(val))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("allocator:coins").RedisNil()
		val, found, err := c.Get(ctx, "coins")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectGet("allocator:coins").SetErr(errors.New("connection refused"))
		_, found, err := c.Get(ctx, "coins")
		assert.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedis(db, "allocator:")
	ctx := context.Background()

	mock.ExpectSet("allocator:coins", []byte("payload"), time.Hour).SetVal("OK")
	require.NoError(t, c.Set(ctx, "coins", []byte("payload"), time.Hour))

	mock.ExpectSet("allocator:coins", []byte("payload"), time.Hour).SetErr(errors.New("oom"))
	assert.Error(t, c.Set(ctx, "coins", []byte("payload"), time.Hour))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_SelectsBackend(t *testing.T) {
	if _, ok := New("").(*Memory); !ok {
		t.Error("expected memory cache without redis address")
	}
	if _, ok := New("localhost:6379").(*Redis); !ok {
		t.Error("expected redis cache with address")
	}
}
