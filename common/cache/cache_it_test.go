package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mediocregopher/radix/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) Cache {
	client, err := (radix.PoolConfig{}).New(context.Background(), "tcp", "localhost:6379")
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return NewCache(client)
}

func TestCache_SetExAndGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEx(ctx, "it:greeting", "hello", time.Minute))

	value, err := c.Get(ctx, "it:greeting")
	assert.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestCache_GetMissingKey(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "it:never-set")
	assert.ErrorIs(t, err, ErrNoValueForKey)
}

func TestCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEx(ctx, "it:doomed", "bye", time.Minute))
	require.NoError(t, c.Delete(ctx, "it:doomed"))

	_, err := c.Get(ctx, "it:doomed")
	assert.ErrorIs(t, err, ErrNoValueForKey)

	// Deleting an absent key is not an error.
	assert.NoError(t, c.Delete(ctx, "it:doomed"))
}

func TestCache_EntryExpires(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEx(ctx, "it:ephemeral", "soon gone", time.Second))

	time.Sleep(1500 * time.Millisecond)

	_, err := c.Get(ctx, "it:ephemeral")
	assert.ErrorIs(t, err, ErrNoValueForKey)
}
