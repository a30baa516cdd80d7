package cache

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/mediocregopher/radix/v4"
)

var ErrNoValueForKey = errors.New("cache: no value found for the given key")

// Cache is a bounded-TTL key-value store. Entries live until their TTL
// elapses or they are deleted explicitly; the backend has no pattern-based
// key deletion, so callers own their invalidation key lists.
type Cache interface {
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type cache struct {
	redis radix.Client
}

func NewCache(redis radix.Client) Cache {
	return &cache{redis: redis}
}

func (c *cache) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	err := c.redis.Do(
		ctx,
		radix.FlatCmd(nil, "SETEX", key, seconds, value),
	)

	return errors.Trace(err)
}

func (c *cache) Get(ctx context.Context, key string) (string, error) {
	var out string

	mb := radix.Maybe{Rcv: &out}
	if err := c.redis.Do(ctx, radix.Cmd(&mb, "GET", key)); err != nil {
		return "", errors.Trace(err)
	}

	if mb.Null {
		return "", ErrNoValueForKey
	}

	return out, nil
}

func (c *cache) Delete(ctx context.Context, key string) error {
	err := c.redis.Do(ctx, radix.Cmd(nil, "DEL", key))

	return errors.Trace(err)
}
