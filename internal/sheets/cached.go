package sheets

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"horas/internal/cache"
	"horas/internal/core"
)

// sharedLoadTimeout bounds a read shared by concurrent callers.
const sharedLoadTimeout = 2 * time.Minute

// CachedReader keeps the last datasets of a reader for a TTL. Concurrent
// loads of the same dataset share one call to the underlying reader.
type CachedReader struct {
	next     DatasetReader
	hours    *cache.LRUCache[[]core.TimeEntry]
	payments *cache.LRUCache[[]core.PaymentEntry]
	group    singleflight.Group
}

var _ DatasetReader = (*CachedReader)(nil)

func NewCachedReader(next DatasetReader, ttl time.Duration) *CachedReader {
	return &CachedReader{
		next:     next,
		hours:    cache.NewLRUCache[[]core.TimeEntry](1, ttl),
		payments: cache.NewLRUCache[[]core.PaymentEntry](1, ttl),
	}
}

func (c *CachedReader) ReadHours(ctx context.Context) ([]core.TimeEntry, error) {
	return load(ctx, c, c.hours, DatasetHours, c.next.ReadHours)
}

func (c *CachedReader) ReadPayments(ctx context.Context) ([]core.PaymentEntry, error) {
	return load(ctx, c, c.payments, DatasetPayments, c.next.ReadPayments)
}

// Invalidate drops both cached datasets.
func (c *CachedReader) Invalidate() {
	c.hours.Delete(DatasetHours)
	c.payments.Delete(DatasetPayments)
}

// Cleaners exposes the caches for periodic expiry by a cache.Manager.
func (c *CachedReader) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{c.hours, c.payments}
}

func load[T any](ctx context.Context, c *CachedReader, store *cache.LRUCache[[]T], key string, read func(context.Context) ([]T, error)) ([]T, error) {
	if rows, ok := store.Get(key); ok {
		return rows, nil
	}
	// The shared read outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		rows, err := read(rctx)
		if err != nil {
			return nil, err
		}
		store.Set(key, rows)
		return rows, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}
