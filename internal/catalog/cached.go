package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/cache"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheFillTimeout = time.Second

// Cached serves catalog reads from a cache and falls back to the wrapped
// catalog on a miss. Not-found answers are never cached.
type Cached struct {
	next    Catalog
	cache   cache.Cache
	sfg     singleflight.Group
	timeout time.Duration
	log     *zap.Logger
}

// NewCached wraps next. timeout bounds each shared load; zero means
// DefaultTimeout.
func NewCached(next Catalog, c cache.Cache, timeout time.Duration, log *zap.Logger) *Cached {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cached{
		next:    next,
		cache:   c,
		timeout: timeout,
		log:     log,
	}
}

func (c *Cached) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	slug := NormalizeCategory(category)
	return cached(ctx, c, "category:"+slug, func(ctx context.Context) ([]domain.Product, error) {
		return c.next.ProductsByCategory(ctx, slug)
	})
}

func (c *Cached) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return cached(ctx, c, "product:"+strconv.FormatInt(id, 10), func(ctx context.Context) (*domain.Product, error) {
		return c.next.Product(ctx, id)
	})
}

func (c *Cached) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return cached(ctx, c, "search:"+query, func(ctx context.Context) ([]domain.Product, error) {
		return c.next.Search(ctx, query)
	})
}

func (c *Cached) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "categories", c.next.Categories)
}

func (c *Cached) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, c, "products:all", c.next.AllProducts)
}

func cached[T any](ctx context.Context, c *Cached, key string, load func(context.Context) (T, error)) (T, error) {
	// Concurrent misses for the same key share one upstream call. The call
	// outlives any single caller, so it runs on its own deadline.
	ch := c.sfg.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		data, err := c.cache.Get(ctx, key)
		if err == nil {
			var hit T
			if errU := json.Unmarshal(data, &hit); errU == nil {
				return hit, nil
			}
			c.log.Warn("discarding corrupt cache entry", zap.String("key", key))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("cache get error", zap.String("key", key), zap.Error(err))
		}

		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}

		go c.fill(key, fresh)
		return fresh, nil
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cached) fill(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error("cache marshal error", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
	defer cancel()
	if err := c.cache.Set(ctx, key, data); err != nil {
		c.log.Warn("cache set error", zap.String("key", key), zap.Error(err))
	}
}
