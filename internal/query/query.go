// Package query implements cached, deduplicated fetches of backend data with
// stale times and retries.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/eldtechnologies/journeyboard/internal/metrics"
)

const (
	defaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second

	// DefaultTimeout bounds one shared load, retries included.
	DefaultTimeout = 40 * time.Second
)

// Options configures a Query.
type Options struct {
	// StaleTime is how long a fetched result is served from cache.
	StaleTime time.Duration
	// Retry is the number of retries after the first failed attempt.
	Retry int
	// RetryDelay is the base delay, doubled on every retry.
	RetryDelay time.Duration
	// Timeout bounds a load across all attempts. Defaults to DefaultTimeout.
	Timeout time.Duration
}

func (o Options) retries() int {
	if o.Retry < 0 {
		return 0
	}
	return o.Retry
}

// Result is the outcome of a Get.
type Result[T any] struct {
	Data      T
	Err       error
	Stale     bool
	FetchedAt time.Time
}

// State mirrors the loading state of a key.
type State[T any] struct {
	Data      T      `json:"data"`
	HasData   bool   `json:"-"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// FetchFunc loads the value for a key suffix.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

type envelope[T any] struct {
	FetchedAt time.Time `json:"fetched_at"`
	Data      T         `json:"data"`
}

// Query caches the results of a fetch function per key.
type Query[T any] struct {
	name   string
	cache  Cache
	fetch  FetchFunc[T]
	opts   Options
	logger zerolog.Logger
	group  singleflight.Group

	mu      sync.Mutex
	loading map[string]int
	errs    map[string]error
}

// New creates a query named name. Keys passed to Get are prefixed with it.
func New[T any](name string, cache Cache, fetch FetchFunc[T], opts Options, logger zerolog.Logger) *Query[T] {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Query[T]{
		name:    name,
		cache:   cache,
		fetch:   fetch,
		opts:    opts,
		logger:  logger.With().Str("query", name).Logger(),
		loading: make(map[string]int),
		errs:    make(map[string]error),
	}
}

// Key returns the cache key for a key suffix.
func (q *Query[T]) Key(key string) string {
	if key == "" {
		return q.name
	}
	return q.name + ":" + key
}

// Get returns the cached value for key or fetches it. Concurrent calls for
// the same key share one fetch. The shared fetch is detached from ctx: a
// caller whose ctx ends stops waiting, the fetch runs on for the others and
// still fills the cache.
func (q *Query[T]) Get(ctx context.Context, key string) Result[T] {
	full := q.Key(key)

	if env, ok := q.lookup(ctx, full); ok {
		metrics.CacheLookups.WithLabelValues(q.name, "hit").Inc()
		return Result[T]{Data: env.Data, FetchedAt: env.FetchedAt}
	}
	metrics.CacheLookups.WithLabelValues(q.name, "miss").Inc()

	if err := ctx.Err(); err != nil {
		return Result[T]{Err: fmt.Errorf("%s: %w", full, err)}
	}

	ch := q.group.DoChan(full, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.opts.Timeout)
		defer cancel()
		return q.load(loadCtx, full, key)
	})

	select {
	case <-ctx.Done():
		q.logger.Debug().Str("key", full).Msg("caller left before fetch finished")
		return Result[T]{Err: fmt.Errorf("%s: %w", full, ctx.Err())}
	case res := <-ch:
		if res.Shared {
			q.logger.Debug().Str("key", full).Msg("shared in-flight fetch")
		}
		if res.Err != nil {
			return Result[T]{Err: res.Err}
		}
		env := res.Val.(envelope[T])
		return Result[T]{Data: env.Data, FetchedAt: env.FetchedAt}
	}
}

func (q *Query[T]) lookup(ctx context.Context, full string) (envelope[T], bool) {
	var env envelope[T]
	raw, ok, err := q.cache.Get(ctx, full)
	if err != nil {
		q.logger.Warn().Err(err).Str("key", full).Msg("cache read failed")
		return env, false
	}
	if !ok {
		return env, false
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		q.logger.Warn().Err(err).Str("key", full).Msg("discarding undecodable cache entry")
		return env, false
	}
	return env, true
}

func (q *Query[T]) load(ctx context.Context, full, key string) (envelope[T], error) {
	q.setLoading(full, true)
	defer q.setLoading(full, false)

	data, err := q.fetchWithRetry(ctx, key)
	if err != nil {
		metrics.FetchFailures.WithLabelValues(q.name).Inc()
		q.setErr(full, err)
		return envelope[T]{}, err
	}
	q.setErr(full, nil)

	env := envelope[T]{FetchedAt: time.Now().UTC(), Data: data}
	if raw, err := json.Marshal(env); err != nil {
		q.logger.Warn().Err(err).Str("key", full).Msg("cannot encode result for cache")
	} else if err := q.cache.Set(ctx, full, raw, q.opts.StaleTime); err != nil {
		q.logger.Warn().Err(err).Str("key", full).Msg("cache write failed")
	}
	return env, nil
}

func (q *Query[T]) fetchWithRetry(ctx context.Context, key string) (T, error) {
	policy := &backoff.ExponentialBackOff{
		InitialInterval: q.opts.RetryDelay,
		Multiplier:      2,
		MaxInterval:     maxRetryDelay,
	}

	attempt := 0
	data, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		return q.fetch(ctx, key)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(q.opts.retries()+1)),
		backoff.WithMaxElapsedTime(q.opts.Timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			q.logger.Warn().
				Err(err).
				Str("key", key).
				Int("attempt", attempt).
				Dur("retry_in", next).
				Msg("fetch failed")
		}),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", q.Key(key), err)
	}
	return data, nil
}

// State reports the cached data, whether a fetch is in flight and the last
// fetch error for key.
func (q *Query[T]) State(ctx context.Context, key string) State[T] {
	full := q.Key(key)
	var st State[T]
	if env, ok := q.lookup(ctx, full); ok {
		st.Data = env.Data
		st.HasData = true
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	st.IsLoading = q.loading[full] > 0
	if err := q.errs[full]; err != nil {
		st.Error = err.Error()
	}
	return st
}

// Invalidate drops the cached value and error for key.
func (q *Query[T]) Invalidate(ctx context.Context, key string) error {
	full := q.Key(key)
	q.setErr(full, nil)
	return q.cache.Delete(ctx, full)
}

func (q *Query[T]) setLoading(full string, on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if on {
		q.loading[full]++
		return
	}
	q.loading[full]--
	if q.loading[full] <= 0 {
		delete(q.loading, full)
	}
}

func (q *Query[T]) setErr(full string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err == nil {
		delete(q.errs, full)
		return
	}
	q.errs[full] = err
}
