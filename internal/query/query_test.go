package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/journeyboard/internal/store"
)

var _ Cache = (*store.RedisStore)(nil)
var _ Cache = (*MemoryCache)(nil)

var errBoom = errors.New("boom")

func newCounting(t *testing.T, cache Cache, opts Options, fail int) (*Query[string], *int32) {
	t.Helper()
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	var calls int32
	q := New("test", cache, func(_ context.Context, key string) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) <= fail {
			return "", errBoom
		}
		return "value-" + key, nil
	}, opts, zerolog.Nop())
	return q, &calls
}

func TestFreshHitSkipsFetch(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute}, 0)
	ctx := context.Background()

	first := q.Get(ctx, "a")
	require.NoError(t, first.Err)
	assert.Equal(t, "value-a", first.Data)

	second := q.Get(ctx, "a")
	require.NoError(t, second.Err)
	assert.Equal(t, "value-a", second.Data)
	assert.Equal(t, first.FetchedAt.Unix(), second.FetchedAt.Unix())
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	q.Get(ctx, "b")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestStaleEntryRefetches(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Now()
	cache.now = func() time.Time { return now }

	q, calls := newCounting(t, cache, Options{StaleTime: 5 * time.Minute}, 0)
	ctx := context.Background()

	q.Get(ctx, "a")
	now = now.Add(4 * time.Minute)
	q.Get(ctx, "a")
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	now = now.Add(2 * time.Minute)
	q.Get(ctx, "a")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls int32

	q := New("test", nil, func(_ context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		once.Do(func() { close(started) })
		<-release
		return "v", nil
	}, Options{StaleTime: time.Minute}, zerolog.Nop())

	ctx := context.Background()
	var wg sync.WaitGroup
	results := make([]Result[string], 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = q.Get(ctx, "k")
		}(i)
	}

	<-started
	assert.True(t, q.State(ctx, "k").IsLoading)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, "v", r.Data)
	}
	assert.False(t, q.State(ctx, "k").IsLoading)
}

func TestRetryThenSucceed(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute, Retry: 1}, 1)

	res := q.Get(context.Background(), "a")
	require.NoError(t, res.Err)
	assert.Equal(t, "value-a", res.Data)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestRetryExhaustedSurfacesError(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute, Retry: 3}, 100)
	ctx := context.Background()

	res := q.Get(ctx, "a")
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, errBoom)
	assert.Contains(t, res.Err.Error(), "test:a")
	assert.EqualValues(t, 4, atomic.LoadInt32(calls))

	st := q.State(ctx, "a")
	assert.False(t, st.HasData)
	assert.False(t, st.IsLoading)
	assert.Contains(t, st.Error, "boom")
}

func TestFailuresAreNotCached(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute}, 1)
	ctx := context.Background()

	assert.Error(t, q.Get(ctx, "a").Err)
	res := q.Get(ctx, "a")
	require.NoError(t, res.Err)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.Empty(t, q.State(ctx, "a").Error)
}

func TestInvalidate(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute}, 0)
	ctx := context.Background()

	q.Get(ctx, "a")
	require.NoError(t, q.Invalidate(ctx, "a"))
	assert.False(t, q.State(ctx, "a").HasData)
	q.Get(ctx, "a")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestCancelledCallerSkipsFetch(t *testing.T) {
	q, calls := newCounting(t, nil, Options{StaleTime: time.Minute}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := q.Get(ctx, "a")
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestTimeoutStopsRetries(t *testing.T) {
	var calls int32
	q := New("test", nil, func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errBoom
	}, Options{Retry: 5, RetryDelay: time.Hour, Timeout: 50 * time.Millisecond}, zerolog.Nop())

	res := q.Get(context.Background(), "a")
	assert.ErrorIs(t, res.Err, errBoom)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSlowFetchBoundedByTimeout(t *testing.T) {
	q := New("test", nil, func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, Options{Retry: 1, RetryDelay: time.Millisecond, Timeout: 50 * time.Millisecond}, zerolog.Nop())

	start := time.Now()
	res := q.Get(context.Background(), "a")
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLeavingCallerDoesNotCancelSharedFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls, aborted int32

	q := New("test", nil, func(ctx context.Context, key string) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return "value-" + key, nil
		case <-ctx.Done():
			atomic.AddInt32(&aborted, 1)
			return "", ctx.Err()
		}
	}, Options{StaleTime: time.Minute}, zerolog.Nop())

	ctxA, cancelA := context.WithCancel(context.Background())
	first := make(chan Result[string], 1)
	go func() { first <- q.Get(ctxA, "k") }()
	<-started

	second := make(chan Result[string], 1)
	go func() { second <- q.Get(context.Background(), "k") }()

	cancelA()
	a := <-first
	assert.ErrorIs(t, a.Err, context.Canceled)

	close(release)
	b := <-second
	require.NoError(t, b.Err)
	assert.Equal(t, "value-k", b.Data)
	assert.EqualValues(t, 0, atomic.LoadInt32(&aborted))

	n := atomic.LoadInt32(&calls)
	cached := q.Get(context.Background(), "k")
	require.NoError(t, cached.Err)
	assert.Equal(t, "value-k", cached.Data)
	assert.Equal(t, n, atomic.LoadInt32(&calls))
}

func TestKey(t *testing.T) {
	q := New[string]("journey", nil, nil, Options{}, zerolog.Nop())
	assert.Equal(t, "journey:abc", q.Key("abc"))
	assert.Equal(t, "journey", q.Key(""))
}

func TestMemoryCacheZeroTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	c.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
}
