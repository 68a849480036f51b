package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache() (*Cache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)}
	return New(WithClock(clk.Now)), clk
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []int{1, 2}, time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, v)
}

func TestCache_Expiry(t *testing.T) {
	c, clk := newTestCache()

	c.Set("k", "v", 100*time.Millisecond)
	clk.Advance(100 * time.Millisecond)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry is fresh up to and including its ttl")

	clk.Advance(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is removed on read")
}

func TestCache_DefaultTTL(t *testing.T) {
	c, clk := newTestCache()

	c.Set("k", "v", 0)
	clk.Advance(DefaultTTL)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_OverwriteResetsAge(t *testing.T) {
	c, clk := newTestCache()

	c.Set("k", 1, time.Minute)
	clk.Advance(50 * time.Second)
	c.Set("k", 2, time.Minute)
	clk.Advance(50 * time.Second)

	v, ok := Lookup[int](c, "k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.ClearAll()
	assert.Equal(t, 0, c.Len())
}

func TestLookup_TypeMismatchIsMiss(t *testing.T) {
	c, _ := newTestCache()
	c.Set("k", "text", time.Minute)

	_, ok := Lookup[int](c, "k")
	assert.False(t, ok)

	s, ok := Lookup[string](c, "k")
	assert.True(t, ok)
	assert.Equal(t, "text", s)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("shared", i, time.Minute)
			_, _ = c.Get("shared")
		}(i)
	}
	wg.Wait()

	_, ok := Lookup[int](c, "shared")
	assert.True(t, ok)
}

func TestTTLPolicy_ForMonth(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	p := DefaultPolicy

	assert.Equal(t, CurrentMonthTTL, p.ForMonth(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, CurrentMonthTTL, p.ForMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, PreviousMonthTTL, p.ForMonth(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, OlderMonthsTTL, p.ForMonth(time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), now))
}
