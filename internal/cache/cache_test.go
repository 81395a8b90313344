package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFO_EvictsOldestInserted(t *testing.T) {
	c := NewFIFO[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Reading "a" does not protect it: eviction follows insertion order only.
	_, _ = c.Get("a")
	c.Set("d", 4)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	assert.Equal(t, []string{"b", "c", "d"}, c.Keys())
	assert.Equal(t, 3, c.Len())

	c.Set("e", 5)
	assert.Equal(t, []string{"c", "d", "e"}, c.Keys())
}

func TestFIFO_ExistingKeyKeepsFirstValueAndPosition(t *testing.T) {
	c := NewFIFO[int, string](2)
	c.Set(1, "one")
	c.Set(2, "two")
	c.Set(1, "uno")

	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 2, c.Len())

	c.Set(3, "three")
	_, ok = c.Get(1)
	assert.False(t, ok, "re-setting a key does not move it to the back")
	assert.Equal(t, []int{2, 3}, c.Keys())
}

func TestFIFO_ReadsDoNotRefreshEntries(t *testing.T) {
	c := NewFIFO[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	for i := 0; i < 3; i++ {
		_, _ = c.Get("a")
	}
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, c.Keys())
}

func TestFIFO_BoundedUnderChurn(t *testing.T) {
	c := NewFIFO[int, int](100)
	for i := 0; i < 1000; i++ {
		c.Set(i, i)
		assert.LessOrEqual(t, c.Len(), 100)
	}
	keys := c.Keys()
	assert.Len(t, keys, 100)
	assert.Equal(t, 900, keys[0])
	assert.Equal(t, 999, keys[99])
}

func TestFIFO_Clear(t *testing.T) {
	c := NewFIFO[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("c", 3)
	assert.Equal(t, []string{"c"}, c.Keys())
}

func TestFIFO_ZeroCapacity(t *testing.T) {
	c := NewFIFO[string, int](0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
	c.Clear()

	assert.Equal(t, 0, NewFIFO[string, int](-5).Len())
}

func TestFIFO_Concurrent(t *testing.T) {
	c := NewFIFO[string, int](50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d-%d", g, i%60)
				c.Set(key, i)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
	assert.Len(t, c.Keys(), c.Len())
}

func TestMemo(t *testing.T) {
	var m Memo[[]string]

	_, ok := m.Get()
	assert.False(t, ok)

	calls := 0
	compute := func() []string {
		calls++
		return []string{"acme"}
	}
	assert.Equal(t, []string{"acme"}, m.GetOrCompute(compute))
	assert.Equal(t, []string{"acme"}, m.GetOrCompute(compute))
	assert.Equal(t, 1, calls)

	m.Clear()
	_, ok = m.Get()
	assert.False(t, ok)
	m.GetOrCompute(compute)
	assert.Equal(t, 2, calls)
}
