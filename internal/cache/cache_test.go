package cache

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadOnce(t *testing.T) {
	c := New[*[]int]()
	calls := 0
	load := func(key string) (*[]int, error) {
		calls++
		return &[]int{calls}, nil
	}

	first, hit, err := c.GetOrLoad("heads.h5", load)
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := c.GetOrLoad("heads.h5", load)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestEquivalentPathsShareEntry(t *testing.T) {
	dir := t.TempDir()
	c := New[string]()
	var keys []string
	load := func(key string) (string, error) {
		keys = append(keys, key)
		return key, nil
	}

	_, _, err := c.GetOrLoad(filepath.Join(dir, "a", "..", "heads.h5"), load)
	require.NoError(t, err)
	_, hit, err := c.GetOrLoad(filepath.Join(dir, "heads.h5"), load)
	require.NoError(t, err)

	assert.True(t, hit)
	assert.Equal(t, []string{filepath.Join(dir, "heads.h5")}, keys)
	assert.True(t, c.Contains(filepath.Join(dir, ".", "heads.h5")))
}

func TestFailedLoadNotStored(t *testing.T) {
	c := New[int]()
	boom := errors.New("boom")
	_, _, err := c.GetOrLoad("x", func(string) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("x"))
	assert.Zero(t, c.Len())

	v, hit, err := c.GetOrLoad("x", func(string) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestConcurrentLoadsOfOneKey(t *testing.T) {
	c := New[int]()
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(string) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const workers = 16
	var wg sync.WaitGroup
	var misses atomic.Int32
	results := make([]int, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, hit, err := c.GetOrLoad("shared.h5", load)
			assert.NoError(t, err)
			results[i] = v
			if !hit {
				misses.Add(1)
			}
		}()
	}
	// Let the goroutines pile up on the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 1, misses.Load(), "only the loading call is a miss")
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFillFindsEntryStoredByEarlierLoad(t *testing.T) {
	c := New[int]()
	_, _, err := c.GetOrLoad("heads.h5", func(string) (int, error) { return 5, nil })
	require.NoError(t, err)

	key, err := Key("heads.h5")
	require.NoError(t, err)
	v, hit, err := c.fill(key, func(string) (int, error) {
		t.Fatal("load called for a stored entry")
		return 0, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 5, v)
}

func TestDifferentKeysLoadInParallel(t *testing.T) {
	c := New[string]()
	started := make(chan string, 2)
	release := make(chan struct{})
	load := func(key string) (string, error) {
		started <- key
		<-release
		return key, nil
	}

	var wg sync.WaitGroup
	for _, f := range []string{"a.h5", "b.h5"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.GetOrLoad(f, load)
			assert.NoError(t, err)
		}()
	}
	// Both loads must be running at once before either is released.
	for range 2 {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("loads of different keys were serialized")
		}
	}
	close(release)
	wg.Wait()
	assert.Equal(t, 2, c.Len())
}
