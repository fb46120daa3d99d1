package syncmap

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_GetOrCompute(t *testing.T) {
	m := New[string, int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 10, nil
	}
	v, err := m.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	v, err = m.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Len())
}

func TestMap_GetOrCompute_ErrorNotStored(t *testing.T) {
	m := New[string, int]()
	failure := errors.New("boom")
	_, err := m.GetOrCompute("a", func() (int, error) { return 0, failure })
	assert.ErrorIs(t, err, failure)
	_, ok := m.Get("a")
	assert.False(t, ok)

	v, err := m.GetOrCompute("a", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestMap_PutIfAbsent(t *testing.T) {
	m := New[int, string]()
	assert.Equal(t, "first", m.PutIfAbsent(1, "first"))
	assert.Equal(t, "first", m.PutIfAbsent(1, "second"))
}

func TestMap_GetOrCompute_Concurrent(t *testing.T) {
	m := New[string, *int]()
	var calls int32
	var wg sync.WaitGroup
	results := make([]*int, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.GetOrCompute("k", func() (*int, error) {
				atomic.AddInt32(&calls, 1)
				n := i
				return &n, nil
			})
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
