package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{
			name:     "endpoint only",
			key:      Key{Endpoint: "/user"},
			expected: "/user",
		},
		{
			name: "params are sorted",
			key: Key{Endpoint: "/exams", Params: map[string]string{
				"offset": "20",
				"limit":  "10",
			}},
			expected: "/exams?limit=10&offset=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.String())
		})
	}
}

func TestFetchCoalescesConcurrentCalls(t *testing.T) {
	var calls atomic.Int64
	cache := New(RequesterFunc(func(_ context.Context, _ Key) (any, error) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		return "payload", nil
	}))

	key := Key{Endpoint: "/exams"}
	var wg sync.WaitGroup
	results := make([]any, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err := cache.Fetch(context.Background(), key)
			require.NoError(t, err)
			results[i] = val
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, val := range results {
		assert.Equal(t, "payload", val)
	}
}

func TestFetchRecordsErrorOnEntry(t *testing.T) {
	fetchErr := errors.New("network unreachable")
	cache := New(RequesterFunc(func(_ context.Context, _ Key) (any, error) {
		return nil, fetchErr
	}))

	key := Key{Endpoint: "/exams"}
	_, err := cache.Fetch(context.Background(), key)
	require.ErrorIs(t, err, fetchErr)

	entry, ok := cache.Lookup(key)
	require.True(t, ok)
	assert.ErrorIs(t, entry.Err, fetchErr)
	assert.Nil(t, entry.Data)
}

func TestPutAndInvalidate(t *testing.T) {
	cache := New(RequesterFunc(func(_ context.Context, _ Key) (any, error) {
		return nil, errors.New("must not be called")
	}))

	key := Key{Endpoint: "/user"}
	cache.Put(key, "session")

	entry, ok := cache.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "session", entry.Data)
	assert.False(t, entry.UpdatedAt.IsZero())

	cache.Invalidate(key)
	_, ok = cache.Lookup(key)
	assert.False(t, ok)
}

func TestInvalidateSuppressesInflightWrite(t *testing.T) {
	release := make(chan struct{})
	cache := New(RequesterFunc(func(_ context.Context, _ Key) (any, error) {
		<-release
		return "stale", nil
	}))

	key := Key{Endpoint: "/exams"}
	done := make(chan struct{})
	go func() {
		defer close(done)
		val, err := cache.Fetch(context.Background(), key)
		assert.NoError(t, err)
		assert.Equal(t, "stale", val)
	}()

	time.Sleep(50 * time.Millisecond)
	cache.Invalidate(key)
	close(release)
	<-done

	_, ok := cache.Lookup(key)
	assert.False(t, ok, "superseded fetch must not resurrect the entry")
}
