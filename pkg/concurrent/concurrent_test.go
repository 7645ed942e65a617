package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	got, err := Map(context.Background(), items, 2, func(_ context.Context, v int) (int, error) {
		return v * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 40, 20, 30}, got)
}

func TestMapEmpty(t *testing.T) {
	got, err := Map(context.Background(), nil, 0, func(context.Context, int) (int, error) {
		t.Fatal("not called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMapRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	items := make([]int, 32)
	_, err := Map(context.Background(), items, 3, func(context.Context, int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return 0, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestMapReturnsError(t *testing.T) {
	boom := errors.New("boom")
	got, err := Map(context.Background(), []int{1, 2, 3}, 0, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEach(ctx, []int{1, 2}, 1, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
