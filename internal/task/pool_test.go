package task

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinWorkers_WaitsForAllTasksDone(t *testing.T) {
	p := New(4)
	defer p.Close()

	var completed atomic.Int32
	var handles []*Handle
	for i := 0; i < 20; i++ {
		h := p.Submit("t", nil, func(ctx context.Context, deps []*Handle) (any, error) {
			time.Sleep(time.Millisecond)
			completed.Add(1)
			return nil, nil
		})
		handles = append(handles, h)
	}

	p.JoinWorkers()

	require.Equal(t, int32(20), completed.Load())
	for _, h := range handles {
		require.Equal(t, Done, h.State())
	}
}

func TestChain_DependentStartsAfterUpstreamDone(t *testing.T) {
	p := New(4)
	defer p.Close()

	var order []string
	var mu sync.Mutex

	a := p.Submit("a", nil, func(ctx context.Context, deps []*Handle) (any, error) {
		time.Sleep(15 * time.Millisecond)
		mu.Lock()
		order = append(order, "a")
		mu.Unlock()
		return nil, nil
	})
	p.Submit("b", []*Handle{a}, func(ctx context.Context, deps []*Handle) (any, error) {
		mu.Lock()
		order = append(order, "b")
		mu.Unlock()
		return nil, nil
	})

	p.JoinWorkers()

	require.Equal(t, []string{"a", "b"}, order)
}

func TestSetIsRunning_DefersPickupUntilResume(t *testing.T) {
	p := New(2)
	defer p.Close()

	p.SetIsRunning(false)

	var started atomic.Bool
	p.Submit("deferred", nil, func(ctx context.Context, deps []*Handle) (any, error) {
		started.Store(true)
		return nil, nil
	})

	time.Sleep(20 * time.Millisecond)
	require.False(t, started.Load(), "workers must not pick up tasks while paused")

	p.SetIsRunning(true)
	p.JoinWorkers()
	require.True(t, started.Load())
}

func TestPendingList_RescannedOnCompletion(t *testing.T) {
	p := New(1)
	defer p.Close()

	// Pickups are paused so root cannot complete before dependent is
	// submitted; dependent is therefore parked in the pending list and
	// only promoted by the rescan after root completes.
	p.SetIsRunning(false)
	root := p.Submit("root", nil, func(ctx context.Context, deps []*Handle) (any, error) {
		return nil, nil
	})
	dependent := p.Submit("dependent", []*Handle{root}, func(ctx context.Context, deps []*Handle) (any, error) {
		return "ran", nil
	})
	require.Equal(t, Pending, dependent.State())
	p.SetIsRunning(true)

	v, err := AwaitTyped[string](context.Background(), dependent)
	require.NoError(t, err)
	require.Equal(t, "ran", v)
}
