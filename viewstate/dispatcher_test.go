package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsInOrder(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, d.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	require.NoError(t, d.Stop(context.Background()))
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestDispatcherNestedPost(t *testing.T) {
	d := newTestDispatcher(t)
	done := make(chan struct{})

	require.NoError(t, d.Post(func() {
		require.NoError(t, d.Post(func() { close(done) }))
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested post did not run")
	}
}

func TestDispatcherSurvivesPanic(t *testing.T) {
	d := newTestDispatcher(t)
	done := make(chan struct{})

	require.NoError(t, d.Post(func() { panic("boom") }))
	require.NoError(t, d.Post(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher stopped after panic")
	}
}

func TestDispatcherStopped(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	require.NoError(t, d.Stop(context.Background()))
	assert.ErrorIs(t, d.Post(func() {}), ErrDispatcherStopped)
}

func TestObservable(t *testing.T) {
	o := NewObservable(0)
	ch, cancel := o.Subscribe()

	assert.Equal(t, 0, <-ch, "current value is delivered on subscribe")

	o.Update(func(v *int) { *v = 1 })
	o.Update(func(v *int) { *v = 2 })
	assert.Equal(t, 2, <-ch, "slow subscribers see the latest value")
	assert.Equal(t, 2, o.Get())

	cancel()
	_, open := <-ch
	assert.False(t, open)

	cancel()
	o.Update(func(v *int) { *v = 3 })
	assert.Equal(t, 3, o.Get())
}

func TestTracker(t *testing.T) {
	tr := newTracker()
	require.NoError(t, tr.wait(context.Background()))

	tr.add()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.wait(ctx), context.DeadlineExceeded)

	tr.done()
	require.NoError(t, tr.wait(context.Background()))

	// re-arm after idle
	tr.add()
	go tr.done()
	require.NoError(t, tr.wait(context.Background()))
}
