package viewstate

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrDispatcherStopped is returned when work is posted to a stopped dispatcher
var ErrDispatcherStopped = errors.New("dispatcher is stopped")

// Dispatcher runs posted funcs one at a time, in the order they were posted,
// on a single goroutine. It plays the role of the UI thread: every controller
// state write happens inside a posted func.
type Dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
	logger  zerolog.Logger
}

// NewDispatcher starts a dispatcher goroutine
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "dispatcher").Logger(),
	}
	go d.run()
	return d
}

// run processes work until the dispatcher is stopped and the queue is empty
func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			stopped := d.stopped
			d.mu.Unlock()
			if stopped {
				return
			}
			<-d.wake
			continue
		}
		work := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.exec(work)
	}
}

func (d *Dispatcher) exec(work func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Msg("Recovered from panic in dispatched work")
		}
	}()
	work()
}

// Post queues work. It never blocks, so posted funcs may post further work.
func (d *Dispatcher) Post(work func()) error {
	if work == nil {
		return nil
	}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrDispatcherStopped
	}
	d.queue = append(d.queue, work)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Stop rejects new work and waits for queued work to drain
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
