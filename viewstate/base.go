package viewstate

import (
	"context"

	"github.com/rs/zerolog"
)

// base carries what every controller shares: the UI dispatcher, the
// outstanding-work tracker and a context that bounds network calls.
type base struct {
	ui       *Dispatcher
	inflight *tracker
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func newBase(ui *Dispatcher, logger zerolog.Logger, component string) base {
	ctx, cancel := context.WithCancel(context.Background())
	return base{
		ui:       ui,
		inflight: newTracker(),
		logger:   logger.With().Str("component", component).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// post runs fn on the UI thread. The tracker entry taken before the call is
// released once fn has run.
func (b *base) post(fn func()) {
	if err := b.ui.Post(func() {
		defer b.inflight.done()
		fn()
	}); err != nil {
		b.inflight.done()
		b.logger.Debug().Err(err).Msg("Dropped UI work")
	}
}

// intent queues a presentation intent for the UI thread
func (b *base) intent(fn func()) {
	b.inflight.add()
	b.post(fn)
}

// Wait blocks until every queued intent has run and every network result it
// triggered has been applied
func (b *base) Wait(ctx context.Context) error {
	return b.inflight.wait(ctx)
}

// Close cancels in-flight network calls. Results that were already received
// are still applied.
func (b *base) Close() {
	b.cancel()
}

// fetch runs call off the UI thread and applies its result on the UI thread.
// Results are applied in arrival order; nothing is discarded as stale.
func fetch[T any](b *base, call func(context.Context) (T, error), apply func(T, error)) {
	b.inflight.add()
	go func() {
		v, err := call(b.ctx)
		b.post(func() { apply(v, err) })
	}()
}

// head returns at most n leading elements
func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
