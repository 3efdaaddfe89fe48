package viewstate

import "sync"

// Observable holds a single state value and notifies subscribers whenever it
// changes. Subscribers always see the latest value; intermediate values may
// be skipped if a subscriber falls behind.
//
// Slices inside T are treated as immutable: Update callbacks must assign new
// slices rather than modify existing ones, since Get hands out shallow copies.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[int]chan T
	nextID int
}

// NewObservable creates an observable holding initial
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

// Get returns the current value
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Update applies fn to the value and publishes the result
func (o *Observable[T]) Update(fn func(*T)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	fn(&o.value)
	for _, ch := range o.subs {
		publish(ch, o.value)
	}
}

// Subscribe returns a channel that receives the current value immediately and
// every later value. Call cancel to stop receiving; the channel is then closed.
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan T, 1)
	ch <- o.value
	o.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			close(ch)
			o.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish replaces any undelivered value with v
func publish[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
