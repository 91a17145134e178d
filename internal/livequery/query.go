package livequery

import (
	"context"
	"sync"
)

type Result[T any] struct {
	Value T
	Err   error
}

// Subscription delivers query results on C until it is closed or the query
// fails. C is closed when the subscription ends.
type Subscription[T any] struct {
	C <-chan Result[T]

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops the subscription and waits for its goroutine to exit.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the subscription has stopped delivering.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Watch runs query immediately and again after every change to tables. A query
// error is delivered once and ends the subscription.
func Watch[T any](ctx context.Context, notifier Notifier, query func(ctx context.Context) (T, error), tables ...string) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Result[T])
	sub := &Subscription[T]{C: out, cancel: cancel, done: make(chan struct{})}

	// Subscribe before the first run so a write racing with it is not missed.
	changes, unsubscribe := notifier.Subscribe(tables...)

	go func() {
		defer close(sub.done)
		defer close(out)
		defer unsubscribe()

		for {
			value, err := query(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- Result[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}

			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

// Map transforms every batch emitted by src. Closing the returned subscription
// closes src.
func Map[S, T any](src *Subscription[S], fn func(S) T) *Subscription[T] {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Result[T])
	sub := &Subscription[T]{C: out, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(out)
		defer src.Close()

		for {
			select {
			case res, ok := <-src.C:
				if !ok {
					return
				}
				var mapped Result[T]
				if res.Err != nil {
					mapped.Err = res.Err
				} else {
					mapped.Value = fn(res.Value)
				}
				select {
				case out <- mapped:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}
