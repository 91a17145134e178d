// Package screen holds the per-screen controllers. Each controller owns one
// observable state record, reduces intent events into transitions of that
// record and talks to the repositories for persistence.
package screen

import (
	"context"
	"sync"
)

// Validation messages surfaced by the editors.
const (
	MsgInvalidBankName = "Please enter a valid name"
	MsgInvalidQuestion = "Please ensure all fields are filled correctly"
)

// State is an observable value. Subscribers always see the latest value;
// intermediate values may be skipped when a subscriber falls behind.
type State[T any] struct {
	mu       sync.RWMutex
	value    T
	nextID   int
	watchers map[int]chan T
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value:    initial,
		watchers: make(map[int]chan T),
	}
}

func (s *State[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *State[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(value)
}

// Update applies fn to the current value and publishes the result.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := fn(s.value)
	s.setLocked(value)
	return value
}

func (s *State[T]) setLocked(value T) {
	s.value = value
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
}

// Subscribe returns a channel primed with the current value that receives
// every later value. The returned func stops delivery.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.value
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

// Await blocks until the state holds a value accepted by ready and returns it.
func (s *State[T]) Await(ctx context.Context, ready func(T) bool) (T, error) {
	ch, cancel := s.Subscribe()
	defer cancel()

	for {
		select {
		case value := <-ch:
			if ready(value) {
				return value, nil
			}
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
