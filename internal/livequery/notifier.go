// Package livequery turns one-shot queries into subscriptions that re-run
// whenever the tables they read from change.
package livequery

import (
	"context"
	"sync"
)

// Notifier carries table change notifications from writers to live queries.
type Notifier interface {
	Publish(ctx context.Context, tables ...string) error
	// Subscribe returns a channel that receives a table name after each change
	// to one of tables. Deliveries coalesce, a slow reader sees at least one
	// signal per burst. The returned func unsubscribes.
	Subscribe(tables ...string) (<-chan string, func())
}

type subscriber struct {
	tables map[string]struct{}
	ch     chan string
}

// Broker is the in-process Notifier.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

func (b *Broker) Publish(_ context.Context, tables ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		for _, table := range tables {
			if _, ok := sub.tables[table]; !ok {
				continue
			}
			select {
			case sub.ch <- table:
			default:
			}
			break
		}
	}
	return nil
}

func (b *Broker) Subscribe(tables ...string) (<-chan string, func()) {
	sub := &subscriber{
		tables: make(map[string]struct{}, len(tables)),
		ch:     make(chan string, 1),
	}
	for _, table := range tables {
		sub.tables[table] = struct{}{}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}
