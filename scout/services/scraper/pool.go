package scraper

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// Pool hands out a fixed set of resources, one holder at a time each.
type Pool[T any] struct {
	items  chan T
	all    []T
	mu     sync.Mutex
	closed bool
}

func NewPool[T any](items []T) *Pool[T] {
	p := &Pool[T]{items: make(chan T, len(items)), all: items}
	for _, it := range items {
		p.items <- it
	}
	return p
}

// Acquire blocks until an item is free or ctx is done.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T
	select {
	case it, ok := <-p.items:
		if !ok {
			return zero, ErrClosed
		}
		return it, nil
	case <-ctx.Done():
		return zero, eris.Wrap(ctx.Err(), "waiting for free page")
	}
}

// Release returns an item taken with Acquire.
func (p *Pool[T]) Release(it T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.items <- it
}

func (p *Pool[T]) Size() int { return len(p.all) }

// Available reports how many items are idle.
func (p *Pool[T]) Available() int { return len(p.items) }

// Close stops handing out items and returns every item ever pooled so the
// caller can dispose of them.
func (p *Pool[T]) Close() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for len(p.items) > 0 {
		<-p.items
	}
	close(p.items)
	return p.all
}
