package resource

import (
	"context"
	"sync"
)

// AggregateState is a snapshot of an Aggregate.
type AggregateState[T any] struct {
	Data   *T
	Status Status
	Error  string
}

// Aggregate is a read-only record fetched as a whole, such as dashboard
// counters. It follows the list rules of Engine: newest issued fetch
// wins, failures keep the previous data.
type Aggregate[T any] struct {
	fetch func(ctx context.Context) (T, error)
	opts  options
	hub   hub[AggregateState[T]]

	mu   sync.Mutex
	slot slot
	data *T
}

// NewAggregate creates an Aggregate backed by fetch.
func NewAggregate[T any](fetch func(ctx context.Context) (T, error), opts ...Option) *Aggregate[T] {
	return &Aggregate[T]{fetch: fetch, opts: buildOptions(opts), slot: newSlot()}
}

// State returns a snapshot.
func (a *Aggregate[T]) State() AggregateState[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe registers fn for change notifications.
func (a *Aggregate[T]) Subscribe(fn func(AggregateState[T])) func() {
	return a.hub.subscribe(fn)
}

func (a *Aggregate[T]) snapshotLocked() AggregateState[T] {
	s := AggregateState[T]{Status: a.slot.status, Error: a.slot.err}
	if a.data != nil {
		d := *a.data
		s.Data = &d
	}
	return s
}

func (a *Aggregate[T]) update(fn func()) {
	a.mu.Lock()
	fn()
	snap := a.snapshotLocked()
	v := a.hub.stamp()
	a.mu.Unlock()
	a.hub.publish(v, snap)
}

// Fetch reloads the record.
func (a *Aggregate[T]) Fetch(ctx context.Context) (T, error) {
	var seq uint64
	a.update(func() { seq = a.slot.begin() })

	data, err := a.fetch(ctx)

	ctxErr := ctx.Err()
	msg := ""
	if err != nil && ctxErr == nil {
		msg = a.opts.describe(KindList, err)
	}
	a.update(func() {
		out := a.slot.settle(seq, ctxErr != nil, err != nil, msg)
		if err == nil && (out == superseded || out == final) {
			a.data = &data
		}
	})
	if err == nil && ctxErr != nil {
		return data, ctxErr
	}
	return data, err
}

// ClearMessages resets the error.
func (a *Aggregate[T]) ClearMessages() {
	a.update(func() { a.slot.err = "" })
}
