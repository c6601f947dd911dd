package resource

import (
	"context"
	"sync"
)

// SingletonState is a snapshot of a Singleton.
type SingletonState[T any] struct {
	Data       *T
	LoadStatus Status
	SaveStatus Status
	LoadError  string
	SaveError  string
}

// Singleton holds one editable record, such as the site profile, with
// independent load and save tracking.
type Singleton[T any] struct {
	fetch func(ctx context.Context) (T, error)
	save  func(ctx context.Context, data T) (T, error)
	opts  options
	hub   hub[SingletonState[T]]

	mu   sync.Mutex
	load slot
	sv   slot
	data *T
}

// NewSingleton creates a Singleton. save may be nil for read-only use.
func NewSingleton[T any](fetch func(ctx context.Context) (T, error), save func(ctx context.Context, data T) (T, error), opts ...Option) *Singleton[T] {
	return &Singleton[T]{
		fetch: fetch,
		save:  save,
		opts:  buildOptions(opts),
		load:  newSlot(),
		sv:    newSlot(),
	}
}

// State returns a snapshot.
func (s *Singleton[T]) State() SingletonState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications.
func (s *Singleton[T]) Subscribe(fn func(SingletonState[T])) func() {
	return s.hub.subscribe(fn)
}

func (s *Singleton[T]) snapshotLocked() SingletonState[T] {
	st := SingletonState[T]{
		LoadStatus: s.load.status,
		SaveStatus: s.sv.status,
		LoadError:  s.load.err,
		SaveError:  s.sv.err,
	}
	if s.data != nil {
		d := *s.data
		st.Data = &d
	}
	return st
}

func (s *Singleton[T]) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	v := s.hub.stamp()
	s.mu.Unlock()
	s.hub.publish(v, snap)
}

// run drives one tracked call on sl. apply runs under the lock when the
// result may touch data.
func (s *Singleton[T]) run(ctx context.Context, kind Kind, sl *slot, call func(context.Context) error, apply func()) error {
	var seq uint64
	s.update(func() { seq = sl.begin() })

	err := call(ctx)

	ctxErr := ctx.Err()
	msg := ""
	if err != nil && ctxErr == nil {
		msg = s.opts.describe(kind, err)
	}
	s.update(func() {
		out := sl.settle(seq, ctxErr != nil, err != nil, msg)
		if err == nil && (out == superseded || out == final) {
			apply()
		}
	})
	if err == nil && ctxErr != nil {
		return ctxErr
	}
	return err
}

// Fetch loads the record.
func (s *Singleton[T]) Fetch(ctx context.Context) (T, error) {
	var got T
	err := s.run(ctx, KindDetail, &s.load, func(ctx context.Context) error {
		var err error
		got, err = s.fetch(ctx)
		return err
	}, func() { s.data = &got })
	return got, err
}

// Save stores data and keeps the canonical copy the server returns. On
// failure the held record is unchanged.
func (s *Singleton[T]) Save(ctx context.Context, data T) (T, error) {
	var got T
	err := s.run(ctx, KindSave, &s.sv, func(ctx context.Context) error {
		if s.save == nil {
			return ErrUnsupported
		}
		var err error
		got, err = s.save(ctx, data)
		return err
	}, func() { s.data = &got })
	return got, err
}

// Mutate performs a save-like call that patches the held record in place,
// such as a file upload that changes one field. patch is skipped when no
// record is held.
func (s *Singleton[T]) Mutate(ctx context.Context, call func(ctx context.Context) (patch func(*T), err error)) error {
	var patch func(*T)
	return s.run(ctx, KindSave, &s.sv, func(ctx context.Context) error {
		var err error
		patch, err = call(ctx)
		return err
	}, func() {
		if s.data != nil && patch != nil {
			patch(s.data)
		}
	})
}

// ClearMessages resets both errors.
func (s *Singleton[T]) ClearMessages() {
	s.update(func() {
		s.load.err = ""
		s.sv.err = ""
	})
}
