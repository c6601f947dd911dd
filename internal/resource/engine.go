// Package resource implements the asynchronous state life cycle shared by
// every admin resource: list, detail, save and delete, each tracked with
// its own status and error, plus pagination.
//
// Operations may be called from any goroutine. Within one operation kind
// each call takes a sequence number when issued; a result older than the
// last applied one is discarded, and only the latest issued call settles
// the kind's status. Kinds are independent of each other.
package resource

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/me/folio/pkg/model"
)

// Engine owns the state of one resource type.
type Engine[T model.Item, F any, D any] struct {
	svc  Service[T, F, D]
	opts options
	hub  hub[State[T]]

	mu         sync.Mutex
	slots      [numKinds]slot
	list       []T
	pagination *model.Pagination
	detail     *T
	detailID   string // target of the detail view
	lastDelete bool

	// savedSeq is the save sequence last applied to each item, so an
	// older save never overwrites a newer one in the list.
	savedSeq map[string]uint64
}

// New creates an Engine over svc with idle state.
func New[T model.Item, F any, D any](svc Service[T, F, D], opts ...Option) *Engine[T, F, D] {
	e := &Engine[T, F, D]{
		svc:      svc,
		opts:     buildOptions(opts),
		savedSeq: make(map[string]uint64),
	}
	for k := range e.slots {
		e.slots[k] = newSlot()
	}
	return e
}

// State returns a snapshot of the current state.
func (e *Engine[T, F, D]) State() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it.
func (e *Engine[T, F, D]) Subscribe(fn func(State[T])) func() {
	return e.hub.subscribe(fn)
}

func (e *Engine[T, F, D]) snapshotLocked() State[T] {
	s := State[T]{
		List:                e.list,
		Detail:              e.detail,
		Pagination:          e.pagination,
		ListStatus:          e.slots[KindList].status,
		DetailStatus:        e.slots[KindDetail].status,
		SaveStatus:          e.slots[KindSave].status,
		DeleteStatus:        e.slots[KindDelete].status,
		ListError:           e.slots[KindList].err,
		DetailError:         e.slots[KindDetail].err,
		SaveError:           e.slots[KindSave].err,
		DeleteError:         e.slots[KindDelete].err,
		LastDeleteSucceeded: e.lastDelete,
	}
	return s.clone()
}

// update runs fn under the lock and publishes the result.
func (e *Engine[T, F, D]) update(fn func()) {
	e.mu.Lock()
	fn()
	snap := e.snapshotLocked()
	v := e.hub.stamp()
	e.mu.Unlock()
	e.hub.publish(v, snap)
}

func (e *Engine[T, F, D]) begin(kind Kind, prep func()) uint64 {
	var seq uint64
	e.update(func() {
		seq = e.slots[kind].begin()
		if prep != nil {
			prep()
		}
	})
	return seq
}

// finish settles request seq of kind and lets apply perform data effects.
// It returns err, or the context error when the result was dropped
// because ctx ended.
func (e *Engine[T, F, D]) finish(ctx context.Context, kind Kind, seq uint64, err error, apply func(outcome)) error {
	ctxErr := ctx.Err()
	msg := ""
	if err != nil && ctxErr == nil {
		msg = e.opts.describe(kind, err)
	}

	var out outcome
	e.update(func() {
		out = e.slots[kind].settle(seq, ctxErr != nil, err != nil, msg)
		if apply != nil {
			apply(out)
		}
	})

	level := slog.LevelDebug
	if err != nil && out == final {
		level = slog.LevelWarn
	}
	e.opts.logger.Log(ctx, level, "operation settled",
		"kind", kind, "seq", seq, "outcome", out, "error", err)

	if err == nil && ctxErr != nil {
		return ctxErr
	}
	return err
}

// FetchList replaces the list and pagination with the page matching
// filter. On failure the previous list stays visible.
func (e *Engine[T, F, D]) FetchList(ctx context.Context, filter F) error {
	seq := e.begin(KindList, nil)
	page, err := e.svc.List(ctx, filter)
	return e.finish(ctx, KindList, seq, err, func(out outcome) {
		if err != nil || out == canceled || out == stale {
			return
		}
		if page == nil {
			page = &model.Page[T]{}
		}
		e.list = slices.Clone(page.Data)
		p := page.Pagination()
		e.pagination = &p
	})
}

// FetchDetail loads the item with id into Detail. Switching to a
// different id clears the held detail at once; refreshing the same id
// keeps it visible until the new copy arrives.
func (e *Engine[T, F, D]) FetchDetail(ctx context.Context, id string) (T, error) {
	seq := e.begin(KindDetail, func() {
		if id != e.detailID {
			e.detail = nil
			e.detailID = id
		}
	})
	item, err := e.svc.Get(ctx, id)
	err = e.finish(ctx, KindDetail, seq, err, func(out outcome) {
		if err != nil || out == canceled || out == stale || id != e.detailID {
			return
		}
		e.detail = &item
	})
	return item, err
}

// Create posts data. On success the returned item becomes Detail; it is
// not inserted into the list, which the caller refetches when needed.
func (e *Engine[T, F, D]) Create(ctx context.Context, data D) (T, error) {
	seq := e.begin(KindSave, e.resetDeleteFlag)
	item, err := e.svc.Create(ctx, data)
	err = e.finish(ctx, KindSave, seq, err, e.applySaved(seq, item, err))
	return item, err
}

// Update puts data for id. On success the returned item becomes Detail
// and replaces its list entry in place.
func (e *Engine[T, F, D]) Update(ctx context.Context, id string, data D) (T, error) {
	seq := e.begin(KindSave, e.resetDeleteFlag)
	item, err := e.svc.Update(ctx, id, data)
	err = e.finish(ctx, KindSave, seq, err, e.applySaved(seq, item, err))
	return item, err
}

func (e *Engine[T, F, D]) resetDeleteFlag() {
	e.lastDelete = false
}

func (e *Engine[T, F, D]) applySaved(seq uint64, item T, err error) func(outcome) {
	return func(out outcome) {
		if err != nil || out == canceled {
			return
		}
		id := item.ItemID()
		if seq > e.savedSeq[id] {
			e.savedSeq[id] = seq
			if i := e.indexLocked(id); i >= 0 {
				e.list[i] = item
			}
		}
		if out == stale {
			return
		}
		e.detail = &item
		e.detailID = id
	}
}

// Delete removes id on the server. On success exactly one matching list
// entry is dropped, the total shrinks by one and Detail is cleared when
// it holds id.
func (e *Engine[T, F, D]) Delete(ctx context.Context, id string) error {
	seq := e.begin(KindDelete, e.resetDeleteFlag)
	err := e.svc.Delete(ctx, id)
	return e.finish(ctx, KindDelete, seq, err, func(out outcome) {
		if err != nil || out == canceled {
			return
		}
		if i := e.indexLocked(id); i >= 0 {
			e.list = slices.Delete(e.list, i, i+1)
		}
		if e.pagination != nil {
			e.pagination.RemoveOne()
		}
		if e.detail != nil && (*e.detail).ItemID() == id {
			e.detail = nil
			e.detailID = ""
		}
		delete(e.savedSeq, id)
		if out == final {
			e.lastDelete = true
		}
	})
}

// ClearMessages resets every error and LastDeleteSucceeded. Data and
// statuses are left alone.
func (e *Engine[T, F, D]) ClearMessages() {
	e.update(func() {
		for k := range e.slots {
			e.slots[k].err = ""
		}
		e.lastDelete = false
	})
}

// SetDetail puts item (or nothing, when nil) in the detail view without a
// request. An in-flight detail fetch for another id is then ignored.
func (e *Engine[T, F, D]) SetDetail(item *T) {
	e.update(func() {
		e.slots[KindDetail].err = ""
		if item == nil {
			e.detail = nil
			e.detailID = ""
			return
		}
		cp := *item
		e.detail = &cp
		e.detailID = cp.ItemID()
	})
}

func (e *Engine[T, F, D]) indexLocked(id string) int {
	return slices.IndexFunc(e.list, func(it T) bool { return it.ItemID() == id })
}
