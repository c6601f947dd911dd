package resource

import "sync"

// hub fans snapshots out to subscribers. Snapshots carry the version
// stamped while the owner's lock was held; subscribers see versions in
// increasing order and an older snapshot that arrives after a newer one is
// dropped. Delivery happens on whichever goroutine is already draining the
// queue, so a callback may run on a goroutine other than the one that
// changed the state.
type hub[S any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(S)

	version  uint64
	queued   uint64
	pending  []S
	draining bool
}

func (h *hub[S]) subscribe(fn func(S)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(S))
	}
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// stamp returns the next snapshot version. Call it with the owner's lock
// held, right after taking the snapshot.
func (h *hub[S]) stamp() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.version++
	return h.version
}

func (h *hub[S]) publish(version uint64, s S) {
	h.mu.Lock()
	if version <= h.queued {
		h.mu.Unlock()
		return
	}
	h.queued = version
	h.pending = append(h.pending, s)
	if h.draining {
		h.mu.Unlock()
		return
	}
	h.draining = true
	for len(h.pending) > 0 {
		next := h.pending[0]
		h.pending = h.pending[1:]
		fns := make([]func(S), 0, len(h.subs))
		for _, fn := range h.subs {
			fns = append(fns, fn)
		}
		h.mu.Unlock()
		for _, fn := range fns {
			fn(next)
		}
		h.mu.Lock()
	}
	h.pending = nil
	h.draining = false
	h.mu.Unlock()
}
