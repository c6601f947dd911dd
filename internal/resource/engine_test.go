package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/pkg/model"
)

type widget struct {
	ID   string
	Name string
}

func (w widget) ItemID() string { return w.ID }

type widgetEngine = Engine[widget, int, widget]

func newWidgets(svc Funcs[widget, int, widget], opts ...Option) *widgetEngine {
	return New[widget, int, widget](svc, opts...)
}

// pageOf returns page p of a 25-item collection with 10 items per page.
func pageOf(p int) *model.Page[widget] {
	const total, limit = 25, 10
	var items []widget
	for i := (p-1)*limit + 1; i <= min(p*limit, total); i++ {
		items = append(items, widget{ID: fmt.Sprintf("w%d", i), Name: fmt.Sprintf("Widget %d", i)})
	}
	return model.NewPage(items, total, model.ListOptions{Page: p, Limit: limit})
}

// gatedLists returns a ListFunc that announces each call on started and
// blocks until the page's gate is closed.
func gatedLists(gates map[int]chan struct{}, started chan<- int) func(context.Context, int) (*model.Page[widget], error) {
	return func(ctx context.Context, p int) (*model.Page[widget], error) {
		started <- p
		<-gates[p]
		return pageOf(p), nil
	}
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not finish")
		return nil
	}
}

func TestFetchList_ReplacesPage(t *testing.T) {
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) { return pageOf(p), nil },
	})

	if err := e.FetchList(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	s := e.State()
	if len(s.List) != 10 || s.Pagination.TotalPages != 3 || s.Pagination.Total != 25 {
		t.Fatalf("page 1 = %d items, %+v", len(s.List), s.Pagination)
	}
	if s.ListStatus != StatusSucceeded {
		t.Errorf("ListStatus = %s", s.ListStatus)
	}

	if err := e.FetchList(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	s = e.State()
	if s.List[0].ID != "w11" || s.Pagination.Page != 2 || s.ListStatus != StatusSucceeded {
		t.Errorf("page 2 not applied: first=%s pagination=%+v", s.List[0].ID, s.Pagination)
	}

	if err := e.FetchList(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if s := e.State(); len(s.List) != 5 || len(s.List) > s.Pagination.Limit {
		t.Errorf("last page has %d items", len(s.List))
	}
}

func TestFetchList_LaterIssuedWins(t *testing.T) {
	for _, releaseOlderFirst := range []bool{true, false} {
		t.Run(fmt.Sprintf("olderFirst=%v", releaseOlderFirst), func(t *testing.T) {
			gates := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
			started := make(chan int, 2)
			e := newWidgets(Funcs[widget, int, widget]{ListFunc: gatedLists(gates, started)})

			done := map[int]chan error{1: make(chan error, 1), 2: make(chan error, 1)}
			for _, p := range []int{1, 2} {
				go func() { done[p] <- e.FetchList(context.Background(), p) }()
				<-started
			}

			first, second := 2, 1
			if releaseOlderFirst {
				first, second = 1, 2
			}

			close(gates[first])
			waitDone(t, done[first])
			mid := e.State()
			if releaseOlderFirst {
				if mid.ListStatus != StatusPending {
					t.Errorf("status after older result = %s, want pending", mid.ListStatus)
				}
			} else if mid.ListStatus != StatusSucceeded || mid.Pagination.Page != 2 {
				t.Errorf("newer result not applied: %s %+v", mid.ListStatus, mid.Pagination)
			}

			close(gates[second])
			waitDone(t, done[second])

			s := e.State()
			if s.Pagination.Page != 2 || s.List[0].ID != "w11" {
				t.Errorf("final page = %d first=%s, want page 2", s.Pagination.Page, s.List[0].ID)
			}
			if s.ListStatus != StatusSucceeded {
				t.Errorf("ListStatus = %s", s.ListStatus)
			}
		})
	}
}

func TestFetchList_FailureKeepsStaleData(t *testing.T) {
	fail := false
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			if fail {
				return nil, &apiclient.Error{Kind: apiclient.KindServer, Status: 500, Message: apiclient.MsgServer}
			}
			return pageOf(p), nil
		},
	})
	_ = e.FetchList(context.Background(), 1)
	fail = true
	if err := e.FetchList(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}
	s := e.State()
	if s.ListStatus != StatusFailed || s.ListError != apiclient.MsgServer {
		t.Errorf("status = %s error = %q", s.ListStatus, s.ListError)
	}
	if len(s.List) != 10 || s.Pagination.Page != 1 {
		t.Errorf("stale page not kept: %d items page %d", len(s.List), s.Pagination.Page)
	}
}

func TestFetchList_CanceledResultIgnored(t *testing.T) {
	gates := map[int]chan struct{}{1: make(chan struct{})}
	started := make(chan int, 1)
	e := newWidgets(Funcs[widget, int, widget]{ListFunc: gatedLists(gates, started)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.FetchList(ctx, 1) }()
	<-started
	cancel()
	close(gates[1])

	if err := waitDone(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	s := e.State()
	if s.List != nil || s.Pagination != nil {
		t.Error("canceled result mutated data")
	}
	if s.ListStatus != StatusIdle {
		t.Errorf("ListStatus = %s, want idle", s.ListStatus)
	}
}

func TestUnauthorized_ShortCircuitsMessage(t *testing.T) {
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			return nil, &apiclient.Error{Kind: apiclient.KindUnauthorized, Status: http.StatusUnauthorized, Message: "expired"}
		},
	})
	_ = e.FetchList(context.Background(), 1)
	s := e.State()
	if s.ListStatus != StatusFailed || s.ListError != "" {
		t.Errorf("status = %s error = %q", s.ListStatus, s.ListError)
	}
}

func TestFetchDetail_SwitchingAndRefreshing(t *testing.T) {
	gate := make(chan struct{})
	var failNext atomic.Bool
	e := newWidgets(Funcs[widget, int, widget]{
		GetFunc: func(ctx context.Context, id string) (widget, error) {
			<-gate
			if failNext.Load() {
				return widget{}, &apiclient.Error{Kind: apiclient.KindClient, Status: 404, Message: "Not found"}
			}
			return widget{ID: id, Name: "v2"}, nil
		},
	})
	e.SetDetail(&widget{ID: "a", Name: "v1"})

	// Refreshing the same id keeps the old copy while pending and after failure.
	failNext.Store(true)
	done := make(chan error, 1)
	go func() { _, err := e.FetchDetail(context.Background(), "a"); done <- err }()
	waitFor(t, func() bool { return e.State().DetailStatus == StatusPending })
	if d := e.State().Detail; d == nil || d.Name != "v1" {
		t.Errorf("refresh hid detail: %+v", d)
	}
	gate <- struct{}{}
	waitDone(t, done)
	if d := e.State().Detail; d == nil || d.Name != "v1" {
		t.Errorf("failed refresh changed detail: %+v", d)
	}
	if e.State().DetailError != "Not found" {
		t.Errorf("DetailError = %q", e.State().DetailError)
	}

	// Switching to another id clears the detail immediately.
	failNext.Store(false)
	go func() { _, err := e.FetchDetail(context.Background(), "b"); done <- err }()
	waitFor(t, func() bool { return e.State().DetailStatus == StatusPending })
	if s := e.State(); s.Detail != nil || s.DetailError != "" {
		t.Errorf("switch kept stale detail %+v or error %q", s.Detail, s.DetailError)
	}
	gate <- struct{}{}
	waitDone(t, done)
	if d := e.State().Detail; d == nil || d.ID != "b" {
		t.Errorf("detail = %+v, want b", d)
	}
}

func TestFetchDetail_OlderTargetNeverShown(t *testing.T) {
	gates := map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})}
	started := make(chan string, 2)
	e := newWidgets(Funcs[widget, int, widget]{
		GetFunc: func(ctx context.Context, id string) (widget, error) {
			started <- id
			<-gates[id]
			return widget{ID: id}, nil
		},
	})

	done := make(chan error, 2)
	go func() { _, err := e.FetchDetail(context.Background(), "a"); done <- err }()
	<-started
	go func() { _, err := e.FetchDetail(context.Background(), "b"); done <- err }()
	<-started

	close(gates["a"])
	waitDone(t, done)
	if d := e.State().Detail; d != nil {
		t.Errorf("detail = %+v while b pending", d)
	}
	close(gates["b"])
	waitDone(t, done)
	if d := e.State().Detail; d == nil || d.ID != "b" {
		t.Errorf("detail = %+v, want b", d)
	}
}

func TestSave(t *testing.T) {
	list := []widget{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	var saveErr error
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			return model.NewPage(list, len(list), model.ListOptions{Page: 1, Limit: 10}), nil
		},
		CreateFunc: func(ctx context.Context, w widget) (widget, error) {
			if saveErr != nil {
				return widget{}, saveErr
			}
			w.ID = "new"
			return w, nil
		},
		UpdateFunc: func(ctx context.Context, id string, w widget) (widget, error) {
			if saveErr != nil {
				return widget{}, saveErr
			}
			w.ID = id
			return w, nil
		},
	})
	ctx := context.Background()
	_ = e.FetchList(ctx, 1)

	t.Run("update replaces in place", func(t *testing.T) {
		if _, err := e.Update(ctx, "b", widget{Name: "B2"}); err != nil {
			t.Fatal(err)
		}
		s := e.State()
		if s.List[1].Name != "B2" || s.List[0].ID != "a" || s.List[2].ID != "c" {
			t.Errorf("list = %+v", s.List)
		}
		if s.Detail == nil || s.Detail.Name != "B2" || s.SaveStatus != StatusSucceeded {
			t.Errorf("detail = %+v status = %s", s.Detail, s.SaveStatus)
		}
	})

	t.Run("create does not insert", func(t *testing.T) {
		if _, err := e.Create(ctx, widget{Name: "N"}); err != nil {
			t.Fatal(err)
		}
		s := e.State()
		if len(s.List) != 3 {
			t.Errorf("list grew to %d", len(s.List))
		}
		if s.Detail == nil || s.Detail.ID != "new" {
			t.Errorf("detail = %+v", s.Detail)
		}
	})

	t.Run("failure leaves detail", func(t *testing.T) {
		before := e.State().Detail
		saveErr = &apiclient.Error{Kind: apiclient.KindClient, Status: 400, Message: "Title already exists"}
		if _, err := e.Create(ctx, widget{Name: "X"}); err == nil {
			t.Fatal("expected error")
		}
		s := e.State()
		if s.SaveStatus != StatusFailed || s.SaveError != "Title already exists" {
			t.Errorf("status = %s error = %q", s.SaveStatus, s.SaveError)
		}
		if s.Detail == nil || *s.Detail != *before {
			t.Errorf("detail changed: %+v -> %+v", before, s.Detail)
		}
		if s.List[1].Name != "B2" {
			t.Errorf("list changed: %+v", s.List)
		}
	})
}

func TestSave_OlderResultDoesNotOverwriteNewer(t *testing.T) {
	gates := map[string]chan struct{}{"old": make(chan struct{}), "new": make(chan struct{})}
	started := make(chan string, 2)
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			return model.NewPage([]widget{{ID: "a", Name: "orig"}}, 1, model.ListOptions{}), nil
		},
		UpdateFunc: func(ctx context.Context, id string, w widget) (widget, error) {
			started <- w.Name
			<-gates[w.Name]
			w.ID = id
			return w, nil
		},
	})
	ctx := context.Background()
	_ = e.FetchList(ctx, 1)

	done := make(chan error, 2)
	for _, name := range []string{"old", "new"} {
		go func() { _, err := e.Update(ctx, "a", widget{Name: name}); done <- err }()
		<-started
	}
	close(gates["new"])
	waitDone(t, done)
	close(gates["old"])
	waitDone(t, done)

	s := e.State()
	if s.List[0].Name != "new" || s.Detail.Name != "new" {
		t.Errorf("list=%+v detail=%+v, want new", s.List, s.Detail)
	}
}

func TestDelete(t *testing.T) {
	var deleteErr error
	items := []widget{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "c"}}
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			return model.NewPage(items, 4, model.ListOptions{Page: 1, Limit: 10}), nil
		},
		DeleteFunc: func(ctx context.Context, id string) error { return deleteErr },
	})
	ctx := context.Background()
	_ = e.FetchList(ctx, 1)

	e.SetDetail(&widget{ID: "a"})
	if err := e.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	s := e.State()
	if got := ids(s.List); got != "b,a,c" {
		t.Errorf("list = %s, want b,a,c", got)
	}
	if s.Pagination.Total != 3 || s.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v", s.Pagination)
	}
	if s.Detail != nil {
		t.Error("detail not cleared")
	}
	if !s.LastDeleteSucceeded || s.DeleteStatus != StatusSucceeded {
		t.Errorf("flag = %v status = %s", s.LastDeleteSucceeded, s.DeleteStatus)
	}

	e.SetDetail(&widget{ID: "c"})
	if err := e.Delete(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if s := e.State(); s.Detail == nil || s.Detail.ID != "c" {
		t.Errorf("unrelated detail cleared: %+v", s.Detail)
	}

	deleteErr = &apiclient.Error{Kind: apiclient.KindClient, Status: 404, Message: "Project not found"}
	before := e.State()
	if err := e.Delete(ctx, "c"); err == nil {
		t.Fatal("expected error")
	}
	s = e.State()
	if s.DeleteError != "Project not found" || s.LastDeleteSucceeded {
		t.Errorf("error = %q flag = %v", s.DeleteError, s.LastDeleteSucceeded)
	}
	if ids(s.List) != ids(before.List) || *s.Pagination != *before.Pagination || s.Detail == nil {
		t.Error("failed delete touched data")
	}
}

func TestClearMessages(t *testing.T) {
	boom := &apiclient.Error{Kind: apiclient.KindClient, Status: 400, Message: "bad"}
	e := newWidgets(Funcs[widget, int, widget]{
		GetFunc:    func(ctx context.Context, id string) (widget, error) { return widget{}, boom },
		CreateFunc: func(ctx context.Context, w widget) (widget, error) { return widget{}, boom },
		DeleteFunc: func(ctx context.Context, id string) error { return boom },
	})
	ctx := context.Background()
	_ = e.FetchList(ctx, 1) // ListFunc missing: ErrUnsupported
	_, _ = e.FetchDetail(ctx, "x")
	_, _ = e.Create(ctx, widget{})
	_ = e.Delete(ctx, "x")
	e.SetDetail(&widget{ID: "keep"})

	before := e.State()
	if before.ListError == "" || before.SaveError == "" || before.DeleteError == "" {
		t.Fatalf("setup: errors not set: %+v", before)
	}

	e.ClearMessages()
	s := e.State()
	for _, k := range []Kind{KindList, KindDetail, KindSave, KindDelete} {
		if s.Err(k) != "" {
			t.Errorf("%s error = %q", k, s.Err(k))
		}
		if s.Status(k) != before.Status(k) {
			t.Errorf("%s status changed %s -> %s", k, before.Status(k), s.Status(k))
		}
	}
	if s.LastDeleteSucceeded {
		t.Error("LastDeleteSucceeded not reset")
	}
	if s.Detail == nil || s.Detail.ID != "keep" {
		t.Errorf("detail touched: %+v", s.Detail)
	}
}

func TestMessages(t *testing.T) {
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) {
			return nil, errors.New("opaque")
		},
	}, WithMessageFunc(func(error) string { return "" }), WithFallbackMessage(KindList, "Failed to load projects."))
	_ = e.FetchList(context.Background(), 1)
	if got := e.State().ListError; got != "Failed to load projects." {
		t.Errorf("ListError = %q", got)
	}

	_ = e.Delete(context.Background(), "x")
	if got := e.State().DeleteError; got != "This operation is not available." {
		t.Errorf("DeleteError = %q", got)
	}
}

func TestSubscribe(t *testing.T) {
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) { return pageOf(p), nil },
	})
	var seen []Status
	unsubscribe := e.Subscribe(func(s State[widget]) { seen = append(seen, s.ListStatus) })
	_ = e.FetchList(context.Background(), 1)
	unsubscribe()
	_ = e.FetchList(context.Background(), 2)

	if len(seen) != 2 || seen[0] != StatusPending || seen[1] != StatusSucceeded {
		t.Errorf("notifications = %v", seen)
	}
}

func TestStateIsSnapshot(t *testing.T) {
	e := newWidgets(Funcs[widget, int, widget]{
		ListFunc: func(ctx context.Context, p int) (*model.Page[widget], error) { return pageOf(p), nil },
	})
	_ = e.FetchList(context.Background(), 1)
	s := e.State()
	s.List[0].Name = "mutated"
	s.Pagination.Total = 0
	fresh := e.State()
	if fresh.List[0].Name == "mutated" || fresh.Pagination.Total != 25 {
		t.Error("snapshot aliases engine state")
	}
	if _, ok := fresh.Find("w3"); !ok {
		t.Error("Find(w3) failed")
	}
}

func ids(ws []widget) string {
	s := ""
	for i, w := range ws {
		if i > 0 {
			s += ","
		}
		s += w.ID
	}
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}
