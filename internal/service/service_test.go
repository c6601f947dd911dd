package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/folio/internal/apiclient"
	"github.com/me/folio/internal/config"
	"github.com/me/folio/internal/resource"
	"github.com/me/folio/internal/server"
	"github.com/me/folio/internal/session"
	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

type testEnv struct {
	store     *store.SQLiteStore
	client    *apiclient.Client
	session   *session.Manager
	redirects *atomic.Int32
}

// startTestServer runs the dev server over an in-memory store and returns a
// client pointed at it.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultServerConfig()
	cfg.JWTSecret = "service-test"
	cfg.AdminEmail = adminEmail
	cfg.AdminPassword = adminPassword
	cfg.UploadDir = t.TempDir()
	srv := server.New(cfg, st, logger)
	if err := srv.SeedAdmin(context.Background()); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{store: st, redirects: &atomic.Int32{}}
	env.session = session.NewManager(session.NewMemoryStorage(), logger)
	env.client = apiclient.New(
		apiclient.Config{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second},
		env.session,
		apiclient.WithNavigator(apiclient.NavigatorFunc(func() { env.redirects.Add(1) })),
	)
	return env
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()
	if _, err := NewAuth(env.client, env.session).Login(context.Background(), model.Credentials{Email: adminEmail, Password: adminPassword}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func seedPosts(t *testing.T, st *store.SQLiteStore, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		p := &model.BlogPost{
			ID: fmt.Sprintf("post-%02d", i), Title: fmt.Sprintf("Post %d", i), Slug: fmt.Sprintf("post-%d", i),
			Content: "Body of the post", Categories: []string{"Notes"}, Tags: []string{"go"},
			Status: model.StatusPublished, PublishedAt: &at, CreatedAt: at, UpdatedAt: at,
		}
		if err := st.CreatePost(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
}

func projectInput(title string) model.ProjectInput {
	return model.ProjectInput{
		Title: title, Description: "Longer text", ShortSummary: "Short",
		Technologies: []string{"Go"}, Role: "Author", Challenges: "Scope",
		Status: model.StatusPublished,
	}
}

func TestLogin(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	auth := NewAuth(env.client, env.session)

	_, err := auth.Login(ctx, model.Credentials{Email: adminEmail, Password: "wrong"})
	if !apiclient.IsUnauthorized(err) {
		t.Fatalf("bad login err = %v", err)
	}
	if env.redirects.Load() != 0 {
		t.Error("failed login must not redirect")
	}

	u, err := auth.Login(ctx, model.Credentials{Email: adminEmail, Password: adminPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	snap := env.session.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != u.ID {
		t.Errorf("session = %+v", snap)
	}

	if _, err := DashboardStats(ctx, env.client); err != nil {
		t.Errorf("admin call after login: %v", err)
	}

	if err := auth.Logout(); err != nil {
		t.Fatal(err)
	}
	if env.session.Snapshot().IsAuthenticated {
		t.Error("still authenticated after logout")
	}
}

func TestFilterEncoding(t *testing.T) {
	featured := false
	v, err := values(model.ProjectFilter{Page: 2, Limit: 5, Featured: &featured, SortOrder: model.SortAsc})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Encode(); got != "featured=false&limit=5&page=2&sortOrder=asc" {
		t.Errorf("encoded = %q", got)
	}

	v, _ = values(model.BlogFilter{Tag: "go lang"})
	if got := v.Encode(); got != "tag=go+lang" {
		t.Errorf("encoded = %q", got)
	}
}

func TestBlogPaginationThroughEngine(t *testing.T) {
	env := startTestServer(t)
	env.login(t)
	seedPosts(t, env.store, 25)
	ctx := context.Background()

	eng := resource.New(AdminBlog(env.client))
	if err := eng.FetchList(ctx, model.BlogFilter{Page: 1, Limit: 10}); err != nil {
		t.Fatal(err)
	}
	st := eng.State()
	if st.Pagination == nil || st.Pagination.TotalPages != 3 || len(st.List) != 10 {
		t.Fatalf("page 1 state = %+v", st.Pagination)
	}
	first := st.List[0].ID

	if err := eng.FetchList(ctx, model.BlogFilter{Page: 2, Limit: 10}); err != nil {
		t.Fatal(err)
	}
	st = eng.State()
	if st.Pagination.Page != 2 || len(st.List) != 10 {
		t.Fatalf("page 2 = %+v, len %d", st.Pagination, len(st.List))
	}
	if _, ok := st.Find(first); ok {
		t.Error("page 2 still holds page 1 items")
	}
}

func TestCreateConflictMessage(t *testing.T) {
	env := startTestServer(t)
	env.login(t)
	ctx := context.Background()

	eng := resource.New(AdminProjects(env.client))
	if _, err := eng.Create(ctx, projectInput("Duplicate Me")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if len(eng.State().List) != 0 {
		t.Error("create must not insert into the list")
	}

	_, err := eng.Create(ctx, projectInput("Duplicate Me"))
	if err == nil {
		t.Fatal("expected conflict")
	}
	st := eng.State()
	if st.SaveStatus != resource.StatusFailed || st.SaveError != "Title already exists" {
		t.Errorf("save = %s %q", st.SaveStatus, st.SaveError)
	}
}

func TestProjectLifecycleThroughEngine(t *testing.T) {
	env := startTestServer(t)
	env.login(t)
	ctx := context.Background()

	eng := resource.New(AdminProjects(env.client))
	created, err := eng.Create(ctx, projectInput("Engine Project"))
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.FetchList(ctx, model.ProjectFilter{}); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.FetchDetail(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	in := created.Input()
	in.ShortSummary = "Changed"
	if _, err := eng.Update(ctx, created.ID, in); err != nil {
		t.Fatal(err)
	}
	st := eng.State()
	if st.Detail == nil || st.Detail.ShortSummary != "Changed" || st.List[0].ShortSummary != "Changed" {
		t.Errorf("after update detail=%+v list=%+v", st.Detail, st.List)
	}

	// Public side sees the published project by slug.
	pub, err := GetPublicProject(ctx, env.client, "engine-project")
	if err != nil || pub.ID != created.ID {
		t.Errorf("public get = %+v, %v", pub, err)
	}

	if err := eng.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	st = eng.State()
	if len(st.List) != 0 || st.Detail != nil || st.Pagination.Total != 0 || !st.LastDeleteSucceeded {
		t.Errorf("after delete = %+v", st)
	}

	_, err = GetProject(ctx, env.client, created.ID)
	if !apiclient.IsNotFound(err) {
		t.Errorf("get deleted err = %v", err)
	}
}

func TestUnauthorizedEndsSessionOnce(t *testing.T) {
	env := startTestServer(t)
	if err := env.client.SetToken("not-a-jwt"); err != nil {
		t.Fatal(err)
	}

	eng := resource.New(AdminProjects(env.client))
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.FetchList(context.Background(), model.ProjectFilter{})
		}()
	}
	wg.Wait()

	if n := env.redirects.Load(); n != 1 {
		t.Errorf("redirects = %d, want 1", n)
	}
	if env.session.Token() != "" {
		t.Error("token not cleared")
	}
	st := eng.State()
	if st.ListStatus != resource.StatusFailed || st.ListError != "" {
		t.Errorf("list = %s %q", st.ListStatus, st.ListError)
	}
}

func TestContactThroughEngine(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()

	if _, err := SendContact(ctx, env.client, model.ContactMessage{Name: "Eve", Email: "eve@example.com", Message: "Short"}); err == nil ||
		apiclient.Message(err) != "Message must be at least 10 characters long." {
		t.Fatalf("invalid contact err = %v", err)
	}
	receipt, err := SendContact(ctx, env.client, model.ContactMessage{Name: "Eve", Email: "eve@example.com", Message: "A proper message"})
	if err != nil {
		t.Fatal(err)
	}

	env.login(t)
	eng := resource.New(AdminContact(env.client))
	unread := false
	if err := eng.FetchList(ctx, model.ContactFilter{IsRead: &unread}); err != nil {
		t.Fatal(err)
	}
	if len(eng.State().List) != 1 {
		t.Fatalf("unread list = %+v", eng.State().List)
	}

	if _, err := eng.Update(ctx, receipt.Submission.ID, model.ContactStatusUpdate{IsRead: true}); err != nil {
		t.Fatal(err)
	}
	if got := eng.State().List[0]; !got.IsRead {
		t.Error("list item not replaced with the read submission")
	}

	if _, err := eng.Create(ctx, model.ContactStatusUpdate{}); err == nil {
		t.Error("create should be unsupported")
	}
	if got := eng.State().SaveError; got != "This operation is not available." {
		t.Errorf("unsupported message = %q", got)
	}
}

func TestProfileAndResume(t *testing.T) {
	env := startTestServer(t)
	env.login(t)
	ctx := context.Background()

	prof := NewProfile(env.client)
	if _, err := prof.Fetch(ctx); !apiclient.IsNotFound(err) {
		t.Fatalf("fetch empty profile err = %v", err)
	}
	if got := prof.State().LoadError; got != "Profile not found." {
		t.Errorf("load error = %q", got)
	}

	saved, err := prof.Save(ctx, model.Profile{Name: "Ada", Title: "Engineer", ContactEmail: "ada@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.Name != "Ada" {
		t.Errorf("saved = %+v", saved)
	}

	res, err := UploadResumeInto(ctx, env.client, prof, "cv.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	st := prof.State()
	if st.Data == nil || st.Data.ResumeURL != res.ResumeURL || st.SaveStatus != resource.StatusSucceeded {
		t.Errorf("profile after upload = %+v", st)
	}

	pub, err := GetProfile(ctx, env.client)
	if err != nil || pub.ResumeURL != res.ResumeURL {
		t.Errorf("public profile = %+v, %v", pub, err)
	}
}

func TestDashboardAggregate(t *testing.T) {
	env := startTestServer(t)
	env.login(t)
	seedPosts(t, env.store, 3)
	ctx := context.Background()

	dash := NewDashboard(env.client)
	stats, err := dash.Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPublishedPosts != 3 || dash.State().Status != resource.StatusSucceeded {
		t.Errorf("stats = %+v state = %+v", stats, dash.State())
	}
}

// silentCaller fails every call with an error that carries no text.
type silentCaller struct{}

func (silentCaller) Do(context.Context, apiclient.Request, any) error { return errors.New("") }

func (silentCaller) Upload(context.Context, string, string, string, io.Reader, any) error {
	return errors.New("")
}

func TestDashboardFallbackMessage(t *testing.T) {
	dash := NewDashboard(silentCaller{})
	if _, err := dash.Fetch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := dash.State()
	if st.Status != resource.StatusFailed || st.Error != "Failed to load dashboard statistics." {
		t.Errorf("state = %+v", st)
	}
}

func TestPublicBlog(t *testing.T) {
	env := startTestServer(t)
	seedPosts(t, env.store, 4)
	ctx := context.Background()

	page, err := ListPublicPosts(ctx, env.client, model.BlogFilter{Limit: 2, SortBy: "title", SortOrder: model.SortAsc})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 4 || page.TotalPages != 2 || page.Data[0].Title != "Post 1" {
		t.Errorf("page = %+v", page)
	}

	tags, err := ListTags(ctx, env.client)
	if err != nil || len(tags) != 1 {
		t.Errorf("tags = %v, %v", tags, err)
	}
	cats, err := ListCategories(ctx, env.client)
	if err != nil || len(cats) != 1 || cats[0] != "Notes" {
		t.Errorf("categories = %v, %v", cats, err)
	}

	post, err := GetPublicPost(ctx, env.client, "post-2")
	if err != nil || post.ID != "post-02" {
		t.Errorf("post = %+v, %v", post, err)
	}
	if _, err := GetPublicPost(ctx, env.client, "nope"); !apiclient.IsNotFound(err) {
		t.Errorf("missing post err = %v", err)
	}
}
