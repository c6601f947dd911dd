package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingTokens struct {
	mu      sync.Mutex
	tok     string
	cleared int
}

func (s *countingTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func (s *countingTokens) SetToken(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = t
	return nil
}

func (s *countingTokens) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	s.cleared++
	return nil
}

func (s *countingTokens) clearedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenStore, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(DefaultConfig().WithBaseURL(ts.URL+"/api"), tokens, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, 200, map[string]any{"totalProjects": 3})
	}, &countingTokens{tok: "abc"})

	var out struct {
		TotalProjects int `json:"totalProjects"`
	}
	if err := c.Get(context.Background(), "/admin/dashboard/stats", url.Values{"page": {"2"}}, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/admin/dashboard/stats" || gotQuery != "page=2" {
		t.Errorf("path = %q query = %q", gotPath, gotQuery)
	}
	if out.TotalProjects != 3 {
		t.Errorf("decoded = %+v", out)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	if err := c.Get(context.Background(), "/profile", nil, nil); err != nil {
		t.Fatal(err)
	}
	if hadAuth {
		t.Error("Authorization header sent without a token")
	}
}

func TestDo_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind Kind
		wantMsg  string
	}{
		{"client with message", 400, map[string]string{"message": "Title already exists"}, KindClient, "Title already exists"},
		{"client without message", 404, nil, KindClient, "The requested resource was not found."},
		{"rate limited", 429, nil, KindClient, "Too many requests. Please wait a moment and try again."},
		{"server hides details", 500, map[string]string{"message": "pq: relation does not exist"}, KindServer, MsgServer},
		{"bad gateway", 502, nil, KindServer, MsgServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}, nil)

			err := c.Post(context.Background(), "/admin/blog", map[string]string{"title": "X"}, nil)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.Status != tt.status {
				t.Errorf("kind = %v status = %d", apiErr.Kind, apiErr.Status)
			}
			if Message(err) != tt.wantMsg {
				t.Errorf("Message = %q, want %q", Message(err), tt.wantMsg)
			}
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	c := New(DefaultConfig().WithBaseURL(base), nil)
	err := c.Get(context.Background(), "/projects", nil, nil)
	if !IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
	if Message(err) != MsgNetwork {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(ts.Close)

	c := New(DefaultConfig().WithBaseURL(ts.URL).WithTimeout(20*time.Millisecond), nil)
	err := c.Get(context.Background(), "/blog", nil, nil)
	if !IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/blog", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDo_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}, nil)
	var out map[string]any
	err := c.Get(context.Background(), "/profile", nil, &out)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindDecode {
		t.Fatalf("err = %v, want decode error", err)
	}
}

func TestUnauthorized_ClearsTokenOnce(t *testing.T) {
	tokens := &countingTokens{tok: "expired"}
	var redirects atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"message": "Token expired"})
	}, tokens, WithNavigator(NavigatorFunc(func() { redirects.Add(1) })))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Get(context.Background(), "/admin/projects", nil, nil)
			if !IsUnauthorized(err) {
				t.Errorf("err = %v, want unauthorized", err)
			}
		}()
	}
	wg.Wait()

	if n := redirects.Load(); n != 1 {
		t.Errorf("redirects = %d, want 1", n)
	}
	if n := tokens.clearedCount(); n != 1 {
		t.Errorf("token cleared %d times, want 1", n)
	}
	if tok := tokens.Token(); tok != "" {
		t.Errorf("token = %q after 401", tok)
	}

	// A new login re-arms the handling.
	if err := c.SetToken("fresh"); err != nil {
		t.Fatal(err)
	}
	_ = c.Get(context.Background(), "/admin/projects", nil, nil)
	if n := redirects.Load(); n != 2 {
		t.Errorf("redirects after re-login = %d, want 2", n)
	}
}

func TestUnauthorized_AnonymousRequestKeepsSession(t *testing.T) {
	tokens := &countingTokens{tok: "keep"}
	var redirects atomic.Int32
	var hadAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		writeJSON(w, 401, map[string]string{"message": "Invalid credentials"})
	}, tokens, WithNavigator(NavigatorFunc(func() { redirects.Add(1) })))

	err := c.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      map[string]string{"email": "a@b.c", "password": "nope"},
		Anonymous: true,
	}, nil)
	if Message(err) != "Invalid credentials" {
		t.Errorf("Message = %q", Message(err))
	}
	if hadAuth {
		t.Error("anonymous request carried a token")
	}
	if redirects.Load() != 0 || tokens.clearedCount() != 0 {
		t.Error("anonymous 401 ended the session")
	}
}

func TestUpload(t *testing.T) {
	var field, filename, content string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		f, hdr, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(400)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		field, filename, content = "resume", hdr.Filename, string(b)
		writeJSON(w, 200, map[string]string{"resumeUrl": "/uploads/cv.pdf"})
	}, &countingTokens{tok: "t"})

	var out struct {
		ResumeURL string `json:"resumeUrl"`
	}
	err := c.Upload(context.Background(), "/admin/profile/resume/upload", "resume", "/tmp/cv.pdf", strings.NewReader("%PDF-1.4"), &out)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if field != "resume" || filename != "cv.pdf" || content != "%PDF-1.4" {
		t.Errorf("server saw field=%q filename=%q content=%q", field, filename, content)
	}
	if out.ResumeURL != "/uploads/cv.pdf" {
		t.Errorf("ResumeURL = %q", out.ResumeURL)
	}
}
