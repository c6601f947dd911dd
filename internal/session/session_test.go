package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/me/folio/pkg/model"
)

func TestFileStorage_RoundTripAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a := NewFileStorage(dir)
	if err := a.Set(KeyToken, "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b := NewFileStorage(dir)
	got, ok, err := b.Get(KeyToken)
	if err != nil || !ok || got != "tok-1" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}

	info, err := os.Stat(filepath.Join(dir, StateFileName))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("state file mode = %o, want 600", perm)
	}

	if err := b.Delete(KeyToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := a.Get(KeyToken); ok {
		t.Error("token still present after Delete")
	}
}

func TestFileStorage_MissingFile(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nested"))
	if _, ok, err := s.Get("x"); ok || err != nil {
		t.Fatalf("Get on missing file = %v, %v", ok, err)
	}
	if err := s.Delete("x"); err != nil {
		t.Fatalf("Delete on missing file: %v", err)
	}
}

func TestFileStorage_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StateFileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStorage(dir).Get(KeyToken); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestManager_Session(t *testing.T) {
	m := NewManager(NewMemoryStorage(), nil)

	if s := m.Snapshot(); s.IsAuthenticated || s.Token != "" || s.User != nil {
		t.Fatalf("fresh session = %+v", s)
	}

	if err := m.SetToken("abc"); err != nil {
		t.Fatal(err)
	}
	m.SetUser(&model.User{ID: "u1", Email: "a@b.c", Role: model.RoleAdmin})

	s := m.Snapshot()
	if !s.IsAuthenticated || s.Token != "abc" || s.User == nil || s.User.ID != "u1" {
		t.Fatalf("after login = %+v", s)
	}

	if err := m.ClearToken(); err != nil {
		t.Fatal(err)
	}
	if s := m.Snapshot(); s.IsAuthenticated || s.User != nil {
		t.Fatalf("after clear = %+v", s)
	}
}

func TestManager_Theme(t *testing.T) {
	store := NewMemoryStorage()
	m := NewManager(store, nil)

	if got := m.Theme(); got != model.ThemeLight {
		t.Errorf("default theme = %q", got)
	}
	if err := m.SetTheme(model.ThemeDark); err != nil {
		t.Fatal(err)
	}
	if got := m.Theme(); got != model.ThemeDark {
		t.Errorf("theme = %q, want dark", got)
	}

	_ = store.Set(KeyTheme, "neon")
	if got := m.Theme(); got != model.ThemeLight {
		t.Errorf("invalid stored theme = %q, want light", got)
	}
}
