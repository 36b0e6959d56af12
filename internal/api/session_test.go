package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	s, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession() on missing file error = %v", err)
	}
	if s.SignedIn() {
		t.Fatal("missing session file should not be signed in")
	}

	want := &Session{
		Server: "http://localhost:8080",
		Token:  "tok",
		User:   SessionUser{ID: "u1", Username: "alice", Email: "alice@example.com", IsAdmin: true},
	}
	if err := SaveSession(path, want); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}

	got, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if *got != *want {
		t.Errorf("LoadSession() = %+v, want %+v", got, want)
	}

	if err := ClearSession(path); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	if err := ClearSession(path); err != nil {
		t.Fatalf("ClearSession() twice error = %v", err)
	}
	got, err = LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession() after clear error = %v", err)
	}
	if got.SignedIn() {
		t.Error("cleared session should not be signed in")
	}
}

func TestSession_Context(t *testing.T) {
	ctx := context.Background()
	if SessionFrom(ctx) != nil {
		t.Fatal("expected nil session on bare context")
	}
	s := &Session{Token: "t"}
	ctx = WithSession(ctx, s, "/tmp/session.yaml")
	if SessionFrom(ctx) != s {
		t.Error("SessionFrom() did not return the attached session")
	}
	if SessionPathFrom(ctx) != "/tmp/session.yaml" {
		t.Errorf("SessionPathFrom() = %q", SessionPathFrom(ctx))
	}
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSession(path); err == nil {
		t.Fatal("expected parse error")
	}
}
