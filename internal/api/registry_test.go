package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

type fakeEndpoint struct {
	method, path, group, use string
	access                   Access
}

func (e *fakeEndpoint) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (e *fakeEndpoint) Access() Access { return e.access }

func (e *fakeEndpoint) Group() string { return e.group }

func (e *fakeEndpoint) Command(func() string) *cobra.Command {
	return &cobra.Command{Use: e.use}
}

func TestRegistry_RegisterRoutesAppliesGate(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEndpoint{method: "GET", path: "/open", access: AccessPublic, use: "open"})
	r.Register(&fakeEndpoint{method: "GET", path: "/admin", access: AccessAdmin, use: "admin"})

	var gated []Access
	mux := http.NewServeMux()
	r.RegisterRoutes(mux, func(access Access, next http.HandlerFunc) http.HandlerFunc {
		gated = append(gated, access)
		return func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}
	})

	if len(gated) != 1 || gated[0] != AccessAdmin {
		t.Fatalf("gate applied to %v, want only admin", gated)
	}

	for path, want := range map[string]int{"/open": http.StatusNoContent, "/admin": http.StatusForbidden} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != want {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestRegistry_BuildCommandsGroups(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEndpoint{method: "GET", path: "/health", use: "health"})
	r.Register(&fakeEndpoint{method: "GET", path: "/api/prompts", group: "prompts", use: "list"})
	r.Register(&fakeEndpoint{method: "POST", path: "/api/prompts", group: "prompts", use: "submit"})
	r.Register(&fakeEndpoint{method: "POST", path: "/api/auth/login", group: "auth", use: "login"})

	root := r.BuildCommands(func() string { return "http://localhost:8080" })

	for _, path := range [][]string{{"health"}, {"prompts", "list"}, {"prompts", "submit"}, {"auth", "login"}} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not found (err=%v)", path, err)
		}
	}
	if n := len(root.Commands()); n != 3 {
		t.Errorf("expected 3 top-level commands (health, auth, prompts), got %d", n)
	}
}

func TestAccessString(t *testing.T) {
	if AccessAdmin.String() != "admin" || Access(42).String() != "unknown" {
		t.Error("unexpected Access.String() values")
	}
}
