package api

import (
	"net/http"
	"sort"

	"github.com/spf13/cobra"
)

// Gate wraps a handler with the authentication an endpoint declares.
type Gate func(access Access, next http.HandlerFunc) http.HandlerFunc

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// Every handler that is not public is wrapped by gate.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, gate Gate) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if access := ep.Access(); access != AccessPublic && gate != nil {
			handler = gate(access, handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Grouped endpoints are nested under one parent command per group.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running freestyle server via HTTP.

These commands require a running server (freestyle serve).
Use --server to specify a custom server URL. Commands that need a
signed-in user read the session saved by 'freestyle api auth login'.

Examples:
  freestyle api health                        # Check server health
  freestyle api auth login -e me@example.com  # Sign in and save the session
  freestyle api prompts list --search waves   # Search approved prompts
  freestyle api admin stats                   # Show the stats snapshot`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		g, ok := ep.(Grouped)
		if !ok || g.Group() == "" {
			apiCmd.AddCommand(cmd)
			continue
		}
		parent, exists := groups[g.Group()]
		if !exists {
			parent = &cobra.Command{
				Use:   g.Group(),
				Short: groupShort(g.Group()),
			}
			groups[g.Group()] = parent
		}
		parent.AddCommand(cmd)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		apiCmd.AddCommand(groups[name])
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}

func groupShort(group string) string {
	switch group {
	case "auth":
		return "Register, sign in and manage the saved session"
	case "prompts":
		return "Browse, submit and moderate prompts"
	case "favorites":
		return "Manage your favorite prompts"
	case "admin":
		return "Admin views: stats, users, all prompts"
	case "advice":
		return "Ask for practice advice and drills"
	default:
		return group + " commands"
	}
}
