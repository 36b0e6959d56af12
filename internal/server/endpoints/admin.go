package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/store"
)

// StatsEndpoint handles GET /api/admin/stats.
type StatsEndpoint struct{}

func (e *StatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/admin/stats", e.handler
}

func (e *StatsEndpoint) Access() api.Access { return api.AccessAdmin }

func (e *StatsEndpoint) Group() string { return "admin" }

// handler godoc
//
//	@Summary		Stats snapshot
//	@Description	Totals over approved prompts and all users, computed on first read
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	store.StatSnapshot
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/api/admin/stats [get]
func (e *StatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	snap, err := c.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (e *StatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the stats snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var snap store.StatSnapshot
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, "/api/admin/stats", &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}

// ListUsersEndpoint handles GET /api/admin/users.
type ListUsersEndpoint struct{}

func (e *ListUsersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/admin/users", e.handler
}

func (e *ListUsersEndpoint) Access() api.Access { return api.AccessAdmin }

func (e *ListUsersEndpoint) Group() string { return "admin" }

// handler godoc
//
//	@Summary		List users
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		store.User
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/api/admin/users [get]
func (e *ListUsersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	users, err := c.Users(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (e *ListUsersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var users []store.User
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, "/api/admin/users", &users); err != nil {
				return err
			}
			return api.Output(users)
		},
	}
}

// AllPromptsEndpoint handles GET /api/admin/prompts/all.
type AllPromptsEndpoint struct{}

func (e *AllPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/admin/prompts/all", e.handler
}

func (e *AllPromptsEndpoint) Access() api.Access { return api.AccessAdmin }

func (e *AllPromptsEndpoint) Group() string { return "admin" }

// handler godoc
//
//	@Summary		List every prompt
//	@Description	All statuses, newest first
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		store.Prompt
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/api/admin/prompts/all [get]
func (e *AllPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	prompts, err := c.AllPrompts(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (e *AllPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List every prompt regardless of status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var prompts []store.Prompt
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, "/api/admin/prompts/all", &prompts); err != nil {
				return err
			}
			return api.Output(prompts)
		},
	}
}
