package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/catalog"
	"github.com/jackzampolin/freestyle/internal/store"
)

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) Access() api.Access { return api.AccessOptional }

func (e *ListPromptsEndpoint) Group() string { return "prompts" }

// handler godoc
//
//	@Summary		List prompts
//	@Description	Approved prompts by default. Other statuses require an admin token.
//	@Tags			prompts
//	@Produce		json
//	@Param			search	query		string	false	"Case-insensitive match on label or description"
//	@Param			status	query		string	false	"pending, approved or rejected"
//	@Param			userId	query		string	false	"Mark prompts this user has favorited"
//	@Success		200		{array}		store.Prompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	q := r.URL.Query()
	prompts, err := c.List(r.Context(), auth.IdentityFrom(r.Context()), catalog.ListQuery{
		Status: store.PromptStatus(q.Get("status")),
		Search: q.Get("search"),
		UserID: q.Get("userId"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var search, status string
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := url.Values{}
			if search != "" {
				q.Set("search", search)
			}
			if status != "" {
				q.Set("status", status)
			}
			if mine {
				if s := api.SessionFrom(ctx); s.SignedIn() {
					q.Set("userId", s.User.ID)
				}
			}
			path := "/api/prompts"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			var prompts []store.Prompt
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, path, &prompts); err != nil {
				return err
			}
			return api.Output(prompts)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by label or description")
	cmd.Flags().StringVar(&status, "status", "", "Status filter (admin only for pending/rejected)")
	cmd.Flags().BoolVar(&mine, "mark-favorites", false, "Mark prompts the signed-in user has favorited")
	return cmd
}

// SubmitPromptEndpoint handles POST /api/prompts.
type SubmitPromptEndpoint struct{}

func (e *SubmitPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/prompts", e.handler
}

func (e *SubmitPromptEndpoint) Access() api.Access { return api.AccessUser }

func (e *SubmitPromptEndpoint) Group() string { return "prompts" }

// handler godoc
//
//	@Summary		Submit a prompt
//	@Description	New prompts start pending until an admin approves them
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		catalog.PromptInput	true	"Prompt"
//	@Success		201		{object}	store.Prompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/prompts [post]
func (e *SubmitPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	in, err := catalog.DecodePrompt(r.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := c.Submit(r.Context(), auth.IdentityFrom(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (e *SubmitPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a prompt from a JSON file",
		Example: `  freestyle api prompts submit -f waves.json
  cat waves.json | freestyle api prompts submit -f -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var in catalog.PromptInput
			if err := readJSONArg(file, &in); err != nil {
				return err
			}
			var p store.Prompt
			if err := api.ClientFor(ctx, getServerURL()).Post(ctx, "/api/prompts", in, &p); err != nil {
				return err
			}
			return api.Output(p)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the prompt (- for stdin)")
	cmd.MarkFlagRequired("file")
	return cmd
}

// UpdatePromptEndpoint handles PUT /api/prompts/{id}.
type UpdatePromptEndpoint struct{}

func (e *UpdatePromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/prompts/{id}", e.handler
}

func (e *UpdatePromptEndpoint) Access() api.Access { return api.AccessAdmin }

func (e *UpdatePromptEndpoint) Group() string { return "prompts" }

// handler godoc
//
//	@Summary		Update a prompt
//	@Description	Partial update of any field, including the moderation status
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Prompt ID"
//	@Param			request	body		catalog.PromptUpdate	true	"Fields to change"
//	@Success		200		{object}	store.Prompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/prompts/{id} [put]
func (e *UpdatePromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	u, err := catalog.DecodeUpdate(r.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := c.Update(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("id"), u)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *UpdatePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file, status string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a prompt (admin)",
		Example: `  freestyle api prompts update 3f2a... --status approved
  freestyle api prompts update 3f2a... -f changes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var u catalog.PromptUpdate
			if file != "" {
				if err := readJSONArg(file, &u); err != nil {
					return err
				}
			}
			if status != "" {
				st := store.PromptStatus(status)
				u.Status = &st
			}
			var p store.Prompt
			if err := api.ClientFor(ctx, getServerURL()).Put(ctx, "/api/prompts/"+url.PathEscape(args[0]), u, &p); err != nil {
				return err
			}
			return api.Output(p)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the fields to change (- for stdin)")
	cmd.Flags().StringVar(&status, "status", "", "New status: pending, approved or rejected")
	return cmd
}

// DeletePromptEndpoint handles DELETE /api/prompts/{id}.
type DeletePromptEndpoint struct{}

func (e *DeletePromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/prompts/{id}", e.handler
}

func (e *DeletePromptEndpoint) Access() api.Access { return api.AccessAdmin }

func (e *DeletePromptEndpoint) Group() string { return "prompts" }

// DeletePromptResponse confirms a deletion.
type DeletePromptResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// handler godoc
//
//	@Summary		Delete a prompt
//	@Tags			prompts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Prompt ID"
//	@Success		200	{object}	DeletePromptResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/prompts/{id} [delete]
func (e *DeletePromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	id := r.PathValue("id")
	if err := c.Delete(r.Context(), auth.IdentityFrom(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletePromptResponse{Message: "prompt deleted", ID: id})
}

func (e *DeletePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var resp DeletePromptResponse
			if err := api.ClientFor(ctx, getServerURL()).Delete(ctx, "/api/prompts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CounterEndpoint handles POST /api/prompts/{id}/like and /view.
type CounterEndpoint struct {
	Counter store.Counter
}

func (e *CounterEndpoint) action() string {
	if e.Counter == store.CounterViews {
		return "view"
	}
	return "like"
}

func (e *CounterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/prompts/{id}/" + e.action(), e.handler
}

func (e *CounterEndpoint) Access() api.Access { return api.AccessPublic }

func (e *CounterEndpoint) Group() string { return "prompts" }

// handler godoc
//
//	@Summary		Like or view a prompt
//	@Description	Increments the counter by one and returns the updated prompt
//	@Tags			prompts
//	@Produce		json
//	@Param			id	path		string	true	"Prompt ID"
//	@Success		200	{object}	store.Prompt
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/prompts/{id}/like [post]
//	@Router			/api/prompts/{id}/view [post]
func (e *CounterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	bump := c.Like
	if e.Counter == store.CounterViews {
		bump = c.View
	}
	p, err := bump(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *CounterEndpoint) Command(getServerURL func() string) *cobra.Command {
	action := e.action()
	return &cobra.Command{
		Use:   action + " <id>",
		Short: fmt.Sprintf("Record a %s on a prompt", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var p store.Prompt
			path := "/api/prompts/" + url.PathEscape(args[0]) + "/" + action
			if err := api.NewClient(getServerURL()).Post(ctx, path, nil, &p); err != nil {
				return err
			}
			return api.Output(p)
		},
	}
}

// readJSONArg decodes a JSON file, or stdin when path is "-".
func readJSONArg(path string, dst any) error {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
