package endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/store"
)

// AddFavoriteEndpoint handles POST /api/users/{userId}/favorites/{promptId}.
type AddFavoriteEndpoint struct{}

func (e *AddFavoriteEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/users/{userId}/favorites/{promptId}", e.handler
}

func (e *AddFavoriteEndpoint) Access() api.Access { return api.AccessUser }

func (e *AddFavoriteEndpoint) Group() string { return "favorites" }

// handler godoc
//
//	@Summary		Add a favorite
//	@Description	Idempotent. Returns the user's favorite prompt ids.
//	@Tags			favorites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userId		path		string	true	"User ID (must be the caller)"
//	@Param			promptId	path		string	true	"Prompt ID"
//	@Success		200			{array}		string
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/api/users/{userId}/favorites/{promptId} [post]
func (e *AddFavoriteEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	ids, err := c.AddFavorite(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("userId"), r.PathValue("promptId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (e *AddFavoriteEndpoint) Command(getServerURL func() string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "add <prompt-id>",
		Short: "Add a prompt to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := favoritesPath(ctx, userID)
			if err != nil {
				return err
			}
			var ids []string
			if err := api.ClientFor(ctx, getServerURL()).Post(ctx, path+"/"+url.PathEscape(args[0]), nil, &ids); err != nil {
				return err
			}
			return api.Output(ids)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to the signed-in user)")
	return cmd
}

// RemoveFavoriteEndpoint handles DELETE /api/users/{userId}/favorites/{promptId}.
type RemoveFavoriteEndpoint struct{}

func (e *RemoveFavoriteEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/users/{userId}/favorites/{promptId}", e.handler
}

func (e *RemoveFavoriteEndpoint) Access() api.Access { return api.AccessUser }

func (e *RemoveFavoriteEndpoint) Group() string { return "favorites" }

// handler godoc
//
//	@Summary		Remove a favorite
//	@Description	Idempotent. Returns the user's remaining favorite prompt ids.
//	@Tags			favorites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userId		path		string	true	"User ID (must be the caller)"
//	@Param			promptId	path		string	true	"Prompt ID"
//	@Success		200			{array}		string
//	@Failure		401			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Router			/api/users/{userId}/favorites/{promptId} [delete]
func (e *RemoveFavoriteEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	ids, err := c.RemoveFavorite(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("userId"), r.PathValue("promptId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (e *RemoveFavoriteEndpoint) Command(getServerURL func() string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "remove <prompt-id>",
		Short: "Remove a prompt from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := favoritesPath(ctx, userID)
			if err != nil {
				return err
			}
			var ids []string
			if err := api.ClientFor(ctx, getServerURL()).Delete(ctx, path+"/"+url.PathEscape(args[0]), &ids); err != nil {
				return err
			}
			return api.Output(ids)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to the signed-in user)")
	return cmd
}

// ListFavoritesEndpoint handles GET /api/users/{userId}/favorites.
type ListFavoritesEndpoint struct{}

func (e *ListFavoritesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/users/{userId}/favorites", e.handler
}

func (e *ListFavoritesEndpoint) Access() api.Access { return api.AccessUser }

func (e *ListFavoritesEndpoint) Group() string { return "favorites" }

// handler godoc
//
//	@Summary		List favorites
//	@Description	The user's favorite prompts in the order they were added
//	@Tags			favorites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userId	path		string	true	"User ID (must be the caller)"
//	@Success		200		{array}		store.Prompt
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/api/users/{userId}/favorites [get]
func (e *ListFavoritesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := catalogFrom(w, r)
	if c == nil {
		return
	}

	prompts, err := c.Favorites(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (e *ListFavoritesEndpoint) Command(getServerURL func() string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your favorite prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := favoritesPath(ctx, userID)
			if err != nil {
				return err
			}
			var prompts []store.Prompt
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, path, &prompts); err != nil {
				return err
			}
			return api.Output(prompts)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to the signed-in user)")
	return cmd
}

func favoritesPath(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		s := api.SessionFrom(ctx)
		if !s.SignedIn() {
			return "", errors.New("not logged in: run 'freestyle api auth login' or pass --user")
		}
		userID = s.User.ID
	}
	return "/api/users/" + url.PathEscape(userID) + "/favorites", nil
}
