package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/store"
	"github.com/jackzampolin/freestyle/internal/svcctx"
)

// passwordEnv lets scripts pass a password without putting it on the command line.
const passwordEnv = "FREESTYLE_PASSWORD"

// RegisterEndpoint handles POST /api/auth/register.
type RegisterEndpoint struct{}

func (e *RegisterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/auth/register", e.handler
}

func (e *RegisterEndpoint) Access() api.Access { return api.AccessPublic }

func (e *RegisterEndpoint) Group() string { return "auth" }

// handler godoc
//
//	@Summary		Register a user
//	@Description	Create an account and return a signed token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		auth.RegisterRequest	true	"Registration form"
//	@Success		201		{object}	auth.Grant
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/auth/register [post]
func (e *RegisterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.AuthFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "auth not initialized")
		return
	}

	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

func (e *RegisterEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req auth.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}
			ctx := cmd.Context()
			var grant auth.Grant
			if err := api.NewClient(getServerURL()).Post(ctx, "/api/auth/register", req, &grant); err != nil {
				return err
			}
			if err := saveGrant(ctx, getServerURL(), &grant); err != nil {
				return err
			}
			return api.Output(grant.User)
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (or set "+passwordEnv+")")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

// LoginEndpoint handles POST /api/auth/login.
type LoginEndpoint struct{}

func (e *LoginEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/auth/login", e.handler
}

func (e *LoginEndpoint) Access() api.Access { return api.AccessPublic }

func (e *LoginEndpoint) Group() string { return "auth" }

// handler godoc
//
//	@Summary		Log in
//	@Description	Verify credentials and return a signed token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		auth.LoginRequest	true	"Credentials"
//	@Success		200		{object}	auth.Grant
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/auth/login [post]
func (e *LoginEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.AuthFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "auth not initialized")
		return
	}

	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (e *LoginEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}
			ctx := cmd.Context()
			var grant auth.Grant
			if err := api.NewClient(getServerURL()).Post(ctx, "/api/auth/login", req, &grant); err != nil {
				return err
			}
			if err := saveGrant(ctx, getServerURL(), &grant); err != nil {
				return err
			}
			return api.Output(grant.User)
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (or set "+passwordEnv+")")
	cmd.MarkFlagRequired("email")
	return cmd
}

// MeEndpoint handles GET /api/auth/me.
type MeEndpoint struct{}

func (e *MeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/auth/me", e.handler
}

func (e *MeEndpoint) Access() api.Access { return api.AccessUser }

func (e *MeEndpoint) Group() string { return "auth" }

// handler godoc
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	store.User
//	@Failure		401	{object}	ErrorResponse
//	@Router			/api/auth/me [get]
func (e *MeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFrom(r.Context())
	if user == nil {
		writeServiceError(w, r, auth.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (e *MeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var user store.User
			if err := api.ClientFor(ctx, getServerURL()).Get(ctx, "/api/auth/me", &user); err != nil {
				return err
			}
			return api.Output(user)
		},
	}
}

// LogoutCommand clears the saved session. Tokens are stateless, so there is
// no server route.
func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := api.SessionPathFrom(cmd.Context())
			if path == "" {
				return fmt.Errorf("no session file configured")
			}
			if err := api.ClearSession(path); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func saveGrant(ctx context.Context, server string, grant *auth.Grant) error {
	path := api.SessionPathFrom(ctx)
	if path == "" || grant.User == nil {
		return nil
	}
	return api.SaveSession(path, &api.Session{
		Server: server,
		Token:  grant.Token,
		User: api.SessionUser{
			ID:       grant.User.ID,
			Username: grant.User.Username,
			Email:    grant.User.Email,
			IsAdmin:  grant.User.IsAdmin,
		},
	})
}
