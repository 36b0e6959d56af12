package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/store"
	"github.com/jackzampolin/freestyle/internal/testutil"
)

func newService(t *testing.T, onRegister func(context.Context, *store.Store) error) (*auth.Service, *store.Store, *auth.TokenIssuer) {
	t.Helper()
	s := testutil.NewStore(t)
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	svc, err := auth.NewService(auth.Config{
		Store:      s,
		Tokens:     tokens,
		Logger:     testutil.DiscardLogger(),
		OnRegister: onRegister,
		HashCost:   bcrypt.MinCost,
	})
	require.NoError(t, err)
	return svc, s, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	hooked := 0
	svc, s, tokens := newService(t, func(context.Context, *store.Store) error {
		hooked++
		return nil
	})

	grant, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", grant.User.Email)
	assert.Equal(t, 1, hooked)

	sub, err := tokens.Verify(grant.Token)
	require.NoError(t, err)
	assert.Equal(t, grant.User.ID, sub)

	stored, err := s.GetUser(ctx, grant.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	tests := []struct {
		name string
		req  auth.RegisterRequest
	}{
		{"duplicate username", auth.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"}},
		{"duplicate email", auth.RegisterRequest{Username: "alice2", Email: "ALICE@example.com", Password: "secret1"}},
		{"missing username", auth.RegisterRequest{Email: "x@example.com", Password: "secret1"}},
		{"missing password", auth.RegisterRequest{Username: "x", Email: "x@example.com"}},
		{"short password", auth.RegisterRequest{Username: "x", Email: "x@example.com", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, auth.ErrInvalidRegistration)
		})
	}

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, hooked)
}

func TestRegister_HookFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, s, _ := newService(t, func(context.Context, *store.Store) error {
		return assert.AnError
	})

	_, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, assert.AnError)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newService(t, nil)
	reg, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		grant, err := svc.Login(ctx, auth.LoginRequest{Email: "ALICE@example.com", Password: "secret1"})
		require.NoError(t, err)
		sub, err := tokens.Verify(grant.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, sub)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "nope123"})
		assert.ErrorIs(t, err, auth.ErrInvalidLogin)
	})

	t.Run("unknown email gives the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "bob@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, auth.ErrInvalidLogin)
		assert.Equal(t, "invalid email or password", err.Error())
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newService(t, nil)
	reg, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	ghost, err := tokens.Issue("deleted-user")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestTokenIssuer(t *testing.T) {
	_, err := auth.NewTokenIssuer("", time.Hour)
	assert.Error(t, err)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := auth.NewTokenIssuer("secret", time.Hour, auth.WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	tok, err := issuer.Issue("u1")
	require.NoError(t, err)

	clock = clock.Add(59 * time.Minute)
	sub, err := issuer.Verify(tok)
	require.NoError(t, err, "token is valid before its ttl elapses")
	assert.Equal(t, "u1", sub)

	clock = clock.Add(2 * time.Minute)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrUnauthorized, "expired tokens are rejected")

	a, err := auth.NewTokenIssuer("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := auth.NewTokenIssuer("secret-b", time.Hour)
	require.NoError(t, err)
	tok, err = a.Issue("u1")
	require.NoError(t, err)
	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrUnauthorized, "tokens signed with another secret are rejected")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer   abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := auth.BearerToken(r); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if auth.IdentityFrom(ctx) != nil {
		t.Fatal("expected no identity on a bare context")
	}
	u := &store.User{ID: "u1"}
	if got := auth.IdentityFrom(auth.WithIdentity(ctx, u)); got != u {
		t.Fatalf("IdentityFrom() = %v, want %v", got, u)
	}
}
