package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/jackzampolin/freestyle/internal/store"
)

type identityKey struct{}

// WithIdentity attaches the authenticated user to ctx.
func WithIdentity(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, identityKey{}, u)
}

// IdentityFrom returns the authenticated user, or nil for anonymous callers.
func IdentityFrom(ctx context.Context) *store.User {
	u, _ := ctx.Value(identityKey{}).(*store.User)
	return u
}

// BearerToken extracts the token from an Authorization header. Returns ""
// when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
