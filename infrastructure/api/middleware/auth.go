package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/curatehq/curate/internal/config"
)

// Identity is the authenticated owner attached to a request context.
type Identity struct {
	ownerID  string
	username string
}

// NewIdentity creates an Identity.
func NewIdentity(ownerID, username string) Identity {
	return Identity{ownerID: ownerID, username: username}
}

// OwnerID returns the authenticated owner identifier.
func (i Identity) OwnerID() string { return i.ownerID }

// Username returns the authenticated owner's display name.
func (i Identity) Username() string { return i.username }

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a context carrying the identity. Exposed for tests
// and non-HTTP callers.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// TokenAuth returns a middleware that authenticates requests via
// "Authorization: Bearer <token>" against the configured token table and
// attaches the matching identity to the request context. Requests without a
// valid token are rejected with 401.
func TokenAuth(tokens []config.TokenIdentity) func(http.Handler) http.Handler {
	byToken := make(map[string]Identity, len(tokens))
	for _, t := range tokens {
		byToken[t.Token()] = NewIdentity(t.OwnerID(), t.Username())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			id, ok := byToken[token]
			if !ok {
				writeUnauthorized(w, "unknown token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="curate"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": detail})
}
