/*
auth.go - Bearer-token identity middleware

PURPOSE:
  Resolves the authenticated caller for attendance endpoints. Token
  verification itself is an external collaborator: the middleware only
  extracts the bearer token, hands it to the injected TokenVerifier,
  and maps the verified identity to a local user row, creating one on
  first sight.

SECURITY NOTE:
  The core never sees raw credentials. A TokenVerifier backed by a
  real identity provider (Firebase, OIDC) is wired in production;
  tests use StaticVerifier.

SEE ALSO:
  - handlers.go: Reads the identity from the request context
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kwan/payroll-engine/payroll"
)

// Identity is the verified (uid, email, name) triple supplied by the
// identity provider.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// TokenVerifier validates a bearer token and returns the caller's
// identity. Implementations live outside the core.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticVerifier maps fixed tokens to identities. For tests and dev.
type StaticVerifier map[string]Identity

func (v StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := v[token]
	if !ok {
		return Identity{}, errors.New("unknown token")
	}
	return id, nil
}

type contextKey string

const userContextKey contextKey = "user"

// userFromContext returns the resolved local user, or nil outside the
// authenticated routes.
func userFromContext(ctx context.Context) *payroll.User {
	u, _ := ctx.Value(userContextKey).(*payroll.User)
	return u
}

// RequireAuth verifies the bearer token and resolves (creating if
// needed) the local user row for the caller.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		identity, err := h.Verifier.Verify(r.Context(), strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		user, err := h.resolveUser(r.Context(), identity)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve user", err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveUser finds the local user for an identity, creating it on
// first authenticated request (mirror of the upstream directory's
// create-if-not-exists behavior).
func (h *Handler) resolveUser(ctx context.Context, id Identity) (*payroll.User, error) {
	user, err := h.Store.GetUserByUID(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	created := payroll.User{
		ID:    uuid.NewString(),
		UID:   id.UID,
		Email: id.Email,
		Name:  id.Name,
		Role:  "user",
	}
	if err := h.Store.SaveUser(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}
