package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Identity is what the auth collaborator vouches for on a request. A zero
// BusinessID means the caller is a plain member.
type Identity struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
}

// IdentityResolver turns a bearer token into an Identity. Implemented by
// clients.IdentityClient in production.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

type contextKey string

const identityKey contextKey = "identity"

func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			sendError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := s.resolver.Resolve(r.Context(), token)
		if err != nil {
			sendError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// requireBusiness guards the analytics surface: it is only meaningful for
// callers owning a content set.
func (s *Server) requireBusiness(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r).BusinessID == uuid.Nil {
			sendError(w, http.StatusForbidden, "business account required")
			return
		}
		next(w, r)
	})
}

func identityFrom(r *http.Request) *Identity {
	identity, _ := r.Context().Value(identityKey).(*Identity)
	if identity == nil {
		return &Identity{}
	}
	return identity
}
