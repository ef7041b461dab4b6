package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func RequireAuth(verifier TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				response.FromError(w, customError.WrapUnauthorized("missing bearer token"))
				return
			}

			id, err := verifier.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				response.FromError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
