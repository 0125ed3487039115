package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

// tokenValidator is satisfied by auth.TokenManager.
type tokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// ProfileAuth attaches the profile ID from a bearer token to the request
// context. Requests without a token pass through anonymously; an invalid
// token is rejected so a stale client notices instead of silently losing
// its progress.
func ProfileAuth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // anonymous
				return
			}
			profileID, err := validator.Validate(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithProfileID(r.Context(), profileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
