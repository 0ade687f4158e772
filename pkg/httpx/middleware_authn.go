package httpx

import (
	"net/http"
	"strings"

	"github.com/taskforge/taskforge/pkg/slogx"
)

// TokenVerifier validates a bearer token and returns the subject user id.
type TokenVerifier interface {
	VerifyToken(token string) (userID string, err error)
}

// AuthnMiddleware verifies the Authorization bearer token and injects the
// authenticated user id into the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			userID, err := v.VerifyToken(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("token verify failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			next.ServeHTTP(w, r.WithContext(contextWithUserID(ctx, userID)))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
