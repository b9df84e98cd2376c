package http

import (
	"net/http"
	"strings"

	"github.com/fjod/storefront/internal/auth"
)

const (
	msgNoToken      = "Unauthorized access: No token provided"
	msgInvalidToken = "Forbidden: Invalid token"
)

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireToken rejects requests without a valid bearer token. A missing
// Authorization header is a 401; a token that does not verify is a 403.
func RequireToken(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondMessage(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			// "Bearer <token>"; whatever follows the first space is the token.
			_, token, _ := strings.Cut(header, " ")
			identity, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				respondMessage(w, http.StatusForbidden, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
