package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yashbavkar26/agri-backend/api"
)

// BearerIdentity returns middleware that derives the requester identity from
// an optional JWT bearer token. Requests without an Authorization header
// pass through unauthenticated; identity is optional for issuance. A token
// that is present but invalid is rejected so callers cannot spoof another
// requester by sending garbage.
func BearerIdentity(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				log.Debug("Rejected bearer token", "err", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				http.Error(w, "Token has no subject", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(api.ContextWithUserID(r.Context(), subject)))
		})
	}
}
