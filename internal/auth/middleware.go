package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/mcq-platform/pkg/http/errors"
)

// APIKeyHeader carries the chat-bot integration key.
const APIKeyHeader = "X-Api-Key"

// Middleware resolves the caller of every request into a Context.
// Requests without credentials pass through as public callers.
func Middleware(tokens *jwt.Manager, keys *APIKeyVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ac Context

			if key := r.Header.Get(APIKeyHeader); key != "" {
				if err := keys.Verify(key); err != nil {
					logger.Warn().Str("remote", r.RemoteAddr).Msg("api key rejected")
					httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidKey, "Invalid API key")
					return
				}
				ac.Elevated = true
			}

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				// Parse "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
					return
				}

				claims, err := tokens.Validate(parts[1])
				if err != nil {
					logger.Warn().Err(err).Msg("token validation failed")
					code := httperrors.ErrCodeInvalidToken
					if errors.Is(err, jwt.ErrExpiredToken) {
						code = httperrors.ErrCodeTokenExpired
					}
					httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
					return
				}

				ac.User = &User{Code: claims.Code, Admin: claims.Admin}
				ac.Elevated = ac.Elevated || claims.Internal || claims.Admin
			}

			next.ServeHTTP(w, r.WithContext(IntoContext(r.Context(), ac)))
		})
	}
}
