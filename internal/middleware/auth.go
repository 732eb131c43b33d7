package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"reportdesk/internal/auth"
	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"
	"reportdesk/internal/httputil"
)

// publicPaths skip authentication. The reviewer and class lists feed the
// registration form, before the caller has a profile.
var publicPaths = map[string]bool{
	"/health":        true,
	"/api/reviewers": true,
	"/api/classes":   true,
}

// AuthMiddleware validates the bearer token and loads the caller's profile.
// A valid token without a profile is 403: the account exists at the identity
// provider but was never enrolled.
func AuthMiddleware(verifier auth.JWTVerifier, users repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.GetUserID())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					httputil.RespondError(w, http.StatusForbidden, "account is not enrolled")
					return
				}
				logger.Error("failed to load caller profile", "user_id", claims.GetUserID(), "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithCaller(r, user))
		})
	}
}

// RequireRole rejects callers whose profile role is not listed.
func RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			caller := httputil.GetCaller(r)
			if caller == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if caller.Role == role {
					next(w, r)
					return
				}
			}
			httputil.RespondError(w, http.StatusForbidden, "this action is not available to your role")
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
