package httputil

import (
	"context"
	"net/http"

	"reportdesk/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey contextKey = "userID"
	callerKey contextKey = "caller"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithCaller stores the authenticated user's profile and id.
func WithCaller(r *http.Request, u *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, u)
	ctx = context.WithValue(ctx, userIDKey, u.ID)
	return r.WithContext(ctx)
}

// GetCaller returns the profile set by the auth middleware, or nil.
func GetCaller(r *http.Request) *models.User {
	u, _ := r.Context().Value(callerKey).(*models.User)
	return u
}
