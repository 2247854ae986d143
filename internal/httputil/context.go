package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
)

// WithPrincipal attaches the verified principal of the request.
func WithPrincipal(r *http.Request, userID, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// GetUserID returns the principal id, or "" for anonymous requests.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// GetSessionID returns the session id of the principal, or "".
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}
