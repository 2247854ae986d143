package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"mentorship/internal/domain"
	"mentorship/internal/domain/services"
	"mentorship/internal/httputil"
)

// RequireAdmin lets the request through only when the gate accepts its
// principal. Anonymous requests get 401, non-admins 403, and a failed
// identity provider lookup 500.
func RequireAdmin(gate services.AdminGate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := gate.RequireAdmin(r.Context(), httputil.GetUserID(r))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			var httpErr domain.HTTPError
			if errors.As(err, &httpErr) {
				httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
				return
			}

			logger.Error("admin check failed",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		})
	}
}
