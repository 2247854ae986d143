package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"mentorship/internal/auth"
	"mentorship/internal/httputil"
)

// SessionCookie is the cookie the identity provider's frontend SDK stores the
// session token in.
const SessionCookie = "__session"

// AuthMiddleware resolves the request principal from a Bearer token or the
// session cookie. Requests without a valid token continue anonymously; routes
// that need a principal reject them later through RequireAdmin.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("session token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, claims.GetUserID(), claims.SessionID))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
