package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms guards against algorithm confusion.
var allowedAlgorithms = []string{"RS256", "ES256"}

// SessionJWTVerifier implements JWTVerifier using the identity provider's JWKS.
type SessionJWTVerifier struct {
	keyfunc jwt.Keyfunc
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// Keys are cached and refreshed in the background until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (*SessionJWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	// keyfunc swallows a failed first fetch, so check the endpoint ourselves.
	checkJWKS(ctx, jwksURL, logger)

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SessionJWTVerifier{
		keyfunc: jwks.Keyfunc,
		cancel:  cancel,
		logger:  logger,
	}, nil
}

// checkJWKS logs a warning when jwksURL does not serve a usable key set.
// Every session token is rejected until it does.
func checkJWKS(ctx context.Context, jwksURL string, logger *slog.Logger) bool {
	var set struct {
		Keys []json.RawMessage `json:"keys"`
	}

	resp, err := resty.New().
		SetTimeout(10*time.Second).
		R().
		SetContext(ctx).
		SetResult(&set).
		Get(jwksURL)

	switch {
	case err != nil:
		logger.Warn("JWKS fetch failed, session tokens will be rejected", "jwks_url", jwksURL, "error", err)
		return false
	case resp.IsError():
		logger.Warn("JWKS fetch failed, session tokens will be rejected", "jwks_url", jwksURL, "status", resp.StatusCode())
		return false
	case len(set.Keys) == 0:
		logger.Warn("JWKS has no keys, session tokens will be rejected", "jwks_url", jwksURL)
		return false
	}
	return true
}

// newVerifierWithKeyfunc is used by tests to bypass JWKS fetching.
func newVerifierWithKeyfunc(kf jwt.Keyfunc, logger *slog.Logger) *SessionJWTVerifier {
	return &SessionJWTVerifier{keyfunc: kf, cancel: func() {}, logger: logger}
}

// VerifyToken validates a session token and extracts its claims.
func (v *SessionJWTVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("session token rejected", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *SessionJWTVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}
