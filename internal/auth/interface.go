package auth

import "mentorship/internal/domain/models"

// JWTVerifier verifies identity provider session tokens.
type JWTVerifier interface {
	// VerifyToken validates a session token and returns its claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired or badly signed.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
