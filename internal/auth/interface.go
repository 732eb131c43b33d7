package auth

import "reportdesk/internal/domain/models"

// JWTVerifier validates bearer tokens issued by the identity provider.
// Middleware depends on this interface only.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Invalid, expired or wrongly signed tokens return domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.IdentityClaims, error)

	// Close releases resources held for key refresh.
	Close() error
}
