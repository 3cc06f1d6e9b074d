package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

type contextKey string

// ContextUserKey holds the authenticated member for the request.
const ContextUserKey contextKey = "authMember"

// MemberFromContext returns the member placed by AuthMiddleware.
func MemberFromContext(ctx context.Context) (*member.Member, bool) {
	m, ok := ctx.Value(ContextUserKey).(*member.Member)
	return m, ok
}

// TokenGenerator creates tokens and expiration times.
type TokenGenerator interface {
	GenerateAccessToken(memberID, email, role string) (token string, err error)
	GenerateRefreshToken(memberID, email, role string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
