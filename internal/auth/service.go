package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

// MemberRepository is the slice of member persistence auth needs.
type MemberRepository interface {
	GetByEmail(ctx context.Context, email string) (*member.Member, error)
	GetByID(ctx context.Context, id string) (*member.Member, error)
	Create(ctx context.Context, m *member.Member) error
	UpdateLastLogin(ctx context.Context, id string) error
}

type Service struct {
	members        MemberRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(members MemberRepository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		members:        members,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Signup registers a new member account with the default member role.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*member.Member, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.members.GetByEmail(ctx, dto.EmailAddress); err == nil {
		return nil, errors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	m := &member.Member{
		FullName:           dto.FullName,
		EmailAddress:       dto.EmailAddress,
		PasswordHash:       string(hash),
		YearOfEntry:        int(dto.YearOfEntry),
		TelephoneNumber:    dto.TelephoneNumber,
		ResidentialAddress: dto.ResidentialAddress,
		PotentialMembers:   dto.PotentialMembers,
		Role:               member.RoleMember,
		IsActive:           true,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *member.Member, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, nil, err
	}

	m, err := s.members.GetByEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, nil, errors.ErrInvalidCredentials
	}

	if !m.IsActive {
		return AuthTokens{}, nil, errors.ErrAccountInactive
	}

	tokens, err := s.issueTokens(m)
	if err != nil {
		return AuthTokens{}, nil, err
	}

	if err := s.members.UpdateLastLogin(ctx, m.ID); err != nil {
		// Login still succeeds; the timestamp is best effort.
		return tokens, m, nil
	}

	return tokens, m, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	m, err := s.members.GetByID(ctx, claims.MemberID)
	if err != nil {
		return AuthTokens{}, errors.ErrInvalidToken
	}
	if !m.IsActive {
		return AuthTokens{}, errors.ErrAccountInactive
	}

	return s.issueTokens(m)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetMember loads the member behind a validated token.
func (s *Service) GetMember(ctx context.Context, memberID string) (*member.Member, error) {
	return s.members.GetByID(ctx, memberID)
}

func (s *Service) issueTokens(m *member.Member) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(m.ID, m.EmailAddress, m.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(m.ID, m.EmailAddress, m.Role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(memberID, email, role string) (string, error) {
	return j.sign(memberID, email, role, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(memberID, email, role string) (string, error) {
	return j.sign(memberID, email, role, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(memberID, email, role string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		MemberID: memberID,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   memberID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens outlive the access TTL, which tells the two
		// secrets apart without a separate parse path.
		if claims, ok := token.Claims.(*Claims); ok {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.ErrInvalidToken
}
