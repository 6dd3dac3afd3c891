package service

import (
	"errors"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// clockSkew is the leeway applied to exp, nbf and iat.
const clockSkew = 30 * time.Second

// memberClaims is the token body: the registered claims plus the member's
// email and role.
type memberClaims struct {
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService implements ports.TokenService using HS256 JWT.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Generate signs a token for mc. Each token gets a unique jti.
func (s *JWTTokenService) Generate(mc domain.MemberContext) (string, time.Time, error) {
	if mc.MemberID == "" {
		return "", time.Time{}, errors.New("member id is required")
	}
	if !knownRole(mc.Role) {
		return "", time.Time{}, fmt.Errorf("unknown role %q", mc.Role)
	}

	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := memberClaims{
		Email: mc.Email,
		Role:  mc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   mc.MemberID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses an HS256 token from this issuer and returns its member context.
func (s *JWTTokenService) Validate(tokenString string) (*domain.MemberContext, error) {
	var claims memberClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("missing subject claim")
	}
	if !knownRole(claims.Role) {
		return nil, fmt.Errorf("unknown role %q in token", claims.Role)
	}

	return &domain.MemberContext{
		MemberID: claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}

func knownRole(r domain.Role) bool {
	return r == domain.RoleMember || r == domain.RoleStaff
}
