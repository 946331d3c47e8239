package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an issued bearer credential.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// JWTService mints and validates bearer credentials scoped to a target
// audience (the service's own URL). The audience is normalized once at
// construction; trailing-slash mismatches between issuer and verifier would
// otherwise reject every token.
type JWTService struct {
	secret   []byte
	audience string
	ttl      time.Duration
}

func NewJWTService(secret, audience string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		audience: NormalizeAudience(audience),
		ttl:      ttl,
	}
}

// NormalizeAudience canonicalizes an audience URL by trimming whitespace and
// trailing slashes.
func NormalizeAudience(audience string) string {
	return strings.TrimRight(strings.TrimSpace(audience), "/")
}

func (s *JWTService) Audience() string { return s.audience }

func (s *JWTService) TTL() time.Duration { return s.ttl }

// GenerateToken issues a credential for the given service account.
func (s *JWTService) GenerateToken(clientID string) (string, error) {
	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies the signature, expiry, and audience of a credential.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithAudience(s.audience))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
