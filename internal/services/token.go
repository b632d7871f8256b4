package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the verified identity attached to a request after token
// verification.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenDuration is how long an issued token stays valid.
const TokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed bearer tokens that gate every
// authenticated entry point.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue returns a signed, time-boxed token embedding the principal.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:   p.ID,
		Username: p.Username,
		Email:    p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token and returns the embedded principal.
// Fails ErrInvalidToken on a malformed, expired, or badly signed token.
func (s *TokenService) Verify(tokenString string) (Principal, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
