package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in token claims. They come from the officers collection at
// login, never derived from identity attributes like email domains.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded identity attached to authenticated requests.
type Claims struct {
	OfficerID string
	Username  string
	Role      string
}

// Tokens mints and parses officer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token helper with a 24h lifetime.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Generate mints a signed token carrying the officer's identity and role.
func (t *Tokens) Generate(officerID, username, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":       officerID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and extracts its claims.
func (t *Tokens) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		OfficerID: stringClaim(mapClaims, "id"),
		Username:  stringClaim(mapClaims, "username"),
		Role:      stringClaim(mapClaims, "role"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
