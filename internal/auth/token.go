package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSecret     = errors.New("token secret is not configured")
)

const issuer = "sheet-sync"

type claims struct {
	jwt.RegisteredClaims
	Role        Role `json:"role"`
	CharacterID int  `json:"character_id,omitempty"`
}

// Tokens issues and resolves HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Issue(id Identity) (string, error) {
	if !id.Authenticated() {
		return "", fmt.Errorf("issue token: %w: identity %q is not authenticated", ErrInvalidToken, id.Role)
	}
	now := t.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(id.CharacterID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role:        id.Role,
		CharacterID: id.CharacterID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve validates a token. It returns Unauthenticated together with the
// error for anything that does not verify.
func (t *Tokens) Resolve(token string) (Identity, error) {
	if token == "" {
		return Unauthenticated, ErrInvalidToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Unauthenticated, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := Identity{Role: c.Role, CharacterID: c.CharacterID}
	if !id.Authenticated() {
		return Unauthenticated, ErrInvalidToken
	}
	return id, nil
}
