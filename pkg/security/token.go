package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is applied when a caller does not specify a lifetime.
const DefaultTokenTTL = 15 * time.Minute

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token invalid")
)

// TokenCodec signs and verifies compact JWTs carrying a subject and expiry.
// The signing secret and algorithm are fixed at construction; only the HMAC
// family is accepted. Access and refresh tokens share the claim shape and
// secret and differ only in lifetime, so anything the codec signed verifies.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenCodec builds a codec for the given secret and algorithm name
// (e.g. "HS256").
func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: only HMAC is allowed", algorithm)
	}
	return &TokenCodec{secret: []byte(secret), method: method}, nil
}

// Generate creates a signed token for the subject, expiring after ttl.
// A non-positive ttl falls back to DefaultTokenTTL.
func (c *TokenCodec) Generate(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Parse verifies the signature first, then the expiry, and returns the
// embedded claims. Failures collapse to ErrTokenExpired, ErrTokenMalformed
// or ErrTokenInvalid.
func (c *TokenCodec) Parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
