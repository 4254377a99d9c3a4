package domain

import (
	"context"
	"database/sql"
	"time"
)

// User represents the central identity entity of the system.
//
// The refresh-token slot is single-valued: one active refresh token per
// user, overwritten on every login. There is deliberately no session list;
// a second login invalidates the first session's refresh token.
type User struct {
	Username            string         `json:"username"`
	PasswordHash        string         `json:"-"` // Never expose the password hash in JSON
	RefreshToken        sql.NullString `json:"-"`
	RefreshTokenExpires sql.NullTime   `json:"-"`
}

// AuthResponse defines the payload returned after a successful login.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// UserRepository defines the contract for user data persistence.
// This interface is implemented in the 'internal/repository' package.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdateRefreshToken writes the token and its expiry as a pair.
	// Implementations must never leave the two fields observable in a
	// mismatched combination.
	UpdateRefreshToken(ctx context.Context, username, token string, expires time.Time) error
}

// LoginLimiter throttles repeated failed login attempts per username
// (usually backed by Redis).
type LoginLimiter interface {
	// TooManyFailures reports whether the username has exceeded the
	// allowed number of recent failed attempts.
	TooManyFailures(ctx context.Context, username string) (bool, error)

	// RecordFailure counts one failed attempt against the username.
	RecordFailure(ctx context.Context, username string) error
}
