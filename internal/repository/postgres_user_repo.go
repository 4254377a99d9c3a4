package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FilipeAphrody/loggate/internal/domain"
)

// PostgresUserRepo implements domain.UserRepository using PostgreSQL.
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo creates a new repository instance.
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// GetByUsername retrieves a user and their refresh-token slot.
func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT username, password_hash, refresh_token, refresh_token_expires
		FROM users
		WHERE username = $1
	`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.RefreshTokenExpires,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return user, nil
}

// UpdateRefreshToken writes the refresh token and its expiry in a single
// UPDATE so the pair is never observable half-written. Concurrent logins and
// logouts for the same user resolve last-writer-wins.
func (r *PostgresUserRepo) UpdateRefreshToken(ctx context.Context, username, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expires = $2
		WHERE username = $3
	`

	result, err := r.db.ExecContext(ctx, query, token, expires, username)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.New("user not found")
	}

	return nil
}
