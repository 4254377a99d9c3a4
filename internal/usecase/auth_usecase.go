package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/FilipeAphrody/loggate/internal/domain"
	"github.com/FilipeAphrody/loggate/pkg/security"
)

// Sentinel errors surfaced to the delivery layer. Their messages are the
// response details, so they keep the wire wording.
var (
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
	ErrRefreshTokenExpired = errors.New("Token expired")
	ErrTooManyAttempts     = errors.New("Too many failed login attempts, try again later")
)

// AuthUsecase drives the per-user token lifecycle: credential checks,
// access/refresh token issuance, refresh validation and logout revocation.
type AuthUsecase struct {
	userRepo   domain.UserRepository
	limiter    domain.LoginLimiter
	codec      *security.TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthUsecase wires the usecase. limiter may be nil, in which case login
// throttling is disabled.
func NewAuthUsecase(repo domain.UserRepository, limiter domain.LoginLimiter, codec *security.TokenCodec, accessTTL, refreshTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   repo,
		limiter:    limiter,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Authenticate validates the username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (u *AuthUsecase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	match, err := security.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a fresh access/refresh token pair. The
// refresh token and its expiry are persisted on the user record, overwriting
// any previous value: a second login invalidates the first session's token.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	if u.limiter != nil {
		blocked, err := u.limiter.TooManyFailures(ctx, username)
		if err == nil && blocked {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := u.Authenticate(ctx, username, password)
	if err != nil {
		if u.limiter != nil {
			_ = u.limiter.RecordFailure(ctx, username)
		}
		return nil, err
	}

	now := time.Now()

	accessToken, err := u.codec.Generate(user.Username, u.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.codec.Generate(user.Username, u.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdateRefreshToken(ctx, user.Username, refreshToken, now.Add(u.refreshTTL)); err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Refresh exchanges a valid stored refresh token for a new access token.
// The stored refresh token itself is left unchanged.
func (u *AuthUsecase) Refresh(ctx context.Context, username, refreshToken string) (*domain.AuthResponse, error) {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := checkRefreshToken(user, refreshToken, time.Now()); err != nil {
		return nil, err
	}

	accessToken, err := u.codec.Generate(user.Username, u.accessTTL)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// Logout revokes the stored refresh token after the same validity check as
// Refresh. The slot is cleared rather than deleted: empty token, expiry now.
func (u *AuthUsecase) Logout(ctx context.Context, username, refreshToken string) error {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	now := time.Now()
	if err := checkRefreshToken(user, refreshToken, now); err != nil {
		return err
	}

	return u.userRepo.UpdateRefreshToken(ctx, user.Username, "", now)
}

// checkRefreshToken validates the supplied token against the stored slot in
// two steps so that a wrong token and an expired token stay distinguishable
// outcomes. The clock is read once by the caller and passed in.
func checkRefreshToken(user *domain.User, supplied string, now time.Time) error {
	stored := user.RefreshToken
	if !stored.Valid || stored.String == "" ||
		subtle.ConstantTimeCompare([]byte(stored.String), []byte(supplied)) != 1 {
		return ErrInvalidRefreshToken
	}

	if !user.RefreshTokenExpires.Valid || now.After(user.RefreshTokenExpires.Time) {
		return ErrRefreshTokenExpired
	}

	return nil
}
