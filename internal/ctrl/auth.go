package ctrl

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/auth"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type authCtrl interface {
	Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPair, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenPair, error)
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error
	Logout(ctx context.Context, presented string) error
}

type authRepo interface {
	CreateRefreshToken(
		ctx context.Context,
		userID uuid.UUID,
		tokenHash string,
		expiresAt time.Time,
	) error
	RotateRefreshToken(
		ctx context.Context,
		oldHash, newHash string,
		expiresAt time.Time,
	) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
	IncrementFailedLogins(ctx context.Context, userID uuid.UUID) error
	ResetLoginState(ctx context.Context, userID uuid.UUID) error
}

func (c *Controller) Authenticate(
	ctx context.Context,
	req *dto.LoginRequest,
) (*dto.TokenPair, error) {
	const op = "auth.Authenticate.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Same answer as a wrong password, to avoid leaking usernames.
			return nil, auth.ErrInvalidCredentials
		}

		return nil, err
	}

	if res.IsDisabled {
		return nil, auth.ErrAccountDisabled
	}

	if res.ForcePasswordChange {
		return nil, auth.ErrPasswordChangeRequired
	}

	err = c.au.ComparePasswords([]byte(res.Password), []byte(req.Password))
	if err != nil {
		if ferr := c.repo.IncrementFailedLogins(ctx, res.ID); ferr != nil {
			zap.L().Warn(
				"failed to record failed login",
				zap.String("op", op),
				zap.Error(ferr),
			)
		}

		return nil, auth.ErrInvalidCredentials
	}

	if err = c.repo.ResetLoginState(ctx, res.ID); err != nil {
		zap.L().Warn(
			"failed to reset login state",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	return c.genPair(ctx, res.ID, res.Role, req.RememberMe)
}

func (c *Controller) Refresh(
	ctx context.Context,
	req *dto.RefreshRequest,
) (*dto.TokenPair, error) {
	const op = "auth.Refresh.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	refresh, err := c.au.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	newHash := auth.HashToken(refresh)
	uid, err := c.repo.RotateRefreshToken(
		ctx,
		auth.HashToken(req.Refresh),
		newHash,
		c.tokens.GetRefreshTime(false),
	)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Either expired, or a replay of an already-rotated token.
			zap.L().Info(
				"refresh token rejected",
				zap.String("op", op),
			)

			return nil, auth.ErrTokenRevoked
		}

		return nil, err
	}

	user, err := c.repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if user.IsDisabled {
		if derr := c.repo.DeleteRefreshToken(ctx, newHash); derr != nil {
			zap.L().Warn(
				"failed to revoke token of disabled user",
				zap.String("op", op),
				zap.Error(derr),
			)
		}

		return nil, auth.ErrAccountDisabled
	}

	access, err := c.tokens.NewToken(ctx, uid, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		Access:  access,
		Refresh: refresh,
	}, nil
}

// ChangePassword replaces a user's password given the current one, with
// no session required. This is the path that clears the
// force-password-change state a freshly created account starts in, so it
// must work before the user can obtain tokens.
func (c *Controller) ChangePassword(
	ctx context.Context,
	req *dto.ChangePasswordRequest,
) error {
	const op = "auth.ChangePassword.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Same answer as a wrong password, to avoid leaking usernames.
			return auth.ErrInvalidCredentials
		}

		return err
	}

	if res.IsDisabled {
		return auth.ErrAccountDisabled
	}

	err = c.au.ComparePasswords([]byte(res.Password), []byte(req.OldPassword))
	if err != nil {
		if ferr := c.repo.IncrementFailedLogins(ctx, res.ID); ferr != nil {
			zap.L().Warn(
				"failed to record failed login",
				zap.String("op", op),
				zap.Error(ferr),
			)
		}

		return auth.ErrInvalidCredentials
	}

	hash, err := c.au.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	// The update also resets failed_login_attempts and clears
	// force_password_change.
	if err = c.repo.UpdateUserPassword(ctx, res.ID, hash); err != nil {
		return err
	}

	return nil
}

func (c *Controller) Logout(ctx context.Context, presented string) error {
	const op = "auth.Logout.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	err := c.repo.DeleteRefreshToken(ctx, auth.HashToken(presented))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return err
	}

	return nil
}

// genPair issues an access token and a fresh refresh token, persisting
// only the refresh token's hash.
func (c *Controller) genPair(
	ctx context.Context,
	uid uuid.UUID,
	role md.Role,
	rememberMe bool,
) (*dto.TokenPair, error) {
	access, err := c.tokens.NewToken(ctx, uid, role)
	if err != nil {
		return nil, err
	}

	refresh, err := c.au.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	err = c.repo.CreateRefreshToken(
		ctx,
		uid,
		auth.HashToken(refresh),
		c.tokens.GetRefreshTime(rememberMe),
	)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		Access:  access,
		Refresh: refresh,
	}, nil
}
