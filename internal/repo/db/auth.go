package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func (r *Repository) CreateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) error {
	const op = "auth.CreateRefreshToken.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := r.conn.ExecContext(ctx, tokenCreateQ, userID, tokenHash, expiresAt); err != nil {
		zap.L().Error("failed to create refresh token", zap.String("op", op), zap.Error(err))
		return err
	}

	return nil
}

// RotateRefreshToken atomically consumes the presented token and persists
// its replacement in a single transaction. The delete-returning makes
// rotation single-use: two concurrent rotations of the same token cannot
// both find a row, so a replayed token surfaces as repo.ErrNotFound.
// Expired tokens are consumed but reported as not found.
func (r *Repository) RotateRefreshToken(
	ctx context.Context,
	oldHash, newHash string,
	expiresAt time.Time,
) (uuid.UUID, error) {
	const op = "auth.RotateRefreshToken.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		zap.L().Error("failed to begin tx", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}
	defer tx.Rollback()

	var userID uuid.UUID
	var oldExpiry time.Time
	err = tx.QueryRowContext(ctx, tokenDeleteReturningQ, oldHash).Scan(&userID, &oldExpiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repo.ErrNotFound
		}

		zap.L().Error("failed to consume refresh token", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}

	if time.Now().After(oldExpiry) {
		// Keep the delete, refuse the rotation.
		if err = tx.Commit(); err != nil {
			return uuid.Nil, err
		}

		return uuid.Nil, repo.ErrNotFound
	}

	if _, err = tx.ExecContext(ctx, tokenCreateQ, userID, newHash, expiresAt); err != nil {
		zap.L().Error("failed to insert rotated token", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		zap.L().Error("failed to commit rotation", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}

	return userID, nil
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	const op = "auth.DeleteRefreshToken.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, tokenDeleteQ, tokenHash)
	if err != nil {
		zap.L().Error("failed to delete refresh token", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// DeleteExpiredRefreshTokens is housekeeping run by the monitor between
// probe cycles.
func (r *Repository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	const op = "auth.DeleteExpiredRefreshTokens.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, tokenDeleteExpiredQ)
	if err != nil {
		zap.L().Error("failed to delete expired tokens", zap.String("op", op), zap.Error(err))
		return 0, err
	}

	aff, _ := res.RowsAffected()
	return aff, nil
}
