package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

func (r *Repository) ListUsers(
	ctx context.Context,
	page, size int,
) (*dto.PaginatedUserResponse, error) {
	const op = "users.ListUsers.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	var count int64
	if err := r.conn.GetContext(ctx, &count, userCountQ); err != nil {
		zap.L().Error("failed to count users", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	users := make([]*md.User, 0, size)
	if err := r.conn.SelectContext(ctx, &users, userListQ, size, (page-1)*size); err != nil {
		zap.L().Error("failed to list users", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	totalPages := int((count + int64(size) - 1) / int64(size))
	return &dto.PaginatedUserResponse{
		Data:        users,
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
	}, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*md.User, error) {
	const op = "users.GetUserByID.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res := &md.User{}
	err := r.conn.GetContext(ctx, res, userGetByIDQ, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}

		zap.L().Error("failed to get user", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*md.User, error) {
	const op = "users.GetUserByUsername.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res := &md.User{}
	err := r.conn.GetContext(ctx, res, userGetByUsernameQ, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}

		zap.L().Error("failed to get user", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *Repository) CreateUser(
	ctx context.Context,
	username, passwordHash string,
	role md.Role,
) (uuid.UUID, error) {
	const op = "users.CreateUser.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	var id uuid.UUID
	err := r.conn.QueryRowContext(ctx, userCreateQ, username, passwordHash, role).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, repo.ErrAlreadyExists
		}

		zap.L().Error("failed to create user", zap.String("op", op), zap.Error(err))
		return uuid.Nil, err
	}

	return id, nil
}

func (r *Repository) UpdateUserRole(ctx context.Context, userID uuid.UUID, role md.Role) error {
	const op = "users.UpdateUserRole.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, userUpdateRoleQ, role, userID)
	if err != nil {
		zap.L().Error("failed to update role", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// UpdateUserPassword also clears the force-password-change flag and the
// failed-attempt counter.
func (r *Repository) UpdateUserPassword(ctx context.Context, userID uuid.UUID, hash string) error {
	const op = "users.UpdateUserPassword.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, userUpdatePasswordQ, hash, userID)
	if err != nil {
		zap.L().Error("failed to update password", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op = "users.DeleteUser.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := r.conn.ExecContext(ctx, userDeleteQ, userID)
	if err != nil {
		zap.L().Error("failed to delete user", zap.String("op", op), zap.Error(err))
		return err
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (r *Repository) IncrementFailedLogins(ctx context.Context, userID uuid.UUID) error {
	const op = "users.IncrementFailedLogins.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := r.conn.ExecContext(ctx, userFailedLoginQ, userID); err != nil {
		zap.L().Error("failed to increment failed logins", zap.String("op", op), zap.Error(err))
		return err
	}

	return nil
}

func (r *Repository) ResetLoginState(ctx context.Context, userID uuid.UUID) error {
	const op = "users.ResetLoginState.repo"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if _, err := r.conn.ExecContext(ctx, userLoginSuccessQ, userID); err != nil {
		zap.L().Error("failed to reset login state", zap.String("op", op), zap.Error(err))
		return err
	}

	return nil
}
