package ctrl

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/opentracing/opentracing-go"
)

type userCtrl interface {
	ListUsers(ctx context.Context, page, size int) (*dto.PaginatedUserResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*md.User, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, req *dto.UpdateRoleRequest) error
	ResetPassword(ctx context.Context, userID uuid.UUID, req *dto.ResetPasswordRequest) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userRepo interface {
	ListUsers(ctx context.Context, page, size int) (*dto.PaginatedUserResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*md.User, error)
	GetUserByUsername(ctx context.Context, username string) (*md.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, role md.Role) (uuid.UUID, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role md.Role) error
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, hash string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

func (c *Controller) ListUsers(
	ctx context.Context,
	page, size int,
) (*dto.PaginatedUserResponse, error) {
	const op = "users.ListUsers.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	return c.repo.ListUsers(ctx, page, size)
}

func (c *Controller) GetUserByID(ctx context.Context, userID uuid.UUID) (*md.User, error) {
	const op = "users.GetUserByID.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	res, err := c.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return res, nil
}

// CreateUser generates an initial password, stores only its hash and
// returns the raw value exactly once. The account is created with the
// force-password-change flag set.
func (c *Controller) CreateUser(
	ctx context.Context,
	req *dto.CreateUserRequest,
) (*dto.CreateUserResponse, error) {
	const op = "users.CreateUser.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	password, err := c.au.NewPassword()
	if err != nil {
		return nil, err
	}

	hash, err := c.au.Hash(password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = md.RoleUser
	}

	id, err := c.repo.CreateUser(ctx, req.Username, hash, role)
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &dto.CreateUserResponse{
		ID:       id,
		Password: password,
	}, nil
}

func (c *Controller) UpdateUserRole(
	ctx context.Context,
	userID uuid.UUID,
	req *dto.UpdateRoleRequest,
) error {
	const op = "users.UpdateUserRole.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if err := c.repo.UpdateUserRole(ctx, userID, req.Role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// ResetPassword verifies the old password before storing the new hash.
func (c *Controller) ResetPassword(
	ctx context.Context,
	userID uuid.UUID,
	req *dto.ResetPasswordRequest,
) error {
	const op = "users.ResetPassword.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	user, err := c.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	err = c.au.ComparePasswords([]byte(user.Password), []byte(req.OldPassword))
	if err != nil {
		return err
	}

	hash, err := c.au.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err = c.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (c *Controller) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op = "users.DeleteUser.ctrl"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if err := c.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}
