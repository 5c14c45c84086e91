package dto

import (
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/google/uuid"
)

type PaginatedUserResponse struct {
	Data        []*md.User `json:"data"`
	Count       int64      `json:"count"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	HasNextPage bool       `json:"hasNextPage"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Role     md.Role `json:"role"     validate:"omitempty,oneof=admin user"`
}

// CreateUserResponse carries the generated initial password. It is shown
// once and never retrievable again.
type CreateUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Password string    `json:"password"`
}

type UpdateRoleRequest struct {
	Role md.Role `json:"role" validate:"required,oneof=admin user"`
}

type ResetPasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}
