package ctrl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/auth"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestController_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run(
		"Success", func(t *testing.T) {
			c, mockAuth, _, mockRepo, _, _, _, _ := newTestController(t)

			id := uuid.New()
			mockAuth.EXPECT().NewPassword().Return("in1tialPw", nil)
			mockAuth.EXPECT().Hash("in1tialPw").Return("$2a$10$hash", nil)
			mockRepo.EXPECT().
				CreateUser(gomock.Any(), "bob", "$2a$10$hash", md.RoleUser).
				Return(id, nil)

			res, err := c.CreateUser(ctx, &dto.CreateUserRequest{Username: "bob"})
			assert.NoError(t, err)
			assert.Equal(t, id, res.ID)
			// The raw password surfaces exactly once, in this response.
			assert.Equal(t, "in1tialPw", res.Password)
		},
	)

	t.Run(
		"ExplicitAdminRole", func(t *testing.T) {
			c, mockAuth, _, mockRepo, _, _, _, _ := newTestController(t)

			mockAuth.EXPECT().NewPassword().Return("pw", nil)
			mockAuth.EXPECT().Hash("pw").Return("hash", nil)
			mockRepo.EXPECT().
				CreateUser(gomock.Any(), "root", "hash", md.RoleAdmin).
				Return(uuid.New(), nil)

			_, err := c.CreateUser(
				ctx, &dto.CreateUserRequest{Username: "root", Role: md.RoleAdmin},
			)
			assert.NoError(t, err)
		},
	)

	t.Run(
		"DuplicateUsername", func(t *testing.T) {
			c, mockAuth, _, mockRepo, _, _, _, _ := newTestController(t)

			mockAuth.EXPECT().NewPassword().Return("pw", nil)
			mockAuth.EXPECT().Hash("pw").Return("hash", nil)
			mockRepo.EXPECT().
				CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(uuid.Nil, repo.ErrAlreadyExists)

			_, err := c.CreateUser(ctx, &dto.CreateUserRequest{Username: "bob"})
			assert.ErrorIs(t, err, ErrAlreadyExists)
		},
	)
}

func TestController_ResetPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	user := &md.User{ID: userID, Username: "alice", Password: "$2a$10$oldhash"}
	req := &dto.ResetPasswordRequest{OldPassword: "old-password", NewPassword: "new-password"}

	t.Run(
		"Success", func(t *testing.T) {
			c, mockAuth, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().GetUserByID(gomock.Any(), userID).Return(user, nil)
			mockAuth.EXPECT().
				ComparePasswords([]byte(user.Password), []byte("old-password")).
				Return(nil)
			mockAuth.EXPECT().Hash("new-password").Return("$2a$10$newhash", nil)
			mockRepo.EXPECT().
				UpdateUserPassword(gomock.Any(), userID, "$2a$10$newhash").
				Return(nil)

			assert.NoError(t, c.ResetPassword(ctx, userID, req))
		},
	)

	t.Run(
		"WrongOldPassword", func(t *testing.T) {
			c, mockAuth, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().GetUserByID(gomock.Any(), userID).Return(user, nil)
			mockAuth.EXPECT().
				ComparePasswords(gomock.Any(), gomock.Any()).
				Return(auth.ErrInvalidCredentials)

			err := c.ResetPassword(ctx, userID, req)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		},
	)

	t.Run(
		"UnknownUser", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().GetUserByID(gomock.Any(), userID).Return(nil, repo.ErrNotFound)

			assert.ErrorIs(t, c.ResetPassword(ctx, userID, req), ErrNotFound)
		},
	)
}

func TestController_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run(
		"Success", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().UpdateUserRole(gomock.Any(), userID, md.RoleAdmin).Return(nil)

			err := c.UpdateUserRole(ctx, userID, &dto.UpdateRoleRequest{Role: md.RoleAdmin})
			assert.NoError(t, err)
		},
	)

	t.Run(
		"NotFound", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().
				UpdateUserRole(gomock.Any(), userID, md.RoleUser).
				Return(repo.ErrNotFound)

			err := c.UpdateUserRole(ctx, userID, &dto.UpdateRoleRequest{Role: md.RoleUser})
			assert.ErrorIs(t, err, ErrNotFound)
		},
	)
}

func TestController_DeleteUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run(
		"Success", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().DeleteUser(gomock.Any(), userID).Return(nil)

			assert.NoError(t, c.DeleteUser(ctx, userID))
		},
	)

	t.Run(
		"NotFound", func(t *testing.T) {
			c, _, _, mockRepo, _, _, _, _ := newTestController(t)

			mockRepo.EXPECT().DeleteUser(gomock.Any(), userID).Return(repo.ErrNotFound)

			assert.ErrorIs(t, c.DeleteUser(ctx, userID), ErrNotFound)
		},
	)
}
