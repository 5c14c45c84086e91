package http

import (
	"errors"
	"net/http"

	"github.com/niposch/wake-on-lan-web/internal/auth"
	"github.com/niposch/wake-on-lan-web/internal/ctrl"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	"github.com/niposch/wake-on-lan-web/internal/hdl"
	mid "github.com/niposch/wake-on-lan-web/internal/hdl/http/middleware"
	"github.com/niposch/wake-on-lan-web/internal/hdl/http/utils"
	_ "github.com/niposch/wake-on-lan-web/internal/models"
)

func (h *Handler) RegisterUserRoutes() {
	authed := mid.Auth(h.au, mid.AuthOpts{})
	admin := mid.Auth(h.au, mid.AuthOpts{AdminOnly: true})

	h.Router.With(authed).Get("/users/me", h.getMe)
	h.Router.With(authed).Post("/users/password", h.resetPassword)
	h.Router.With(admin).Get("/users", h.listUsers)
	h.Router.With(admin).Post("/users", h.createUser)
	h.Router.With(admin).Put("/users/{id}/role", h.updateUserRole)
	h.Router.With(admin).Delete("/users/{id}", h.deleteUser)
}

// getMe godoc
//
//	@Summary		Retrieve current user profile
//	@Description	Returns the authenticated user's profile
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	models.User
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse	"user not found"
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/users/me [get]
func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := actorFromCtx(w, r)
	if !ok {
		return
	}

	res, err := h.ctrl.GetUserByID(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, res)
}

// resetPassword godoc
//
//	@Summary		Change own password
//	@Description	Verifies the current password and stores a new one
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			body	body	dto.ResetPasswordRequest	true	"Old and new password"
//	@Success		200		"Password changed"
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse	"wrong current password"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/users/password [post]
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := actorFromCtx(w, r)
	if !ok {
		return
	}

	req := &dto.ResetPasswordRequest{}
	if ok = utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	if err := h.ctrl.ResetPassword(r.Context(), uid, req); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.ErrResponse(w, http.StatusUnauthorized, err)
			return
		}

		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusOK)
}

// listUsers godoc
//
//	@Summary		List all users
//	@Description	Retrieve a paginated list of users
//	@Tags			User
//	@Produce		json
//	@Param			page	query		int	false	"Page number"	default(1)
//	@Param			size	query		int	false	"Page size"		default(40)
//	@Success		200		{object}	dto.PaginatedUserResponse
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, size := utils.ParsePaginationValues(r)

	res, err := h.ctrl.ListUsers(r.Context(), page, size)
	if err != nil {
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, res)
}

// createUser godoc
//
//	@Summary		Create a new user
//	@Description	Creates a user and returns its generated initial password once
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CreateUserRequest	true	"Username and role"
//	@Success		201		{object}	dto.CreateUserResponse
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse
//	@Failure		409		{object}	utils.ErrorResponse	"username already taken"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/users [post]
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	req := &dto.CreateUserRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	res, err := h.ctrl.CreateUser(r.Context(), req)
	if err != nil {
		if errors.Is(err, ctrl.ErrAlreadyExists) {
			utils.ErrResponse(w, http.StatusConflict, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusCreated, res)
}

// updateUserRole godoc
//
//	@Summary		Change a user's role
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"User UUID"
//	@Param			body	body	dto.UpdateRoleRequest	true	"New role"
//	@Success		200		"Role updated"
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse
//	@Failure		404		{object}	utils.ErrorResponse
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/users/{id}/role [put]
func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	uid, ok := parsePathID(w, r)
	if !ok {
		return
	}

	req := &dto.UpdateRoleRequest{}
	if ok = utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	if err := h.ctrl.UpdateUserRole(r.Context(), uid, req); err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusOK)
}

// deleteUser godoc
//
//	@Summary		Delete a user
//	@Description	Removes the account and all its refresh tokens
//	@Tags			User
//	@Produce		json
//	@Param			id	path	string	true	"User UUID"
//	@Success		204	"Deleted"
//	@Failure		400	{object}	utils.ErrorResponse
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		403	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/users/{id} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.DeleteUser(r.Context(), uid); err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusNoContent)
}
