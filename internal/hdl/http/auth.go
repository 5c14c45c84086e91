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
)

func (h *Handler) RegisterAuthRoutes() {
	h.Router.Post("/auth/login", h.authenticate)
	h.Router.Post("/auth/refresh", h.refresh)
	// Deliberately session-free: new accounts must replace their initial
	// password before a login can succeed.
	h.Router.Post("/auth/password", h.changePassword)
	h.Router.With(mid.Auth(h.au, mid.AuthOpts{})).Post("/auth/logout", h.logout)
}

// authenticate godoc
//
//	@Summary		Authenticate using username & password
//	@Description	Verify credentials and issue an access & refresh token pair
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	dto.TokenPair
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse	"account disabled or password change required"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/auth/login [post]
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) {
	req := &dto.LoginRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	res, err := h.ctrl.Authenticate(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.ErrResponse(w, http.StatusUnauthorized, err)
			return
		}

		if errors.Is(err, auth.ErrAccountDisabled) ||
			errors.Is(err, auth.ErrPasswordChangeRequired) {
			utils.ErrResponse(w, http.StatusForbidden, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, res)
}

// refresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Consume a refresh token and issue a new token pair
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	dto.TokenPair
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse	"token revoked or expired"
//	@Failure		403		{object}	utils.ErrorResponse	"account disabled"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/auth/refresh [post]
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	req := &dto.RefreshRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	res, err := h.ctrl.Refresh(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrTokenRevoked) {
			utils.ErrResponse(w, http.StatusUnauthorized, err)
			return
		}

		if errors.Is(err, auth.ErrAccountDisabled) {
			utils.ErrResponse(w, http.StatusForbidden, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, res)
}

// changePassword godoc
//
//	@Summary		Change password using the current password
//	@Description	Replace the password without a session, clearing any pending forced change
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body	dto.ChangePasswordRequest	true	"Username with old and new password"
//	@Success		200		"Password changed"
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse	"wrong username or password"
//	@Failure		403		{object}	utils.ErrorResponse	"account disabled"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/auth/password [post]
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	req := &dto.ChangePasswordRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	if err := h.ctrl.ChangePassword(r.Context(), req); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.ErrResponse(w, http.StatusUnauthorized, err)
			return
		}

		if errors.Is(err, auth.ErrAccountDisabled) {
			utils.ErrResponse(w, http.StatusForbidden, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusOK)
}

// logout godoc
//
//	@Summary		Logout user
//	@Description	Revoke the presented refresh token
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header	string				true	"Bearer access token"
//	@Param			body			body	dto.RefreshRequest	true	"Refresh token to revoke"
//	@Success		200				"Refresh token revoked"
//	@Failure		400				{object}	utils.ErrorResponse
//	@Failure		500				{object}	utils.ErrorResponse
//	@Router			/auth/logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	req := &dto.RefreshRequest{}
	if ok := utils.ParseAndValidate(w, r, req); !ok {
		return
	}

	// Revoking an unknown token is a no-op, the session is gone either way.
	err := h.ctrl.Logout(r.Context(), req.Refresh)
	if err != nil && !errors.Is(err, ctrl.ErrNotFound) {
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusOK)
}
