package http

import (
	"net/http"

	"github.com/niposch/wake-on-lan-web/internal/hdl"
	"github.com/niposch/wake-on-lan-web/internal/hdl/http/utils"
)

func (h *Handler) RegisterRoutes() {
	h.Router.Get("/health", h.health)

	h.RegisterAuthRoutes()
	h.RegisterDeviceRoutes()
	h.RegisterUserRoutes()
}

// health godoc
//
//	@Summary		Service health
//	@Description	Reports whether the service and its database are reachable
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		503	{object}	utils.ErrorResponse	"database unreachable"
//	@Router			/health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Health(r.Context()); err != nil {
		utils.ErrResponse(w, http.StatusServiceUnavailable, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, "OK")
}
