package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/agent"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/niposch/wake-on-lan-web/internal/ctrl"
	"github.com/niposch/wake-on-lan-web/internal/dto"
	"github.com/niposch/wake-on-lan-web/internal/hdl"
	mid "github.com/niposch/wake-on-lan-web/internal/hdl/http/middleware"
	"github.com/niposch/wake-on-lan-web/internal/hdl/http/utils"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"github.com/niposch/wake-on-lan-web/internal/wol"
	"go.uber.org/zap"
)

func (h *Handler) RegisterDeviceRoutes() {
	authed := mid.Auth(h.au, mid.AuthOpts{})
	admin := mid.Auth(h.au, mid.AuthOpts{AdminOnly: true})

	h.Router.With(authed).Get("/devices", h.listDevices)
	h.Router.With(authed).Get("/devices/{id}", h.getDevice)
	h.Router.With(admin).Post("/devices", h.createDevice)
	h.Router.With(admin).Put("/devices/{id}", h.updateDevice)
	h.Router.With(admin).Delete("/devices/{id}", h.deleteDevice)

	h.Router.With(authed).Post("/devices/{id}/wake", h.wakeDevice)
	h.Router.With(authed).Post("/devices/{id}/shutdown", h.shutdownDevice)
	h.Router.With(authed).Get("/devices/{id}/events", h.listDeviceEvents)
}

func parsePathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		zap.L().Debug(
			hdl.ErrFailedToGetUUID.Error(),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.ErrResponse(w, http.StatusBadRequest, hdl.ErrFailedToGetUUID)
		return uuid.Nil, false
	}
	return id, true
}

func actorFromCtx(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	uid, ok := r.Context().Value(config.UidKey).(uuid.UUID)
	if !ok || uid == uuid.Nil {
		zap.L().Error(
			hdl.ErrFailedToGetUUID.Error(),
			zap.Any("uid", r.Context().Value(config.UidKey)),
		)
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return uuid.Nil, false
	}
	return uid, true
}

// listDevices godoc
//
//	@Summary		List devices
//	@Description	Retrieve a paginated device list with optional filters
//	@Tags			Device
//	@Produce		json
//	@Param			page			query	int		false	"Page number"	default(1)
//	@Param			size			query	int		false	"Page size"		default(40)
//	@Param			is_online		query	bool	false	"Filter by reachability"
//	@Param			agent_enabled	query	bool	false	"Filter by agent availability"
//	@Param			name			query	string	false	"Filter by name substring"
//	@Success		200	{object}	dto.PaginatedDeviceResponse
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices [get]
func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	page, size := utils.ParsePaginationValues(r)
	res, err := h.ctrl.ListDevices(r.Context(), page, size, utils.ParseDeviceFilters(r))
	if err != nil {
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusOK, res)
}

// getDevice godoc
//
//	@Summary		Get device by ID
//	@Tags			Device
//	@Produce		json
//	@Param			id	path		string	true	"Device UUID"
//	@Success		200	{object}	dto.DeviceResponse
//	@Failure		400	{object}	utils.ErrorResponse
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices/{id} [get]
func (h *Handler) getDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	res, err := h.ctrl.GetDevice(r.Context(), id)
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

// createDevice godoc
//
//	@Summary		Create a device
//	@Description	Registers a device with optional icon upload
//	@Tags			Device
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			data	formData	string	true	"JSON payload in 'data' field"
//	@Param			icon	formData	file	false	"Icon image file"
//	@Success		201		{object}	dto.CreateDeviceResponse
//	@Failure		400		{object}	utils.ErrorResponse	"bad request or malformed MAC"
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse
//	@Failure		409		{object}	utils.ErrorResponse	"device already exists"
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/devices [post]
func (h *Handler) createDevice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxMemory); err != nil {
		zap.L().Debug("failed to parse multipart form", zap.Error(err))
		utils.ErrResponse(w, http.StatusBadRequest, hdl.ErrDecodeRequest)
		return
	}

	req := &dto.CreateDeviceRequest{}
	if err := json.Unmarshal([]byte(r.FormValue("data")), req); err != nil {
		utils.ErrResponse(w, http.StatusBadRequest, hdl.ErrDecodeRequest)
		return
	}

	if !utils.ValidateStruct(w, req) {
		return
	}

	fileReq := &s3.UploadFileRequest{}
	if err := utils.ParseFileField(r, "icon", fileReq); err != nil {
		if errors.Is(err, hdl.ErrInternal) {
			utils.ErrResponse(w, http.StatusInternalServerError, err)
			return
		}
		utils.ErrResponse(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.ctrl.CreateDevice(r.Context(), req, fileReq)
	if err != nil {
		if errors.Is(err, wol.ErrInvalidMAC) {
			utils.ErrResponse(w, http.StatusBadRequest, err)
			return
		}

		if errors.Is(err, ctrl.ErrAlreadyExists) {
			utils.ErrResponse(w, http.StatusConflict, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.SuccessResponse(w, http.StatusCreated, res)
}

// updateDevice godoc
//
//	@Summary		Update a device
//	@Tags			Device
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Device UUID"
//	@Param			data	formData	string	true	"JSON payload in 'data' field"
//	@Param			icon	formData	file	false	"Icon image file"
//	@Success		200		"OK"
//	@Failure		400		{object}	utils.ErrorResponse
//	@Failure		401		{object}	utils.ErrorResponse
//	@Failure		403		{object}	utils.ErrorResponse
//	@Failure		404		{object}	utils.ErrorResponse
//	@Failure		500		{object}	utils.ErrorResponse
//	@Router			/devices/{id} [put]
func (h *Handler) updateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(config.MaxMemory); err != nil {
		zap.L().Debug("failed to parse multipart form", zap.Error(err))
		utils.ErrResponse(w, http.StatusBadRequest, hdl.ErrDecodeRequest)
		return
	}

	req := &dto.UpdateDeviceRequest{}
	if err := json.Unmarshal([]byte(r.FormValue("data")), req); err != nil {
		utils.ErrResponse(w, http.StatusBadRequest, hdl.ErrDecodeRequest)
		return
	}

	if !utils.ValidateStruct(w, req) {
		return
	}

	fileReq := &s3.UploadFileRequest{}
	if err := utils.ParseFileField(r, "icon", fileReq); err != nil {
		if errors.Is(err, hdl.ErrInternal) {
			utils.ErrResponse(w, http.StatusInternalServerError, err)
			return
		}
		utils.ErrResponse(w, http.StatusBadRequest, err)
		return
	}

	err := h.ctrl.UpdateDevice(r.Context(), id, req, fileReq)
	if err != nil {
		if errors.Is(err, wol.ErrInvalidMAC) {
			utils.ErrResponse(w, http.StatusBadRequest, err)
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

// deleteDevice godoc
//
//	@Summary		Delete a device
//	@Tags			Device
//	@Produce		json
//	@Param			id	path	string	true	"Device UUID"
//	@Success		204	"Deleted"
//	@Failure		400	{object}	utils.ErrorResponse
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		403	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices/{id} [delete]
func (h *Handler) deleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.DeleteDevice(r.Context(), id); err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}
		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusNoContent)
}

// wakeDevice godoc
//
//	@Summary		Wake a device
//	@Description	Broadcasts a magic packet to the device's network
//	@Tags			Device
//	@Produce		json
//	@Param			id	path	string	true	"Device UUID"
//	@Success		202	"Magic packet sent"
//	@Failure		400	{object}	utils.ErrorResponse	"malformed MAC on record"
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices/{id}/wake [post]
func (h *Handler) wakeDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	actor, ok := actorFromCtx(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.SendWake(r.Context(), id, actor); err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}

		if errors.Is(err, wol.ErrInvalidMAC) {
			utils.ErrResponse(w, http.StatusBadRequest, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusAccepted)
}

// shutdownDevice godoc
//
//	@Summary		Shut down a device
//	@Description	Sends a shutdown command to the device's agent
//	@Tags			Device
//	@Produce		json
//	@Param			id	path	string	true	"Device UUID"
//	@Success		202	"Shutdown requested"
//	@Failure		400	{object}	utils.ErrorResponse	"agent disabled or device has no IP"
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		502	{object}	utils.ErrorResponse	"agent unreachable or refused"
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices/{id}/shutdown [post]
func (h *Handler) shutdownDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	actor, ok := actorFromCtx(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.SendShutdown(r.Context(), id, actor); err != nil {
		if errors.Is(err, ctrl.ErrNotFound) {
			utils.ErrResponse(w, http.StatusNotFound, err)
			return
		}

		if errors.Is(err, ctrl.ErrAgentDisabled) || errors.Is(err, ctrl.ErrNoIPAddress) {
			utils.ErrResponse(w, http.StatusBadRequest, err)
			return
		}

		if errors.Is(err, agent.ErrAgentFailed) {
			utils.ErrResponse(w, http.StatusBadGateway, err)
			return
		}

		utils.ErrResponse(w, http.StatusInternalServerError, hdl.ErrInternal)
		return
	}

	utils.StatusResponse(w, http.StatusAccepted)
}

// listDeviceEvents godoc
//
//	@Summary		List device events
//	@Description	Paginated audit trail of wake, shutdown and probe transitions
//	@Tags			Device
//	@Produce		json
//	@Param			id		path	string	true	"Device UUID"
//	@Param			page	query	int		false	"Page number"	default(1)
//	@Param			size	query	int		false	"Page size"		default(40)
//	@Success		200	{object}	dto.PaginatedEventResponse
//	@Failure		400	{object}	utils.ErrorResponse
//	@Failure		401	{object}	utils.ErrorResponse
//	@Failure		404	{object}	utils.ErrorResponse
//	@Failure		500	{object}	utils.ErrorResponse
//	@Router			/devices/{id}/events [get]
func (h *Handler) listDeviceEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	page, size := utils.ParsePaginationValues(r)
	res, err := h.ctrl.ListDeviceEvents(r.Context(), id, page, size)
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
