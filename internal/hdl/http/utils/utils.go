package utils

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/niposch/wake-on-lan-web/internal/hdl"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"go.uber.org/zap"
)

var validate = validator.New()

type Response struct {
	Data any `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func SuccessResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(
		&Response{
			Data: data,
		},
	)
}

func StatusResponse(w http.ResponseWriter, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
}

func ErrResponse(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(
		&ErrorResponse{
			Error: err.Error(),
		},
	)
}

// ParseAndValidate decodes the JSON body into req and runs struct
// validation. On failure it writes the error response and returns false.
func ParseAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrResponse(w, http.StatusBadRequest, hdl.ErrDecodeRequest)
		return false
	}

	if err := validate.Struct(req); err != nil {
		zap.L().Debug("validation failed", zap.Error(err))
		ErrResponse(w, http.StatusBadRequest, hdl.ErrValidationFailed)
		return false
	}

	return true
}

// ValidateStruct runs struct validation on an already decoded request.
// On failure it writes the error response and returns false.
func ValidateStruct(w http.ResponseWriter, req any) bool {
	if err := validate.Struct(req); err != nil {
		zap.L().Debug("validation failed", zap.Error(err))
		ErrResponse(w, http.StatusBadRequest, hdl.ErrValidationFailed)
		return false
	}

	return true
}

// ParseFileField reads an optional multipart file field into dst.
// A missing field is not an error and leaves dst empty.
func ParseFileField(r *http.Request, field string, dst *s3.UploadFileRequest) error {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return hdl.ErrDecodeRequest
	}
	defer file.Close()

	if header.Size > config.MaxMemory {
		return hdl.ErrFileTooLarge
	}

	bytes, err := io.ReadAll(file)
	if err != nil {
		return hdl.ErrInternal
	}

	dst.Name = header.Filename
	dst.ContentType = header.Header.Get("Content-Type")
	dst.File = bytes
	return nil
}

func ParsePaginationValues(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = config.DefaultPage
	}

	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 {
		size = config.DefaultSize
	}

	return page, size
}

// ParseDeviceFilters reads the optional device list filters.
func ParseDeviceFilters(r *http.Request) map[string]any {
	filters := make(map[string]any)

	if v := r.URL.Query().Get("is_online"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters["is_online"] = b
		}
	}

	if v := r.URL.Query().Get("agent_enabled"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters["agent_enabled"] = b
		}
	}

	if v := r.URL.Query().Get("name"); v != "" {
		filters["name"] = v
	}

	return filters
}
