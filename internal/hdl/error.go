package hdl

import "errors"

var ErrInternal = errors.New("internal error")
var ErrDecodeRequest = errors.New("decode request")
var ErrValidationFailed = errors.New("validation failed")
var ErrFileTooLarge = errors.New("file too large")

var ErrFailedToGetUUID = errors.New("failed to get uid from context")
var ErrMissingToken = errors.New("missing bearer token")
var ErrForbidden = errors.New("forbidden")
