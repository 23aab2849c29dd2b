package errors

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidUserID      = errors.New("invalid or missing userId")
	ErrValidationFailed   = errors.New("validation failed")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrStoreUnavailable   = errors.New("store unavailable")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigInvalid        = errors.New("invalid configuration")
	ErrUnknownDriver        = errors.New("unknown store driver")

	ErrInvalidGzipRequest = errors.New("invalid gzip request body")
)

// Is and As mirror the standard library for packages importing this one as errors.
var (
	Is = errors.Is
	As = errors.As
)
