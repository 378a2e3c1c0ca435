package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication errors. All three show the same sign-in message; the
// sentinel and the cause tell them apart.
var (
	ErrMissingToken = errors.New("Please sign in")
	ErrInvalidToken = errors.New("Please sign in")
	ErrExpiredToken = errors.New("Please sign in")
)

// Request & input-validation errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrUnsupportedFileType  = errors.New("Please upload a CSV or XLSX file")
	ErrFileTooLarge         = errors.New("File size must be less than 50MB")
	ErrIncompleteS3Config   = errors.New("Please fill in all S3 configuration fields")
)

const signInHint = "You need to be authenticated to use this app."

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    signInHint,
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    signInHint,
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Details:    signInHint,
		Field:      "authorization",
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

// NewUnsupportedFileTypeError is the rendered message for a file outside the allow-list
func NewUnsupportedFileTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedFileType,
		Field:      "file",
		Cause:      fmt.Errorf("content type %q", contentType),
	}
}

func NewFileTooLargeError(size, maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrFileTooLarge,
		Field:      "file",
		Cause:      fmt.Errorf("%d bytes exceeds %d", size, maxSize),
	}
}

// NewIncompleteS3ConfigError names the first empty field of the S3 form
func NewIncompleteS3ConfigError(missing []string) *ApiErr {
	field := ""
	if len(missing) > 0 {
		field = missing[0]
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrIncompleteS3Config,
		Field:      field,
	}
}

func IsUnsupportedFileTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedFileType)
}

func IsFileTooLargeError(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsIncompleteS3ConfigError(err error) bool {
	return errors.Is(err, ErrIncompleteS3Config)
}
