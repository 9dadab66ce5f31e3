package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/auth"
	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// codeStatus maps domain error codes to response statuses. Unlisted codes are server errors.
var codeStatus = map[string]int{
	"invalid_input":              http.StatusBadRequest,
	"email_exists":               http.StatusBadRequest,
	"isbn_exists":                http.StatusBadRequest,
	"user_not_found":             http.StatusNotFound,
	"book_not_found":             http.StatusNotFound,
	"rental_not_found":           http.StatusNotFound,
	"user_in_use":                http.StatusConflict,
	"book_in_use":                http.StatusConflict,
	"book_unavailable":           http.StatusConflict,
	"already_returned":           http.StatusConflict,
	auth.CodeInvalidCredentials:  http.StatusUnauthorized,
	auth.CodeInvalidRefreshToken: http.StatusUnauthorized,
	auth.CodeMissingRefreshToken: http.StatusBadRequest,
	auth.CodeUnauthenticated:     http.StatusUnauthorized,
}

// fromDomainError translates a service error into its response form.
// Server errors keep their code but never expose the cause.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := codeStatus[code]
	if !ok {
		if code == "" {
			code = "internal_error"
		}
		return NewHTTPError(http.StatusInternalServerError, code, "something went wrong", err)
	}
	if status == http.StatusUnauthorized && code == auth.CodeUnauthenticated {
		return unauthorized(err)
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}

func unauthorized(err error) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "unauthorized", "could not validate credentials", err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
