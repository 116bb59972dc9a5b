package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
	GetPublicMessage() string
}

// httpError carries the http status to respond with, a message that is safe to show to the caller and the
// underlying cause that is only meant for logging.
type httpError struct {
	httpCode      int
	publicMessage string
	err           error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func (e httpError) GetPublicMessage() string {
	if e.publicMessage != "" {
		return e.publicMessage
	}
	return http.StatusText(e.httpCode)
}

func newError(httpCode int, publicMessage string, err error) *httpError {
	return &httpError{
		httpCode:      httpCode,
		publicMessage: publicMessage,
		err:           err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, err.Error(), err)
}

func NewInvalidInputErrorf(format string, args ...interface{}) *httpError {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

// NewProviderRejectedError reports that the payment provider refused the request. The provider's own message
// is kept out of the response.
func NewProviderRejectedError(err error) *httpError {
	return newError(http.StatusBadRequest, "payment provider rejected the checkout request", err)
}

func NewNotFoundError(err error) *httpError {
	return newError(http.StatusNotFound, "", err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, "", err)
}

func NewConfigurationError(err error) *httpError {
	return newError(http.StatusInternalServerError, "payment provider is not configured", err)
}

func NewBadGatewayError(publicMessage string, err error) *httpError {
	return newError(http.StatusBadGateway, publicMessage, err)
}

func NewUnavailableError(publicMessage string, err error) *httpError {
	return newError(http.StatusServiceUnavailable, publicMessage, err)
}

func NewGatewayTimeoutError(err error) *httpError {
	return newError(http.StatusGatewayTimeout, "payment provider timed out", err)
}

func GetHTTPStatus(err error) int {
	var myError httpErrorCoder
	if errors.As(err, &myError) {
		return myError.GetHTTPErrorCode()
	}
	return http.StatusInternalServerError
}

// GetPublicMessage returns the text that may be returned to the caller. Errors that do not carry an http status
// never expose their text.
func GetPublicMessage(err error) string {
	var myError httpErrorCoder
	if errors.As(err, &myError) {
		return myError.GetPublicMessage()
	}
	return http.StatusText(http.StatusInternalServerError)
}
