package pkg

import "fmt"

// AppError is the error shape surfaced at the HTTP boundary.
//
// Code is a stable machine-readable identifier; Message is safe to show to a
// caller. Err keeps the underlying cause for logs and is never serialized.
type AppError struct {
	Code       string
	Message    string
	Err        error
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewDomainError builds an AppError wrapping an underlying cause.
func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

// NewDomainErrorSimple builds an AppError with no underlying cause.
func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// HTTPErrorBody is the JSON body written for a failed request.
type HTTPErrorBody struct {
	Error HTTPErrorDetail `json:"error"`
}

type HTTPErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToHTTPError converts the error into the serializable response body.
func (e *AppError) ToHTTPError() HTTPErrorBody {
	return HTTPErrorBody{Error: HTTPErrorDetail{Code: e.Code, Message: e.Message}}
}
