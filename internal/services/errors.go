package services

import "net/http"

// FieldError attaches a message to the input field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

// APIError is a domain error carrying the HTTP status it maps to at the
// boundary. Handlers unwrap it with errors.As; anything else is a 500.
type APIError struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func ErrConflict(msg string, fields ...FieldError) *APIError {
	return &APIError{Status: http.StatusConflict, Message: msg, Fields: fields}
}

func ErrUnauthorized(msg string, fields ...FieldError) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: msg, Fields: fields}
}

func ErrBadRequest(msg string, fields ...FieldError) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg, Fields: fields}
}

func ErrNotFound(msg string, fields ...FieldError) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: msg, Fields: fields}
}

// ErrMailDelivery reports an SMTP transport failure. The operation that
// triggered the mail is already committed by the time this surfaces.
func ErrMailDelivery(msg string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: msg}
}
