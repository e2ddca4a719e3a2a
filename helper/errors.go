package helper

import (
	"errors"
	"net/http"

	"property-service/config"

	"gorm.io/gorm"
)

// AppError carries the status and public message a handler should answer with.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func Conflict(message string) error {
	return &AppError{StatusCode: http.StatusConflict, Message: message}
}

func Invalid(message string) error {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Message: message}
}

func NotFound(message string) error {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

// WriteDbError answers with the AppError's status, 404 for a missing row,
// and a logged 500 for anything else.
func WriteDbError(w http.ResponseWriter, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		WriteJsonError(w, appErr.StatusCode, appErr.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		WriteJsonError(w, http.StatusNotFound, "record not found")
	default:
		config.Config.Logger.Errorf("database error: %v", err)
		WriteJsonError(w, http.StatusInternalServerError, "database error")
	}
}
