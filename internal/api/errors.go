package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/alexanderramin/shopfloor/internal/service"
)

// Error is the JSON error body. Status and the wrapped error stay server side.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, status int, message string, err error) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

var scheduleStatus = map[app.ScheduleErrorCode]int{
	app.ScheduleErrNoShifts:        http.StatusConflict,
	app.ScheduleErrInvalidCalendar: http.StatusUnprocessableEntity,
	app.ScheduleErrNotFound:        http.StatusNotFound,
	app.ScheduleErrInternal:        http.StatusInternalServerError,
}

// FromError maps service and repository errors onto API errors.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var schedErr *app.ScheduleError
	if errors.As(err, &schedErr) {
		status, ok := scheduleStatus[schedErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return newError(string(schedErr.Code), status, schedErr.Message, err)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return newError("NOT_FOUND", http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrInvalidInput):
		return newError("VALIDATION_ERROR", http.StatusBadRequest, err.Error(), err)
	default:
		return newError("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error", err)
	}
}
