package internal

import "errors"

// Sentinel errors for the domain. Callers classify with errors.Is; handlers
// map them to HTTP statuses in one place.
var (
	ErrHabitNotFound       = errors.New("habit not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPolicy       = errors.New("invalid frequency policy")
	ErrDuplicateCompletion = errors.New("habit already completed for this date")
	ErrInvalidTimezone     = errors.New("invalid timezone")
)

// AppError is the error shape serialized inside API responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
