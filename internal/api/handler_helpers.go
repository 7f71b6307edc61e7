package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/response"
)

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}

// statusFor maps domain errors onto HTTP statuses in one place so handlers
// never hand-pick codes. Malformed input (JSON decode failures, bad date
// strings, validation errors) is always the client's fault.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	var jsonSyntaxErr *json.SyntaxError
	var jsonTypeErr *json.UnmarshalTypeError
	var dateErr *time.ParseError
	switch {
	case errors.Is(err, internal.ErrHabitNotFound), errors.Is(err, internal.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrDuplicateCompletion),
		errors.Is(err, internal.ErrInvalidPolicy),
		errors.Is(err, internal.ErrInvalidTimezone),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &verrs),
		errors.As(err, &jsonSyntaxErr),
		errors.As(err, &jsonTypeErr),
		errors.As(err, &dateErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	status := statusFor(err)
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)

	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] %s %s -> %d", requestID, c.Request.Method, c.FullPath(), status)
	c.JSON(status, response.Success(data, meta))
}
