package handler

import (
	"net/http"

	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
)

// envelope is the uniform JSON response body. Code is a stable,
// machine-readable classification of failures; Message is display text only.
type envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{IsSuccess: true, Message: message, Data: data})
}

// respondErr maps a service error kind to an HTTP status and envelope code.
func respondErr(c echo.Context, err error) error {
	status, code := http.StatusInternalServerError, "internal"
	switch service.KindOf(err) {
	case service.KindInvalid:
		status, code = http.StatusBadRequest, "invalid_request"
	case service.KindNotFound:
		status, code = http.StatusNotFound, "not_found"
	case service.KindConflict:
		status, code = http.StatusConflict, "conflict"
	case service.KindForbidden:
		status, code = http.StatusForbidden, "forbidden"
	case service.KindRule:
		status, code = http.StatusUnprocessableEntity, "rule_violation"
	}

	message := err.Error()
	if code == "internal" {
		// Internal faults are logged server-side; the detail stays there.
		message = "internal error"
	} else {
		prometheus.RecordRuleRejection(code)
	}
	return c.JSON(status, envelope{IsSuccess: false, Message: message, Code: code})
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}
