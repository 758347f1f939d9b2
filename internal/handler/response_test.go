package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrMapsKindsToStatusAndCode(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.Invalid("bad input"), http.StatusBadRequest, "invalid_request"},
		{service.NotFound("missing"), http.StatusNotFound, "not_found"},
		{service.Conflict("duplicate"), http.StatusConflict, "conflict"},
		{service.Forbidden("no access"), http.StatusForbidden, "forbidden"},
		{service.Rule("illegal transition"), http.StatusUnprocessableEntity, "rule_violation"},
	}

	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, respondErr(c, tc.err))
		assert.Equal(t, tc.status, rec.Code)

		var body envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.IsSuccess)
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.err.Error(), body.Message)
	}
}

func TestRespondErrMasksInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondErr(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Code)
	assert.Equal(t, "internal error", body.Message)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}
