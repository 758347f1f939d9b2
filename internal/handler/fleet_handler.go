package handler

import (
	"net/http"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
)

// FleetHandler exposes bus CRUD; routes are admin-only via middleware.
type FleetHandler struct {
	fleet *service.FleetService
}

func NewFleetHandler(fleet *service.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

func (h *FleetHandler) Create(c echo.Context) error {
	var req service.BusRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	bus, err := h.fleet.Create(req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Bus created successfully", bus)
}

func (h *FleetHandler) List(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	buses, err := h.fleet.List()
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", buses)
}

func (h *FleetHandler) Get(c echo.Context) error {
	busID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	bus, err := h.fleet.Get(busID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", bus)
}

func (h *FleetHandler) Update(c echo.Context) error {
	busID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.BusRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	bus, err := h.fleet.Update(busID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Bus updated successfully", bus)
}

func (h *FleetHandler) Delete(c echo.Context) error {
	busID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.fleet.SoftDelete(busID); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Bus deleted successfully", nil)
}
