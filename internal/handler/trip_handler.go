package handler

import (
	"net/http"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TripHandler exposes trip CRUD and the status workflow endpoints.
type TripHandler struct {
	trips *service.TripService
}

func NewTripHandler(trips *service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	groupID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.TripRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse trip request", zap.Error(err))
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	trip, err := h.trips.Create(groupID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Trip created successfully", trip)
}

func (h *TripHandler) ListForOrg(c echo.Context) error {
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	trips, err := h.trips.ListForOrg(orgID, c.QueryParam("status"))
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", trips)
}

func (h *TripHandler) ListForGroup(c echo.Context) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	trips, err := h.trips.ListForGroup(groupID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", trips)
}

func (h *TripHandler) Get(c echo.Context) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	trip, err := h.trips.Get(tripID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", trip)
}

func (h *TripHandler) Update(c echo.Context) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.TripRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	trip, err := h.trips.Update(tripID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Trip updated successfully", trip)
}

func (h *TripHandler) Quote(c echo.Context) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	trip, err := h.trips.Quote(tripID, req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.RecordTripTransition(string(trip.Status))
	return respond(c, http.StatusOK, "Trip quoted successfully", trip)
}

func (h *TripHandler) Approve(c echo.Context) error {
	return h.workflow(c, h.trips.Approve, "Trip approved successfully")
}

func (h *TripHandler) Reject(c echo.Context) error {
	return h.workflow(c, h.trips.Reject, "Trip rejected")
}

func (h *TripHandler) Start(c echo.Context) error {
	return h.workflow(c, h.trips.Start, "Trip is now live")
}

func (h *TripHandler) Complete(c echo.Context) error {
	return h.workflow(c, h.trips.Complete, "Trip completed")
}

func (h *TripHandler) Cancel(c echo.Context) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	trip, err := h.trips.Cancel(tripID, req.Reason)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.RecordTripTransition(string(trip.Status))
	return respond(c, http.StatusOK, "Trip canceled", trip)
}

func (h *TripHandler) Assign(c echo.Context) error {
	log := logger.FromContext(c)

	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		DriverID *uint `json:"driver_id"`
		BusID    *uint `json:"bus_id"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}
	if req.DriverID == nil && req.BusID == nil {
		return respondErr(c, service.Invalid("driver_id or bus_id is required"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	trip, err := h.trips.Assign(tripID, req.DriverID, req.BusID)
	if err != nil {
		return respondErr(c, err)
	}
	log.Info("trip assignment updated",
		zap.Uint("trip_id", trip.ID),
		zap.Any("driver_id", trip.DriverID),
		zap.Any("bus_id", trip.BusID))
	return respond(c, http.StatusOK, "Trip assignment updated", trip)
}

func (h *TripHandler) Delete(c echo.Context) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.trips.SoftDelete(tripID); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Trip deleted successfully", nil)
}

func (h *TripHandler) workflow(c echo.Context, op func(uint) (*model.Trip, error), message string) error {
	tripID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	trip, err := op(tripID)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.RecordTripTransition(string(trip.Status))
	return respond(c, http.StatusOK, message, trip)
}
