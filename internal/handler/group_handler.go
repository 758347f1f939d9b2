package handler

import (
	"net/http"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GroupHandler exposes group CRUD inside an organization.
type GroupHandler struct {
	groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.GroupRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse group request", zap.Error(err))
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	group, err := h.groups.Create(userID, orgID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Group created successfully", group)
}

func (h *GroupHandler) List(c echo.Context) error {
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	groups, err := h.groups.ListForOrg(orgID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", groups)
}

func (h *GroupHandler) Get(c echo.Context) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	group, err := h.groups.Get(groupID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", group)
}

func (h *GroupHandler) Update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	groupID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.GroupRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	group, err := h.groups.Update(userID, groupID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Group updated successfully", group)
}

func (h *GroupHandler) Delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	groupID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.groups.SoftDelete(userID, groupID); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Group deleted successfully", nil)
}
