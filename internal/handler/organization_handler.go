package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrganizationHandler exposes the organization lifecycle, membership and
// permission endpoints.
type OrganizationHandler struct {
	orgs  *service.OrganizationService
	perms *service.PermissionService
}

func NewOrganizationHandler(orgs *service.OrganizationService, perms *service.PermissionService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, perms: perms}
}

func (h *OrganizationHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("create")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req service.OrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization request", zap.Error(err))
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	org, err := h.orgs.Create(userID, req)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.ActiveOrgsGauge.Inc()
	return respond(c, http.StatusCreated, "Organization created successfully", org)
}

// CreateDefault provisions the first-login default organization.
func (h *OrganizationHandler) CreateDefault(c echo.Context) error {
	prometheus.RecordOrgOperation("create_default")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	org, err := h.orgs.CreateDefaultOrg(userID)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.ActiveOrgsGauge.Inc()
	return respond(c, http.StatusCreated, "Default organization created successfully", org)
}

func (h *OrganizationHandler) List(c echo.Context) error {
	prometheus.RecordOrgOperation("list")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	memberships, err := h.orgs.ListForUser(userID)
	if err != nil {
		return respondErr(c, err)
	}

	type orgEntry struct {
		ID         uint             `json:"id"`
		Name       string           `json:"name"`
		ShortName  string           `json:"short_name"`
		IsActive   bool             `json:"is_active"`
		IsPrimary  bool             `json:"is_primary"`
		MemberType model.MemberType `json:"member_type"`
	}
	entries := make([]orgEntry, 0, len(memberships))
	for _, m := range memberships {
		entries = append(entries, orgEntry{
			ID:         m.OrganizationID,
			Name:       m.Organization.Name,
			ShortName:  m.Organization.ShortName,
			IsActive:   m.Organization.IsActive,
			IsPrimary:  m.Organization.IsPrimary,
			MemberType: m.MemberType,
		})
	}
	return respond(c, http.StatusOK, "", entries)
}

func (h *OrganizationHandler) Get(c echo.Context) error {
	prometheus.RecordOrgOperation("details")

	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	org, err := h.orgs.Get(orgID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", org)
}

func (h *OrganizationHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("update")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.OrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization request", zap.Error(err))
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	org, err := h.orgs.Update(userID, orgID, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Organization updated successfully", org)
}

func (h *OrganizationHandler) Delete(c echo.Context) error {
	prometheus.RecordOrgOperation("delete")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.orgs.SoftDelete(userID, orgID); err != nil {
		return respondErr(c, err)
	}
	prometheus.ActiveOrgsGauge.Dec()
	return respond(c, http.StatusOK, "Organization deleted successfully", nil)
}

func (h *OrganizationHandler) Restore(c echo.Context) error {
	prometheus.RecordOrgOperation("restore")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	org, err := h.orgs.Restore(userID, orgID)
	if err != nil {
		return respondErr(c, err)
	}
	prometheus.ActiveOrgsGauge.Inc()
	return respond(c, http.StatusOK, "Organization restored successfully", org)
}

func (h *OrganizationHandler) Members(c echo.Context) error {
	prometheus.RecordOrgOperation("members")

	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	members, err := h.orgs.Members(orgID)
	if err != nil {
		return respondErr(c, err)
	}

	type memberEntry struct {
		UserID     uint             `json:"user_id"`
		Email      string           `json:"email"`
		FirstName  string           `json:"first_name"`
		LastName   string           `json:"last_name"`
		MemberType model.MemberType `json:"member_type"`
		IsInvited  bool             `json:"is_invited"`
	}
	entries := make([]memberEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, memberEntry{
			UserID:     m.UserID,
			Email:      m.User.Email,
			FirstName:  m.User.FirstName,
			LastName:   m.User.LastName,
			MemberType: m.MemberType,
			IsInvited:  m.IsInvited,
		})
	}
	return respond(c, http.StatusOK, "", entries)
}

func (h *OrganizationHandler) Invite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("invite")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		log.Error("Failed to parse invite request")
		return respondErr(c, service.Invalid("email is required"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	member, err := h.orgs.Invite(userID, orgID, req.Email)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Member invited successfully", member)
}

func (h *OrganizationHandler) ChangeRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("role_change")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		UserID uint   `json:"user_id"`
		Action string `json:"action"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		log.Error("Failed to parse role change request")
		return respondErr(c, service.Invalid("user_id and action are required"))
	}
	action, err := model.ParseMemberType(req.Action)
	if err != nil {
		return respondErr(c, service.Invalid("invalid role action %q", req.Action))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.orgs.ChangeMemberRole(userID, orgID, req.UserID, action); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Member role updated successfully", nil)
}

func (h *OrganizationHandler) SelfRemove(c echo.Context) error {
	prometheus.RecordOrgOperation("self_remove")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req struct {
		MemberType string `json:"member_type"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}
	memberType, err := model.ParseMemberType(req.MemberType)
	if err != nil {
		return respondErr(c, service.Invalid("invalid member type %q", req.MemberType))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.orgs.SelfRemove(userID, orgID, memberType); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Member removed successfully", nil)
}

// Permissions returns the editable permission matrix for an organization.
func (h *OrganizationHandler) Permissions(c echo.Context) error {
	prometheus.RecordOrgOperation("permissions")

	orgID, err := paramID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	perms, err := h.perms.ListPermissions(orgID)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "", perms)
}

func (h *OrganizationHandler) CreatePermission(c echo.Context) error {
	prometheus.RecordOrgOperation("permission_create")

	var req service.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	perm, err := h.perms.CreatePermission(req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Permission created successfully", perm)
}

func (h *OrganizationHandler) UpdatePermission(c echo.Context) error {
	prometheus.RecordOrgOperation("permission_update")

	pid, err := paramID(c, "pid")
	if err != nil {
		return respondErr(c, err)
	}

	var req service.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, service.Invalid("invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	perm, err := h.perms.UpdatePermission(pid, req)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Permission updated successfully", perm)
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, service.Invalid("invalid %s", name)
	}
	return uint(id), nil
}
