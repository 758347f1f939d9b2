package handler

import (
	"net/http"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/deepak-ysoft/bustrips/pkg/jwtutil"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler owns registration, login and organization context selection.
type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Only self-service roles; admins are provisioned out of band.
	role := model.RoleUser
	if req.Role == model.RoleDriver {
		role = model.RoleDriver
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := h.db.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := h.db.Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
		},
	})
}

// SelectOrg re-issues the token with an organization context after verifying
// the caller holds an active membership there.
func (h *AuthHandler) SelectOrg(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		prometheus.RecordAuthError("unauthorized_org_select")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)

	var req struct {
		OrgID uint `json:"org_id"`
	}
	if err := c.Bind(&req); err != nil || req.OrgID == 0 {
		prometheus.RecordAuthError("invalid_org_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "org_id is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var member model.OrganizationMember
	result := h.db.Where("organization_id = ? AND user_id = ?", req.OrgID, userID).First(&member)
	if result.Error != nil {
		log.Warn("Unauthorized organization select attempt",
			zap.Uint("user_id", userID),
			zap.Uint("org_id", req.OrgID))
		prometheus.RecordAuthError("org_access_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied to requested organization"})
	}

	var org model.Organization
	if result := h.db.Select("name").First(&org, req.OrgID); result.Error != nil {
		prometheus.RecordAuthError("org_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
	}

	orgID := req.OrgID
	token, err := jwtutil.GenerateTokenWithOrg(email, userID, role, &orgID, org.Name, string(member.MemberType))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User selected organization",
		zap.Uint("user_id", userID),
		zap.Uint("org_id", req.OrgID),
		zap.String("member_type", string(member.MemberType)))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"organization": map[string]interface{}{
			"id":          req.OrgID,
			"name":        org.Name,
			"member_type": member.MemberType,
		},
	})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var user model.User
	if result := h.db.First(&user, userID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}
