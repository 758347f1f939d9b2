package middleware

import (
	"net/http"
	"strings"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/deepak-ysoft/bustrips/pkg/jwtutil"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		if claims.OrgID != nil {
			c.Set("org_id", *claims.OrgID)
			c.Set("org_name", claims.OrgName)
			c.Set("member_type", claims.MemberType)

			log.Debug("Request authenticated with organization context",
				zap.Uint("org_id", *claims.OrgID),
				zap.String("org_name", claims.OrgName),
				zap.String("member_type", claims.MemberType))
		}

		return next(c)
	}
}

// RequireAppAdmin restricts a route to users with the application admin role.
func RequireAppAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleAdmin {
			logger.FromContext(c).Warn("admin-only route denied",
				zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "administrator access required"})
		}
		return next(c)
	}
}

// RequireOrgContext restricts a route to tokens carrying an organization
// context (issued by the org select endpoint).
func RequireOrgContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("org_id").(uint); !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "select an organization first"})
		}
		return next(c)
	}
}
