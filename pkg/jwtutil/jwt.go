package jwtutil

import (
	"time"

	"github.com/deepak-ysoft/bustrips/pkg/config"
	"github.com/golang-jwt/jwt/v4"
)

var (
	signingKey = []byte("bustrips-dev-key")
	expiration = time.Hour * 24
)

// Initialize sets the signing key and token lifetime from configuration.
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		signingKey = []byte(cfg.SigningKey)
	}
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims represents the JWT claims for user authentication. The org
// fields are present once the user picked an organization context.
type UserClaims struct {
	Email      string `json:"email"`
	UserID     uint   `json:"user_id"`
	Role       string `json:"role"`
	OrgID      *uint  `json:"org_id,omitempty"`
	OrgName    string `json:"org_name,omitempty"`
	MemberType string `json:"member_type,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token without organization context.
func GenerateToken(email string, userID uint, role string) (string, error) {
	return GenerateTokenWithOrg(email, userID, role, nil, "", "")
}

// GenerateTokenWithOrg creates a JWT token carrying the selected
// organization and the user's member type within it.
func GenerateTokenWithOrg(email string, userID uint, role string, orgID *uint, orgName, memberType string) (string, error) {
	claims := UserClaims{
		Email:      email,
		UserID:     userID,
		Role:       role,
		OrgID:      orgID,
		OrgName:    orgName,
		MemberType: memberType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
