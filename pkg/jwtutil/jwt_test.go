package jwtutil

import (
	"testing"

	"github.com/deepak-ysoft/bustrips/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := GenerateToken("user@example.com", 7, "user")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Nil(t, claims.OrgID)
}

func TestTokenCarriesOrgContext(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	orgID := uint(42)
	token, err := GenerateTokenWithOrg("user@example.com", 7, "user", &orgID, "Acme", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.OrgID)
	assert.EqualValues(t, 42, *claims.OrgID)
	assert.Equal(t, "Acme", claims.OrgName)
	assert.Equal(t, "admin", claims.MemberType)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := GenerateToken("user@example.com", 7, "user")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	Initialize(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
