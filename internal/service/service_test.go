package service

import (
	"testing"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/deepak-ysoft/bustrips/pkg/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newOrgService(t *testing.T) (*OrganizationService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	perms := NewPermissionService(db)
	return NewOrganizationService(db, perms, zap.NewNop()), db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	user := model.User{
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createMember(t *testing.T, db *gorm.DB, orgID, userID uint, mt model.MemberType) *model.OrganizationMember {
	t.Helper()
	m := model.OrganizationMember{OrganizationID: orgID, UserID: userID, MemberType: mt}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func memberType(t *testing.T, db *gorm.DB, orgID, userID uint) model.MemberType {
	t.Helper()
	var m model.OrganizationMember
	require.NoError(t, db.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&m).Error)
	return m.MemberType
}
