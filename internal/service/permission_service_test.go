package service

import (
	"testing"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestGetOrgPermissionBootstrapsDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	perm, err := svc.GetOrgPermission(42, model.MemberTypeMember)
	require.NoError(t, err)
	assert.Equal(t, model.MemberTypeMember, perm.MemberType)
	assert.True(t, perm.CanView)
	assert.True(t, perm.CanCreate)
	assert.True(t, perm.CanEdit)
	assert.True(t, perm.CanDeactivate)

	// One all-true row per member type.
	var rows []model.OrganizationPermission
	require.NoError(t, db.Where("organization_id = ?", 42).Find(&rows).Error)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.True(t, r.CanView && r.CanCreate && r.CanEdit && r.CanDeactivate)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	_, err := svc.GetOrgPermission(7, model.MemberTypeAdmin)
	require.NoError(t, err)
	_, err = svc.ListPermissions(7)
	require.NoError(t, err)
	require.NoError(t, svc.Bootstrap(db, 7))

	var count int64
	db.Model(&model.OrganizationPermission{}).Where("organization_id = ?", 7).Count(&count)
	assert.EqualValues(t, 4, count)
}

func TestListPermissionsHidesCreatorRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	perms, err := svc.ListPermissions(9)
	require.NoError(t, err)
	require.Len(t, perms, 3)
	for _, p := range perms {
		assert.NotEqual(t, model.MemberTypeCreator, p.MemberType)
	}
}

func TestCreatePermissionDefaultsAbsentFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	perm, err := svc.CreatePermission(PermissionRequest{
		OrganizationID: 3,
		MemberType:     "member",
		CanEdit:        boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, perm.CanEdit)
	assert.True(t, perm.CanView)
	assert.True(t, perm.CanCreate)
	assert.True(t, perm.CanDeactivate)
}

func TestCreatePermissionRejectsUnknownMemberType(t *testing.T) {
	svc := NewPermissionService(newTestDB(t))

	_, err := svc.CreatePermission(PermissionRequest{OrganizationID: 3, MemberType: "superuser"})
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestUpdatePermissionIsPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	perm, err := svc.GetOrgPermission(5, model.MemberTypeReadOnly)
	require.NoError(t, err)

	updated, err := svc.UpdatePermission(perm.ID, PermissionRequest{
		CanDeactivate: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.CanDeactivate)
	// Absent flags stay as stored.
	assert.True(t, updated.CanView)
	assert.True(t, updated.CanCreate)
	assert.True(t, updated.CanEdit)
}

func TestUpdatePermissionUnknownID(t *testing.T) {
	svc := NewPermissionService(newTestDB(t))

	_, err := svc.UpdatePermission(9999, PermissionRequest{CanView: boolPtr(false)})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
