package service

import (
	"testing"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupService(t *testing.T) (*GroupService, *OrganizationService, *model.User) {
	t.Helper()
	orgs, db := newOrgService(t)
	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	return NewGroupService(db, orgs), orgs, owner
}

func TestGroupCreate(t *testing.T) {
	groups, orgs, owner := newGroupService(t)
	org, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	group, err := groups.Create(owner.ID, org.ID, GroupRequest{Name: "School runs"})
	require.NoError(t, err)
	assert.True(t, group.IsActive)
	assert.Equal(t, org.ID, group.OrganizationID)
}

func TestGroupCreateRejectsInactiveOrg(t *testing.T) {
	groups, orgs, owner := newGroupService(t)
	_, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Keep"})
	require.NoError(t, err)
	org, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Dormant"})
	require.NoError(t, err)
	_, err = orgs.Update(owner.ID, org.ID, OrganizationRequest{
		IsActive:           boolPtr(false),
		DeactivationReason: "seasonal",
	})
	require.NoError(t, err)

	_, err = groups.Create(owner.ID, org.ID, GroupRequest{Name: "Winter"})
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestGroupCreateRequiresManager(t *testing.T) {
	groups, orgs, owner := newGroupService(t)
	org, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	outsider := createUser(t, groups.db, "outsider@example.com", model.RoleUser)

	_, err = groups.Create(outsider.ID, org.ID, GroupRequest{Name: "Rogue"})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestGroupDeactivationRequiresReason(t *testing.T) {
	groups, orgs, owner := newGroupService(t)
	org, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	group, err := groups.Create(owner.ID, org.ID, GroupRequest{Name: "School runs"})
	require.NoError(t, err)

	_, err = groups.Update(owner.ID, group.ID, GroupRequest{IsActive: boolPtr(false)})
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	updated, err := groups.Update(owner.ID, group.ID, GroupRequest{
		IsActive:           boolPtr(false),
		DeactivationReason: "no contract this year",
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "no contract this year", updated.DeactivationReason)

	// Reactivation clears the reason.
	updated, err = groups.Update(owner.ID, group.ID, GroupRequest{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Empty(t, updated.DeactivationReason)
}

func TestGroupSoftDelete(t *testing.T) {
	groups, orgs, owner := newGroupService(t)
	org, err := orgs.Create(owner.ID, OrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	group, err := groups.Create(owner.ID, org.ID, GroupRequest{Name: "School runs"})
	require.NoError(t, err)

	require.NoError(t, groups.SoftDelete(owner.ID, group.ID))
	_, err = groups.Get(group.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	listed, err := groups.ListForOrg(org.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
