package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	shortNameLength  = 5
	shortNameRetries = 5
	shortNameCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// OrganizationRequest carries organization fields from the API boundary.
// Pointer fields are optional on update: nil leaves the stored value alone.
type OrganizationRequest struct {
	Name               string `json:"name"`
	ShortName          string `json:"short_name"`
	Description        string `json:"description"`
	IsActive           *bool  `json:"is_active"`
	DeactivationReason string `json:"deactivation_reason"`
	IsPrimary          *bool  `json:"is_primary"`
}

// OrganizationService is the rule engine for organization lifecycle and
// membership role transitions.
//
// Self-removal is staged demotion by contract: a creator leaving becomes an
// admin, an admin becomes a member, and only a member actually departs (soft
// delete). Each call moves one step; leaving for real takes repeated calls.
type OrganizationService struct {
	db    *gorm.DB
	perms *PermissionService
	log   *zap.Logger
}

func NewOrganizationService(db *gorm.DB, perms *PermissionService, log *zap.Logger) *OrganizationService {
	return &OrganizationService{db: db, perms: perms, log: log}
}

// Create makes a new organization owned by creatorID, with a creator
// membership row and bootstrapped default permissions. When the new
// organization is primary, every other primary organization of the same
// creator is cleared first; the whole sequence is one transaction.
func (s *OrganizationService) Create(creatorID uint, req OrganizationRequest) (*model.Organization, error) {
	if req.Name == "" {
		return nil, Invalid("name is required")
	}

	var count int64
	s.db.Model(&model.Organization{}).
		Where("creator_id = ? AND name = ?", creatorID, req.Name).
		Count(&count)
	if count > 0 {
		return nil, Conflict("you already have an organization named %q", req.Name)
	}

	org := model.Organization{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Description: req.Description,
		CreatorID:   creatorID,
		IsActive:    true,
		IsPrimary:   req.IsPrimary != nil && *req.IsPrimary,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if org.IsPrimary {
			if err := clearOtherPrimaries(tx, creatorID, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		member := model.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         creatorID,
			MemberType:     model.MemberTypeCreator,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return s.perms.Bootstrap(tx, org.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organization created",
		zap.Uint("org_id", org.ID),
		zap.Uint("creator_id", creatorID),
		zap.Bool("is_primary", org.IsPrimary))
	return &org, nil
}

// Update edits an organization under the lifecycle guards: deactivation needs
// a reason, the primary organization can neither be deactivated nor unset,
// only active organizations can become primary, and the creator must keep at
// least one active organization.
func (s *OrganizationService) Update(actorID, orgID uint, req OrganizationRequest) (*model.Organization, error) {
	org, err := s.getOrg(orgID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(actorID, orgID); err != nil {
		return nil, err
	}

	nextActive := org.IsActive
	if req.IsActive != nil {
		nextActive = *req.IsActive
	}
	nextPrimary := org.IsPrimary
	if req.IsPrimary != nil {
		nextPrimary = *req.IsPrimary
	}

	if req.Name != "" && req.Name != org.Name {
		var count int64
		s.db.Model(&model.Organization{}).
			Where("creator_id = ? AND name = ? AND id <> ?", org.CreatorID, req.Name, org.ID).
			Count(&count)
		if count > 0 {
			return nil, Conflict("you already have an organization named %q", req.Name)
		}
		org.Name = req.Name
	}

	if !nextActive && org.IsActive {
		if req.DeactivationReason == "" {
			return nil, Rule("a deactivation reason is required")
		}
		if org.IsPrimary && nextPrimary {
			return nil, Rule("the primary organization cannot be deactivated")
		}
		var active int64
		s.db.Model(&model.Organization{}).
			Where("creator_id = ? AND is_active = ? AND id <> ?", org.CreatorID, true, org.ID).
			Count(&active)
		if active == 0 {
			return nil, Rule("you must keep at least one active organization")
		}
		org.DeactivationReason = req.DeactivationReason
	}

	if nextPrimary && !nextActive {
		return nil, Rule("only an active organization can be primary")
	}
	if !nextPrimary && org.IsPrimary {
		return nil, Rule("you must have at least one primary organization")
	}

	if req.ShortName != "" {
		org.ShortName = req.ShortName
	}
	if req.Description != "" {
		org.Description = req.Description
	}
	org.IsActive = nextActive
	if nextActive {
		org.DeactivationReason = ""
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if nextPrimary && !org.IsPrimary {
			if err := clearOtherPrimaries(tx, org.CreatorID, org.ID); err != nil {
				return err
			}
		}
		org.IsPrimary = nextPrimary
		return tx.Save(org).Error
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// Get returns one non-deleted organization.
func (s *OrganizationService) Get(orgID uint) (*model.Organization, error) {
	return s.getOrg(orgID)
}

// ListForUser returns the organizations the user is an active member of,
// together with the membership rows.
func (s *OrganizationService) ListForUser(userID uint) ([]model.OrganizationMember, error) {
	var members []model.OrganizationMember
	err := s.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Members returns the active memberships of an organization with users loaded.
func (s *OrganizationService) Members(orgID uint) ([]model.OrganizationMember, error) {
	if _, err := s.getOrg(orgID); err != nil {
		return nil, err
	}
	var members []model.OrganizationMember
	err := s.db.Preload("User").
		Where("organization_id = ?", orgID).
		Order("member_type").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// SoftDelete marks the organization deleted. Only its creator may do this.
func (s *OrganizationService) SoftDelete(actorID, orgID uint) error {
	org, err := s.getOrg(orgID)
	if err != nil {
		return err
	}
	if org.CreatorID != actorID {
		return Forbidden("only the creator can delete an organization")
	}
	return s.db.Delete(org).Error
}

// Restore reverts a soft delete. Memberships were never touched, so the
// organization comes back whole.
func (s *OrganizationService) Restore(actorID, orgID uint) (*model.Organization, error) {
	var org model.Organization
	err := s.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", orgID).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("no deleted organization %d", orgID)
		}
		return nil, err
	}
	if org.CreatorID != actorID {
		return nil, Forbidden("only the creator can restore an organization")
	}
	if err := s.db.Unscoped().Model(&org).Update("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	org.DeletedAt = gorm.DeletedAt{}
	return &org, nil
}

// ChangeMemberRole applies one role transition to the target user's
// membership. A creator row is never changed by this path; the creator action
// instead transfers ownership and demotes the acting creator to admin, so the
// organization never has two creators.
func (s *OrganizationService) ChangeMemberRole(actorID, orgID, targetUserID uint, action model.MemberType) error {
	actor, err := s.getMember(orgID, actorID)
	if err != nil {
		return Forbidden("you are not a member of this organization")
	}
	if actor.MemberType != model.MemberTypeCreator && actor.MemberType != model.MemberTypeAdmin {
		return Forbidden("only a Creator or Admin can change member roles")
	}

	target, err := s.getMember(orgID, targetUserID)
	if err != nil {
		return NotFound("the user is not a member of this organization")
	}

	switch action {
	case model.MemberTypeCreator:
		if target.MemberType == model.MemberTypeCreator {
			return Rule("the user is already the Creator of this organization")
		}
		if actor.MemberType != model.MemberTypeCreator {
			return Forbidden("only the Creator can transfer ownership")
		}
		return s.transferCreator(actor, target)

	case model.MemberTypeAdmin:
		if target.MemberType == model.MemberTypeCreator {
			return Rule("the Creator role cannot be changed here")
		}
		// Toggle: promoting a non-admin, demoting a current admin to member.
		next := model.MemberTypeAdmin
		if target.MemberType == model.MemberTypeAdmin {
			next = model.MemberTypeMember
		}
		return s.setMemberType(target, next)

	case model.MemberTypeMember, model.MemberTypeReadOnly:
		if target.MemberType == model.MemberTypeCreator {
			return Rule("the Creator role cannot be changed here")
		}
		return s.setMemberType(target, action)
	}
	return Invalid("unknown role action %q", action)
}

func (s *OrganizationService) transferCreator(actor, target *model.OrganizationMember) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(target).Update("member_type", model.MemberTypeCreator).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Organization{}).
			Where("id = ?", target.OrganizationID).
			Update("creator_id", target.UserID).Error; err != nil {
			return err
		}
		return tx.Model(actor).Update("member_type", model.MemberTypeAdmin).Error
	})
	if err != nil {
		return err
	}
	s.log.Info("organization ownership transferred",
		zap.Uint("org_id", target.OrganizationID),
		zap.Uint("from_user_id", actor.UserID),
		zap.Uint("to_user_id", target.UserID))
	return nil
}

func (s *OrganizationService) setMemberType(m *model.OrganizationMember, t model.MemberType) error {
	return s.db.Model(m).Update("member_type", t).Error
}

// SelfRemove handles a member leaving on their own initiative. memberType is
// the caller's claimed current role and must match the stored row.
func (s *OrganizationService) SelfRemove(userID, orgID uint, memberType model.MemberType) error {
	member, err := s.getMember(orgID, userID)
	if err != nil {
		return NotFound("you are not a member of this organization")
	}
	if member.MemberType != memberType {
		return Invalid("your current role is %s, not %s", member.MemberType, memberType)
	}

	switch memberType {
	case model.MemberTypeCreator:
		var others int64
		s.db.Model(&model.OrganizationMember{}).
			Where("organization_id = ? AND member_type = ? AND user_id <> ?",
				orgID, model.MemberTypeCreator, userID).
			Count(&others)
		if others == 0 {
			return Rule("you are the only Creator; assign another Creator before leaving")
		}
		return s.setMemberType(member, model.MemberTypeAdmin)

	case model.MemberTypeAdmin:
		var others int64
		s.db.Model(&model.OrganizationMember{}).
			Where("organization_id = ? AND member_type = ? AND user_id <> ?",
				orgID, model.MemberTypeAdmin, userID).
			Count(&others)
		if others == 0 {
			return Rule("assign another Admin before leaving")
		}
		return s.setMemberType(member, model.MemberTypeMember)

	case model.MemberTypeMember:
		var managers int64
		s.db.Model(&model.OrganizationMember{}).
			Where("organization_id = ? AND member_type IN ? AND user_id <> ?",
				orgID, []model.MemberType{model.MemberTypeCreator, model.MemberTypeAdmin}, userID).
			Count(&managers)
		if managers == 0 {
			return Rule("the organization must keep at least one Creator or Admin")
		}
		return s.db.Delete(member).Error
	}
	return Invalid("members of type %s cannot remove themselves", memberType)
}

// Invite adds a user (looked up by email) to the organization as a read-only
// invitee. A previously removed membership is resurrected instead of
// duplicated. Drivers cannot join organizations.
func (s *OrganizationService) Invite(actorID, orgID uint, email string) (*model.OrganizationMember, error) {
	if _, err := s.getOrg(orgID); err != nil {
		return nil, err
	}
	if err := s.requireManager(actorID, orgID); err != nil {
		return nil, err
	}

	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("no user with email %s", email)
		}
		return nil, err
	}
	if user.Role == model.RoleDriver {
		return nil, Rule("drivers cannot join organizations")
	}

	var existing model.OrganizationMember
	err := s.db.Unscoped().
		Where("organization_id = ? AND user_id = ?", orgID, user.ID).
		First(&existing).Error
	switch {
	case err == nil && !existing.DeletedAt.Valid:
		return nil, Conflict("the user is already a member of this organization")
	case err == nil:
		// Resurrect the soft-deleted membership as a fresh read-only invite.
		updates := map[string]any{
			"deleted_at":  nil,
			"member_type": model.MemberTypeReadOnly,
			"is_invited":  true,
		}
		if err := s.db.Unscoped().Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.DeletedAt = gorm.DeletedAt{}
		existing.MemberType = model.MemberTypeReadOnly
		existing.IsInvited = true
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	member := model.OrganizationMember{
		OrganizationID: orgID,
		UserID:         user.ID,
		MemberType:     model.MemberTypeReadOnly,
		IsInvited:      true,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	s.log.Info("user invited to organization",
		zap.Uint("org_id", orgID),
		zap.Uint("user_id", user.ID),
		zap.Uint("invited_by", actorID))
	return &member, nil
}

// CreateDefaultOrg provisions the first-login default organization:
// "{First}_{Last}_Default" with a random short name, primary and active, with
// a creator membership and default permissions. Rejected when the user
// already owns a live organization.
func (s *OrganizationService) CreateDefaultOrg(userID uint) (*model.Organization, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, NotFound("user %d not found", userID)
	}

	var owned int64
	s.db.Model(&model.Organization{}).Where("creator_id = ?", userID).Count(&owned)
	if owned > 0 {
		return nil, Rule("you already have an organization")
	}

	shortName, err := s.uniqueShortName()
	if err != nil {
		return nil, err
	}

	org := model.Organization{
		Name:      fmt.Sprintf("%s_%s_Default", user.FirstName, user.LastName),
		ShortName: shortName,
		CreatorID: userID,
		IsActive:  true,
		IsPrimary: true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		member := model.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         userID,
			MemberType:     model.MemberTypeCreator,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return s.perms.Bootstrap(tx, org.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("default organization provisioned",
		zap.Uint("org_id", org.ID), zap.Uint("user_id", userID))
	return &org, nil
}

// uniqueShortName draws random short names until one is unused, bounded by
// shortNameRetries.
func (s *OrganizationService) uniqueShortName() (string, error) {
	for i := 0; i < shortNameRetries; i++ {
		name := randomShortName()
		var count int64
		s.db.Unscoped().Model(&model.Organization{}).
			Where("short_name = ?", name).Count(&count)
		if count == 0 {
			return name, nil
		}
	}
	return "", Conflict("could not allocate a unique short name")
}

func randomShortName() string {
	b := make([]byte, shortNameLength)
	for i := range b {
		b[i] = shortNameCharset[rand.Intn(len(shortNameCharset))]
	}
	return string(b)
}

func (s *OrganizationService) getOrg(orgID uint) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("organization %d not found", orgID)
		}
		return nil, err
	}
	return &org, nil
}

func (s *OrganizationService) getMember(orgID, userID uint) (*model.OrganizationMember, error) {
	var member model.OrganizationMember
	err := s.db.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// requireManager checks the actor holds a creator or admin membership.
func (s *OrganizationService) requireManager(actorID, orgID uint) error {
	member, err := s.getMember(orgID, actorID)
	if err != nil {
		return Forbidden("you are not a member of this organization")
	}
	if member.MemberType != model.MemberTypeCreator && member.MemberType != model.MemberTypeAdmin {
		return Forbidden("only a Creator or Admin may do this")
	}
	return nil
}

// clearOtherPrimaries drops the primary flag on every other organization of
// the creator, keeping at most one primary per creator.
func clearOtherPrimaries(tx *gorm.DB, creatorID, keepID uint) error {
	return tx.Model(&model.Organization{}).
		Where("creator_id = ? AND is_primary = ? AND id <> ?", creatorID, true, keepID).
		Update("is_primary", false).Error
}
