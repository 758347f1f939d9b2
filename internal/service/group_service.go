package service

import (
	"errors"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"gorm.io/gorm"
)

// GroupRequest carries group fields from the API boundary.
type GroupRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	IsActive           *bool  `json:"is_active"`
	DeactivationReason string `json:"deactivation_reason"`
}

// GroupService manages the groups trips are filed under. Groups share the
// organization's deactivation rule: going inactive needs a reason.
type GroupService struct {
	db   *gorm.DB
	orgs *OrganizationService
}

func NewGroupService(db *gorm.DB, orgs *OrganizationService) *GroupService {
	return &GroupService{db: db, orgs: orgs}
}

func (s *GroupService) Create(actorID, orgID uint, req GroupRequest) (*model.Group, error) {
	if req.Name == "" {
		return nil, Invalid("name is required")
	}
	org, err := s.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, Rule("groups cannot be created in an inactive organization")
	}
	if err := s.orgs.requireManager(actorID, orgID); err != nil {
		return nil, err
	}

	group := model.Group{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       true,
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) Update(actorID, groupID uint, req GroupRequest) (*model.Group, error) {
	group, err := s.get(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.requireManager(actorID, group.OrganizationID); err != nil {
		return nil, err
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != "" {
		group.Description = req.Description
	}
	if req.IsActive != nil {
		if !*req.IsActive && group.IsActive {
			if req.DeactivationReason == "" {
				return nil, Rule("a deactivation reason is required")
			}
			group.DeactivationReason = req.DeactivationReason
		}
		group.IsActive = *req.IsActive
		if group.IsActive {
			group.DeactivationReason = ""
		}
	}

	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Get(groupID uint) (*model.Group, error) {
	return s.get(groupID)
}

// ListForOrg returns the non-deleted groups of an organization.
func (s *GroupService) ListForOrg(orgID uint) ([]model.Group, error) {
	if _, err := s.orgs.Get(orgID); err != nil {
		return nil, err
	}
	var groups []model.Group
	if err := s.db.Where("organization_id = ?", orgID).Order("name").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) SoftDelete(actorID, groupID uint) error {
	group, err := s.get(groupID)
	if err != nil {
		return err
	}
	if err := s.orgs.requireManager(actorID, group.OrganizationID); err != nil {
		return err
	}
	return s.db.Delete(group).Error
}

func (s *GroupService) get(groupID uint) (*model.Group, error) {
	var group model.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("group %d not found", groupID)
		}
		return nil, err
	}
	return &group, nil
}
