package service

import (
	"errors"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRequest carries permission fields from the API boundary. Flags are
// pointers so a partial update only touches what the client sent; on create an
// absent flag defaults to true.
type PermissionRequest struct {
	OrganizationID uint   `json:"organization_id"`
	MemberType     string `json:"member_type"`
	CanView        *bool  `json:"can_view"`
	CanCreate      *bool  `json:"can_create"`
	CanEdit        *bool  `json:"can_edit"`
	CanDeactivate  *bool  `json:"can_deactivate"`
}

// PermissionService maintains the per-(organization, member-type) capability
// matrix and bootstraps it lazily with all-true defaults.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// Bootstrap inserts one all-true row per member type for the organization.
// The unique index on (organization_id, member_type) plus DoNothing makes it
// idempotent under concurrent first reads.
func (s *PermissionService) Bootstrap(tx *gorm.DB, orgID uint) error {
	rows := make([]model.OrganizationPermission, 0, len(model.AllMemberTypes()))
	for _, mt := range model.AllMemberTypes() {
		rows = append(rows, model.OrganizationPermission{
			OrganizationID: orgID,
			MemberType:     mt,
			CanView:        true,
			CanCreate:      true,
			CanEdit:        true,
			CanDeactivate:  true,
		})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GetOrgPermission returns the permission row for one member type,
// bootstrapping defaults on first access.
func (s *PermissionService) GetOrgPermission(orgID uint, memberType model.MemberType) (*model.OrganizationPermission, error) {
	if err := s.Bootstrap(s.db, orgID); err != nil {
		return nil, err
	}

	var perm model.OrganizationPermission
	err := s.db.Where("organization_id = ? AND member_type = ?", orgID, memberType).First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("no permissions found for member type %s", memberType)
		}
		return nil, err
	}
	return &perm, nil
}

// ListPermissions returns the editable permission rows for an organization.
// The creator row is implicitly all-permitted and never exposed.
func (s *PermissionService) ListPermissions(orgID uint) ([]model.OrganizationPermission, error) {
	if err := s.Bootstrap(s.db, orgID); err != nil {
		return nil, err
	}

	var perms []model.OrganizationPermission
	err := s.db.
		Where("organization_id = ? AND member_type <> ?", orgID, model.MemberTypeCreator).
		Order("member_type").
		Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// CreatePermission inserts a single row; absent flags default to true.
func (s *PermissionService) CreatePermission(req PermissionRequest) (*model.OrganizationPermission, error) {
	mt, err := model.ParseMemberType(req.MemberType)
	if err != nil {
		return nil, Invalid("invalid member type %q", req.MemberType)
	}
	if req.OrganizationID == 0 {
		return nil, Invalid("organization_id is required")
	}

	perm := model.OrganizationPermission{
		OrganizationID: req.OrganizationID,
		MemberType:     mt,
		CanView:        flagOrDefault(req.CanView),
		CanCreate:      flagOrDefault(req.CanCreate),
		CanEdit:        flagOrDefault(req.CanEdit),
		CanDeactivate:  flagOrDefault(req.CanDeactivate),
	}
	if err := s.db.Create(&perm).Error; err != nil {
		return nil, Conflict("permissions for member type %s already exist", mt)
	}
	return &perm, nil
}

// UpdatePermission overwrites only the flags present in the request.
func (s *PermissionService) UpdatePermission(id uint, req PermissionRequest) (*model.OrganizationPermission, error) {
	var perm model.OrganizationPermission
	if err := s.db.First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("permission %d not found", id)
		}
		return nil, err
	}

	if req.CanView != nil {
		perm.CanView = *req.CanView
	}
	if req.CanCreate != nil {
		perm.CanCreate = *req.CanCreate
	}
	if req.CanEdit != nil {
		perm.CanEdit = *req.CanEdit
	}
	if req.CanDeactivate != nil {
		perm.CanDeactivate = *req.CanDeactivate
	}

	if err := s.db.Save(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func flagOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
