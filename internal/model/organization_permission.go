package model

import "time"

// OrganizationPermission holds the capability flags for one member type within
// one organization. The unique index makes the lazy default bootstrap an
// idempotent upsert: concurrent first reads cannot create duplicate sets.
// Permission rows are never soft deleted.
type OrganizationPermission struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	OrganizationID uint       `json:"organization_id" gorm:"not null;uniqueIndex:idx_org_member_type"`
	MemberType     MemberType `json:"member_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_org_member_type"`
	CanView        bool       `json:"can_view" gorm:"default:true"`
	CanCreate      bool       `json:"can_create" gorm:"default:true"`
	CanEdit        bool       `json:"can_edit" gorm:"default:true"`
	CanDeactivate  bool       `json:"can_deactivate" gorm:"default:true"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
