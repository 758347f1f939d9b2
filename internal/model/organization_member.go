package model

import (
	"time"

	"gorm.io/gorm"
)

// OrganizationMember is the association between users and organizations.
// Exactly one row per (organization, user) pair; removal is a soft delete so
// an invitation can resurrect a previous membership.
type OrganizationMember struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizationID uint           `json:"organization_id" gorm:"index;not null"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	MemberType     MemberType     `json:"member_type" gorm:"type:varchar(20);not null;default:'member'"`
	IsInvited      bool           `json:"is_invited" gorm:"default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User         User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
