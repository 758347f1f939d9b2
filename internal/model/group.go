package model

import (
	"time"

	"gorm.io/gorm"
)

// Group is a sub-division of an organization that trips belong to.
type Group struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	OrganizationID     uint           `json:"organization_id" gorm:"index;not null"`
	Name               string         `json:"name" gorm:"type:varchar(100);not null"`
	Description        string         `json:"description" gorm:"type:text"`
	IsActive           bool           `json:"is_active" gorm:"default:true"`
	DeactivationReason string         `json:"deactivation_reason,omitempty" gorm:"type:text"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
