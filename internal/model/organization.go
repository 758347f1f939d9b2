package model

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the top-level tenant grouping users, groups and trips.
// At most one non-deleted organization per creator may have IsPrimary set.
type Organization struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Name               string         `json:"name" gorm:"type:varchar(100);index"`
	ShortName          string         `json:"short_name" gorm:"type:varchar(20);index"`
	Description        string         `json:"description" gorm:"type:text"`
	CreatorID          uint           `json:"creator_id" gorm:"index;not null"`
	IsActive           bool           `json:"is_active" gorm:"default:true"`
	DeactivationReason string         `json:"deactivation_reason,omitempty" gorm:"type:text"`
	IsPrimary          bool           `json:"is_primary" gorm:"default:false"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}
