package model

import (
	"time"

	"gorm.io/gorm"
)

// Bus is a fleet vehicle that can be assigned to approved trips.
type Bus struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Plate     string         `json:"plate" gorm:"type:varchar(20);uniqueIndex"`
	Capacity  int            `json:"capacity"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
