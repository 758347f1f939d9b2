package model

import (
	"time"

	"gorm.io/gorm"
)

// Application-level roles. Organization roles are a separate axis, see MemberType.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

// User represents the user model stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
