package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TripStatus is the trip workflow state.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusQuoted    TripStatus = "quoted"
	TripStatusApproved  TripStatus = "approved"
	TripStatusRejected  TripStatus = "rejected"
	TripStatusLive      TripStatus = "live"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCanceled  TripStatus = "canceled"
)

// tripTransitions is the closed set of legal status moves:
// draft -> quoted -> approved|rejected, approved -> live -> completed|canceled.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:    {TripStatusQuoted},
	TripStatusQuoted:   {TripStatusApproved, TripStatusRejected},
	TripStatusApproved: {TripStatusLive},
	TripStatusLive:     {TripStatusCompleted, TripStatusCanceled},
}

// CanTransition reports whether moving from s to next is allowed.
func (s TripStatus) CanTransition(next TripStatus) bool {
	for _, t := range tripTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ParseTripStatus validates a status string from a request boundary.
func ParseTripStatus(s string) (TripStatus, error) {
	switch TripStatus(s) {
	case TripStatusDraft, TripStatusQuoted, TripStatusApproved, TripStatusRejected,
		TripStatusLive, TripStatusCompleted, TripStatusCanceled:
		return TripStatus(s), nil
	}
	return "", fmt.Errorf("unknown trip status %q", s)
}

// Trip is a charter request inside a group. OrganizationID is denormalized
// from the group so org-wide listings skip a join.
type Trip struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	GroupID        uint           `json:"group_id" gorm:"index;not null"`
	OrganizationID uint           `json:"organization_id" gorm:"index;not null"`
	Title          string         `json:"title" gorm:"type:varchar(150);not null"`
	Origin         string         `json:"origin" gorm:"type:varchar(200)"`
	Destination    string         `json:"destination" gorm:"type:varchar(200)"`
	DepartAt       time.Time      `json:"depart_at"`
	ReturnAt       *time.Time     `json:"return_at,omitempty"`
	PassengerCount int            `json:"passenger_count"`
	Status         TripStatus     `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	QuoteAmount    float64        `json:"quote_amount"`
	CancelReason   string         `json:"cancel_reason,omitempty" gorm:"type:text"`
	DriverID       *uint          `json:"driver_id,omitempty" gorm:"index"`
	BusID          *uint          `json:"bus_id,omitempty" gorm:"index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}
