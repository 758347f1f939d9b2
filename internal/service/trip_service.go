package service

import (
	"errors"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TripRequest carries trip fields from the API boundary.
type TripRequest struct {
	Title          string     `json:"title"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	DepartAt       time.Time  `json:"depart_at"`
	ReturnAt       *time.Time `json:"return_at"`
	PassengerCount int        `json:"passenger_count"`
}

// TripService manages trip CRUD and the status workflow. Every status move
// goes through transition, which consults the closed table in the model; the
// quote/approve/reject/start/complete/cancel methods only add their own
// side conditions on top.
type TripService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTripService(db *gorm.DB, log *zap.Logger) *TripService {
	return &TripService{db: db, log: log}
}

// Create files a draft trip under a group.
func (s *TripService) Create(groupID uint, req TripRequest) (*model.Trip, error) {
	if req.Title == "" {
		return nil, Invalid("title is required")
	}

	var group model.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("group %d not found", groupID)
		}
		return nil, err
	}
	if !group.IsActive {
		return nil, Rule("trips cannot be created in an inactive group")
	}

	trip := model.Trip{
		GroupID:        groupID,
		OrganizationID: group.OrganizationID,
		Title:          req.Title,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartAt:       req.DepartAt,
		ReturnAt:       req.ReturnAt,
		PassengerCount: req.PassengerCount,
		Status:         model.TripStatusDraft,
	}
	if err := s.db.Create(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update edits the itinerary of a draft trip. Quoted and later trips are
// frozen; the workflow methods are the only way forward.
func (s *TripService) Update(tripID uint, req TripRequest) (*model.Trip, error) {
	trip, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripStatusDraft {
		return nil, Rule("only draft trips can be edited")
	}

	if req.Title != "" {
		trip.Title = req.Title
	}
	if req.Origin != "" {
		trip.Origin = req.Origin
	}
	if req.Destination != "" {
		trip.Destination = req.Destination
	}
	if !req.DepartAt.IsZero() {
		trip.DepartAt = req.DepartAt
	}
	if req.ReturnAt != nil {
		trip.ReturnAt = req.ReturnAt
	}
	if req.PassengerCount > 0 {
		trip.PassengerCount = req.PassengerCount
	}

	if err := s.db.Save(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) Get(tripID uint) (*model.Trip, error) {
	return s.get(tripID)
}

// ListForOrg returns trips across the organization, optionally filtered by
// status.
func (s *TripService) ListForOrg(orgID uint, status string) ([]model.Trip, error) {
	q := s.db.Where("organization_id = ?", orgID)
	if status != "" {
		st, err := model.ParseTripStatus(status)
		if err != nil {
			return nil, Invalid("invalid trip status %q", status)
		}
		q = q.Where("status = ?", st)
	}
	var trips []model.Trip
	if err := q.Order("depart_at").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// ListForGroup returns the trips of one group.
func (s *TripService) ListForGroup(groupID uint) ([]model.Trip, error) {
	var trips []model.Trip
	if err := s.db.Where("group_id = ?", groupID).Order("depart_at").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// Quote moves a draft trip to quoted and records the amount.
func (s *TripService) Quote(tripID uint, amount float64) (*model.Trip, error) {
	if amount <= 0 {
		return nil, Invalid("quote amount must be positive")
	}
	return s.transition(tripID, model.TripStatusQuoted, func(t *model.Trip) {
		t.QuoteAmount = amount
	})
}

// Approve accepts a quoted trip.
func (s *TripService) Approve(tripID uint) (*model.Trip, error) {
	return s.transition(tripID, model.TripStatusApproved, nil)
}

// Reject declines a quoted trip. Rejection is terminal.
func (s *TripService) Reject(tripID uint) (*model.Trip, error) {
	return s.transition(tripID, model.TripStatusRejected, nil)
}

// Start puts an approved trip on the road. Both a driver and a bus must be
// assigned first.
func (s *TripService) Start(tripID uint) (*model.Trip, error) {
	trip, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID == nil || trip.BusID == nil {
		return nil, Rule("a driver and a bus must be assigned before the trip can go live")
	}
	return s.transition(tripID, model.TripStatusLive, nil)
}

// Complete finishes a live trip.
func (s *TripService) Complete(tripID uint) (*model.Trip, error) {
	return s.transition(tripID, model.TripStatusCompleted, nil)
}

// Cancel aborts a live trip with a reason.
func (s *TripService) Cancel(tripID uint, reason string) (*model.Trip, error) {
	if reason == "" {
		return nil, Rule("a cancellation reason is required")
	}
	return s.transition(tripID, model.TripStatusCanceled, func(t *model.Trip) {
		t.CancelReason = reason
	})
}

// Assign attaches a driver and/or bus to a trip from approved onward.
func (s *TripService) Assign(tripID uint, driverID, busID *uint) (*model.Trip, error) {
	trip, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripStatusApproved && trip.Status != model.TripStatusLive {
		return nil, Rule("drivers and buses can only be assigned to approved trips")
	}

	if driverID != nil {
		var driver model.User
		if err := s.db.First(&driver, *driverID).Error; err != nil {
			return nil, NotFound("driver %d not found", *driverID)
		}
		if driver.Role != model.RoleDriver {
			return nil, Rule("user %d is not a driver", *driverID)
		}
		trip.DriverID = driverID
	}
	if busID != nil {
		var bus model.Bus
		if err := s.db.First(&bus, *busID).Error; err != nil {
			return nil, NotFound("bus %d not found", *busID)
		}
		if !bus.IsActive {
			return nil, Rule("bus %d is out of service", *busID)
		}
		if trip.PassengerCount > 0 && bus.Capacity > 0 && trip.PassengerCount > bus.Capacity {
			return nil, Rule("bus %d seats %d, trip has %d passengers", *busID, bus.Capacity, trip.PassengerCount)
		}
		trip.BusID = busID
	}

	if err := s.db.Save(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

// SoftDelete removes a trip. Live trips must be canceled first.
func (s *TripService) SoftDelete(tripID uint) error {
	trip, err := s.get(tripID)
	if err != nil {
		return err
	}
	if trip.Status == model.TripStatusLive {
		return Rule("a live trip must be canceled before deletion")
	}
	return s.db.Delete(trip).Error
}

func (s *TripService) transition(tripID uint, next model.TripStatus, mutate func(*model.Trip)) (*model.Trip, error) {
	trip, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	if !trip.Status.CanTransition(next) {
		return nil, Rule("a %s trip cannot become %s", trip.Status, next)
	}
	prev := trip.Status
	trip.Status = next
	if mutate != nil {
		mutate(trip)
	}
	if err := s.db.Save(trip).Error; err != nil {
		return nil, err
	}
	s.log.Info("trip status changed",
		zap.Uint("trip_id", trip.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)))
	return trip, nil
}

func (s *TripService) get(tripID uint) (*model.Trip, error) {
	var trip model.Trip
	if err := s.db.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("trip %d not found", tripID)
		}
		return nil, err
	}
	return &trip, nil
}
