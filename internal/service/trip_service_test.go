package service

import (
	"testing"
	"time"

	"github.com/deepak-ysoft/bustrips/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTripService(t *testing.T) (*TripService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewTripService(db, zap.NewNop()), db
}

func seedGroup(t *testing.T, db *gorm.DB, active bool) *model.Group {
	t.Helper()
	org := model.Organization{Name: "Acme", CreatorID: 1, IsActive: true}
	require.NoError(t, db.Create(&org).Error)
	group := model.Group{OrganizationID: org.ID, Name: "Charters", IsActive: active}
	require.NoError(t, db.Create(&group).Error)
	return &group
}

func seedTrip(t *testing.T, db *gorm.DB, svc *TripService) *model.Trip {
	t.Helper()
	group := seedGroup(t, db, true)
	trip, err := svc.Create(group.ID, TripRequest{
		Title:          "Airport run",
		Origin:         "Depot",
		Destination:    "Airport",
		DepartAt:       time.Now().Add(24 * time.Hour),
		PassengerCount: 30,
	})
	require.NoError(t, err)
	return trip
}

func uintPtr(v uint) *uint { return &v }

func TestTripHappyPath(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)
	assert.Equal(t, model.TripStatusDraft, trip.Status)

	trip, err := svc.Quote(trip.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, model.TripStatusQuoted, trip.Status)
	assert.Equal(t, 1500.0, trip.QuoteAmount)

	trip, err = svc.Approve(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TripStatusApproved, trip.Status)

	driver := createUser(t, db, "driver@example.com", model.RoleDriver)
	bus := model.Bus{Plate: "BUS-001", Capacity: 50, IsActive: true}
	require.NoError(t, db.Create(&bus).Error)
	trip, err = svc.Assign(trip.ID, uintPtr(driver.ID), uintPtr(bus.ID))
	require.NoError(t, err)

	trip, err = svc.Start(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TripStatusLive, trip.Status)

	trip, err = svc.Complete(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TripStatusCompleted, trip.Status)
}

func TestTripInvalidTransitions(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)

	// A draft cannot be approved, started or completed.
	_, err := svc.Approve(trip.ID)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	_, err = svc.Complete(trip.ID)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	// Rejection is terminal.
	_, err = svc.Quote(trip.ID, 900)
	require.NoError(t, err)
	_, err = svc.Reject(trip.ID)
	require.NoError(t, err)
	_, err = svc.Quote(trip.ID, 950)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestStartRequiresAssignment(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)
	_, err := svc.Quote(trip.ID, 1200)
	require.NoError(t, err)
	_, err = svc.Approve(trip.ID)
	require.NoError(t, err)

	_, err = svc.Start(trip.ID)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestQuoteAmountMustBePositive(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)

	_, err := svc.Quote(trip.ID, 0)
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestCancelRequiresReason(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)
	_, err := svc.Quote(trip.ID, 800)
	require.NoError(t, err)
	_, err = svc.Approve(trip.ID)
	require.NoError(t, err)

	driver := createUser(t, db, "driver@example.com", model.RoleDriver)
	bus := model.Bus{Plate: "BUS-002", Capacity: 40, IsActive: true}
	require.NoError(t, db.Create(&bus).Error)
	_, err = svc.Assign(trip.ID, uintPtr(driver.ID), uintPtr(bus.ID))
	require.NoError(t, err)
	_, err = svc.Start(trip.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(trip.ID, "")
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	trip, err = svc.Cancel(trip.ID, "bus breakdown")
	require.NoError(t, err)
	assert.Equal(t, model.TripStatusCanceled, trip.Status)
	assert.Equal(t, "bus breakdown", trip.CancelReason)
}

func TestAssignRejectsNonDriver(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)
	_, err := svc.Quote(trip.ID, 700)
	require.NoError(t, err)
	_, err = svc.Approve(trip.ID)
	require.NoError(t, err)

	passenger := createUser(t, db, "user@example.com", model.RoleUser)
	_, err = svc.Assign(trip.ID, uintPtr(passenger.ID), nil)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestAssignChecksBusCapacity(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc) // 30 passengers
	_, err := svc.Quote(trip.ID, 700)
	require.NoError(t, err)
	_, err = svc.Approve(trip.ID)
	require.NoError(t, err)

	small := model.Bus{Plate: "BUS-S", Capacity: 12, IsActive: true}
	require.NoError(t, db.Create(&small).Error)
	_, err = svc.Assign(trip.ID, nil, uintPtr(small.ID))
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	retired := model.Bus{Plate: "BUS-R", Capacity: 60, IsActive: false}
	require.NoError(t, db.Create(&retired).Error)
	_, err = svc.Assign(trip.ID, nil, uintPtr(retired.ID))
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestAssignOnlyFromApproved(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)

	driver := createUser(t, db, "driver@example.com", model.RoleDriver)
	_, err := svc.Assign(trip.ID, uintPtr(driver.ID), nil)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestUpdateOnlyDraftTrips(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)

	updated, err := svc.Update(trip.ID, TripRequest{Destination: "Harbor"})
	require.NoError(t, err)
	assert.Equal(t, "Harbor", updated.Destination)

	_, err = svc.Quote(trip.ID, 500)
	require.NoError(t, err)
	_, err = svc.Update(trip.ID, TripRequest{Destination: "Stadium"})
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestCreateRejectsInactiveGroup(t *testing.T) {
	svc, db := newTripService(t)
	group := seedGroup(t, db, false)

	_, err := svc.Create(group.ID, TripRequest{Title: "Night run", DepartAt: time.Now()})
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))
}

func TestDeleteLiveTripRejected(t *testing.T) {
	svc, db := newTripService(t)
	trip := seedTrip(t, db, svc)
	_, err := svc.Quote(trip.ID, 600)
	require.NoError(t, err)
	_, err = svc.Approve(trip.ID)
	require.NoError(t, err)
	driver := createUser(t, db, "driver@example.com", model.RoleDriver)
	bus := model.Bus{Plate: "BUS-003", Capacity: 40, IsActive: true}
	require.NoError(t, db.Create(&bus).Error)
	_, err = svc.Assign(trip.ID, uintPtr(driver.ID), uintPtr(bus.ID))
	require.NoError(t, err)
	_, err = svc.Start(trip.ID)
	require.NoError(t, err)

	err = svc.SoftDelete(trip.ID)
	require.Error(t, err)
	assert.Equal(t, KindRule, KindOf(err))

	_, err = svc.Cancel(trip.ID, "weather")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(trip.ID))

	_, err = svc.Get(trip.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListForOrgFiltersByStatus(t *testing.T) {
	svc, db := newTripService(t)
	group := seedGroup(t, db, true)
	for _, title := range []string{"One", "Two"} {
		_, err := svc.Create(group.ID, TripRequest{Title: title, DepartAt: time.Now()})
		require.NoError(t, err)
	}
	quoted, err := svc.Create(group.ID, TripRequest{Title: "Three", DepartAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.Quote(quoted.ID, 400)
	require.NoError(t, err)

	all, err := svc.ListForOrg(group.OrganizationID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	drafts, err := svc.ListForOrg(group.OrganizationID, "draft")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	_, err = svc.ListForOrg(group.OrganizationID, "parked")
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}
