package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleetCreateAndPlateUniqueness(t *testing.T) {
	svc := NewFleetService(newTestDB(t))

	bus, err := svc.Create(BusRequest{Name: "Coach 1", Plate: "AB-123", Capacity: 50})
	require.NoError(t, err)
	assert.True(t, bus.IsActive)

	_, err = svc.Create(BusRequest{Name: "Coach 2", Plate: "AB-123", Capacity: 40})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = svc.Create(BusRequest{Name: "", Plate: "CD-456"})
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestFleetUpdate(t *testing.T) {
	svc := NewFleetService(newTestDB(t))
	first, err := svc.Create(BusRequest{Name: "Coach 1", Plate: "AB-123", Capacity: 50})
	require.NoError(t, err)
	second, err := svc.Create(BusRequest{Name: "Coach 2", Plate: "CD-456", Capacity: 40})
	require.NoError(t, err)

	_, err = svc.Update(second.ID, BusRequest{Plate: first.Plate})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	updated, err := svc.Update(second.ID, BusRequest{Capacity: 44, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 44, updated.Capacity)
	assert.False(t, updated.IsActive)
}

func TestFleetSoftDelete(t *testing.T) {
	svc := NewFleetService(newTestDB(t))
	bus, err := svc.Create(BusRequest{Name: "Coach 1", Plate: "AB-123", Capacity: 50})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(bus.ID))
	_, err = svc.Get(bus.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	buses, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, buses)
}
