package occupancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomstay_backend/pkg/occupancy"
)

// Fixture: property 1 with a double room (10) holding beds 101-103 and
// a single room (20) holding bed 201. Tenant 1 sleeps in bed 101,
// tenant 2 in bed 201; bed 103 had an occupant who checked out.
var (
	beds = []occupancy.Bed{
		{ID: 101, PropertyID: 1, RoomID: 10, Code: "BED-101", Status: occupancy.BedActive},
		{ID: 102, PropertyID: 1, RoomID: 10, Code: "BED-102", Status: occupancy.BedMaintenance},
		{ID: 103, PropertyID: 1, RoomID: 10, Code: "BED-103", Status: occupancy.BedActive},
		{ID: 201, PropertyID: 1, RoomID: 20, Code: "BED-201", Status: occupancy.BedActive},
	}

	rooms = []occupancy.Room{
		{ID: 10, PropertyID: 1, Code: "ROOM-A", Type: occupancy.RoomDouble},
		{ID: 20, PropertyID: 1, Code: "ROOM-B", Type: occupancy.RoomSingle},
		{ID: 30, PropertyID: 1, Code: "ROOM-C", Type: "dormitory"},
	}

	accommodations = []occupancy.Accommodation{
		{TenantID: 1, PropertyID: 1, RoomID: 10, BedID: 101, IsActive: true},
		{TenantID: 2, PropertyID: 1, RoomID: 20, BedID: 201, IsActive: true},
		{TenantID: 3, PropertyID: 1, RoomID: 10, BedID: 103, IsActive: false},
	}
)

func TestCheckBedAvailable(t *testing.T) {
	t.Parallel()

	t.Run("occupied bed names the tenant", func(t *testing.T) {
		t.Parallel()
		err := occupancy.CheckBedAvailable(beds, accommodations, 1, 10, 101)
		require.ErrorIs(t, err, occupancy.ErrBedOccupied)
		assert.Contains(t, err.Error(), "tenant 1")
	})

	t.Run("maintenance bed is not assignable", func(t *testing.T) {
		t.Parallel()
		err := occupancy.CheckBedAvailable(beds, accommodations, 1, 10, 102)
		assert.ErrorIs(t, err, occupancy.ErrBedNotActive)
	})

	t.Run("bed with a checked-out occupant is available", func(t *testing.T) {
		t.Parallel()
		err := occupancy.CheckBedAvailable(beds, accommodations, 1, 10, 103)
		assert.NoError(t, err)
	})

	t.Run("unknown bed", func(t *testing.T) {
		t.Parallel()
		err := occupancy.CheckBedAvailable(beds, accommodations, 1, 10, 999)
		assert.ErrorIs(t, err, occupancy.ErrBedNotFound)
	})

	t.Run("bed must match the full triple", func(t *testing.T) {
		t.Parallel()
		// Right bed id, wrong room.
		err := occupancy.CheckBedAvailable(beds, accommodations, 1, 20, 101)
		assert.ErrorIs(t, err, occupancy.ErrBedNotFound)
	})
}

func TestCheckRoomCapacity(t *testing.T) {
	t.Parallel()

	t.Run("single room with one tenant is full", func(t *testing.T) {
		t.Parallel()
		occ, err := occupancy.CheckRoomCapacity(rooms, accommodations, 1, 20)
		require.ErrorIs(t, err, occupancy.ErrRoomFull)
		assert.Equal(t, occupancy.Occupancy{Count: 1, Capacity: 1}, occ)
		assert.Contains(t, err.Error(), "1/1")
	})

	t.Run("double room with one tenant has space", func(t *testing.T) {
		t.Parallel()
		occ, err := occupancy.CheckRoomCapacity(rooms, accommodations, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, occupancy.Occupancy{Count: 1, Capacity: 2}, occ)
	})

	t.Run("inactive accommodations do not count", func(t *testing.T) {
		t.Parallel()
		occ, err := occupancy.CheckRoomCapacity(rooms, accommodations, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, occ.Count)
	})

	t.Run("unknown room type falls back to capacity 1", func(t *testing.T) {
		t.Parallel()
		occ, err := occupancy.CheckRoomCapacity(rooms, nil, 1, 30)
		require.NoError(t, err)
		assert.Equal(t, 1, occ.Capacity)
	})

	t.Run("unknown room", func(t *testing.T) {
		t.Parallel()
		_, err := occupancy.CheckRoomCapacity(rooms, accommodations, 1, 99)
		assert.ErrorIs(t, err, occupancy.ErrRoomNotFound)
	})
}

func TestCheckAssignment(t *testing.T) {
	t.Parallel()

	t.Run("bed errors take precedence over room errors", func(t *testing.T) {
		t.Parallel()
		// Bed 201 is occupied AND its single room is full; the bed
		// failure must win.
		_, err := occupancy.CheckAssignment(beds, rooms, accommodations, 1, 20, 201)
		assert.ErrorIs(t, err, occupancy.ErrBedOccupied)
	})

	t.Run("free bed in a room with space succeeds", func(t *testing.T) {
		t.Parallel()
		occ, err := occupancy.CheckAssignment(beds, rooms, accommodations, 1, 10, 103)
		require.NoError(t, err)
		assert.Equal(t, occupancy.Occupancy{Count: 1, Capacity: 2}, occ)
	})
}

func TestRoomTypeCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, occupancy.RoomSingle.Capacity())
	assert.Equal(t, 2, occupancy.RoomDouble.Capacity())
	assert.Equal(t, 3, occupancy.RoomTriple.Capacity())
	assert.Equal(t, 4, occupancy.RoomQuad.Capacity())
	assert.Equal(t, 1, occupancy.RoomType("loft").Capacity())
}
