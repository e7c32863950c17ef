// Package occupancy decides whether a bed can be assigned to a tenant.
// Both checks are read-only scans over snapshots the caller loads; they
// hold no state and perform no I/O.
package occupancy

import (
	"errors"
	"fmt"
)

type BedStatus string

const (
	BedActive      BedStatus = "active"
	BedMaintenance BedStatus = "maintenance"
	BedRetired     BedStatus = "retired"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomQuad   RoomType = "quad"
)

// Capacity returns the number of beds a room type holds. Unrecognized
// types fall back to 1 so they never admit more occupants than the
// smallest known room would.
func (t RoomType) Capacity() int {
	switch t {
	case RoomSingle:
		return 1
	case RoomDouble:
		return 2
	case RoomTriple:
		return 3
	case RoomQuad:
		return 4
	}
	return 1
}

var (
	ErrBedNotFound  = errors.New("bed not found")
	ErrBedNotActive = errors.New("bed is not active")
	ErrBedOccupied  = errors.New("bed is already occupied")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is at capacity")
)

// Bed is the evaluator's view of a bed record.
type Bed struct {
	ID         uint
	PropertyID uint
	RoomID     uint
	Code       string
	Status     BedStatus
}

// Room is the evaluator's view of a room record.
type Room struct {
	ID         uint
	PropertyID uint
	Code       string
	Type       RoomType
}

// Accommodation links a tenant to a (property, room, bed) triple.
type Accommodation struct {
	TenantID   uint
	PropertyID uint
	RoomID     uint
	BedID      uint
	IsActive   bool
}

// Occupancy reports how full a room is.
type Occupancy struct {
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
}

// CheckBedAvailable returns nil when the bed exists, is active, and no
// active accommodation occupies it. The occupied error names the tenant
// currently holding the bed.
func CheckBedAvailable(beds []Bed, accommodations []Accommodation, propertyID, roomID, bedID uint) error {
	var bed *Bed
	for i := range beds {
		if beds[i].ID == bedID && beds[i].PropertyID == propertyID && beds[i].RoomID == roomID {
			bed = &beds[i]
			break
		}
	}
	if bed == nil {
		return fmt.Errorf("%w: bed %d in room %d of property %d", ErrBedNotFound, bedID, roomID, propertyID)
	}

	if bed.Status != BedActive {
		return fmt.Errorf("%w: bed %s has status %s", ErrBedNotActive, bed.Code, bed.Status)
	}

	for _, acc := range accommodations {
		if acc.IsActive && acc.PropertyID == propertyID && acc.RoomID == roomID && acc.BedID == bedID {
			return fmt.Errorf("%w: bed %s is occupied by tenant %d", ErrBedOccupied, bed.Code, acc.TenantID)
		}
	}

	return nil
}

// CheckRoomCapacity counts active accommodations in the room against
// its type's capacity. The returned Occupancy is populated on success
// and alongside ErrRoomFull so callers can report count/capacity.
func CheckRoomCapacity(rooms []Room, accommodations []Accommodation, propertyID, roomID uint) (Occupancy, error) {
	var room *Room
	for i := range rooms {
		if rooms[i].ID == roomID && rooms[i].PropertyID == propertyID {
			room = &rooms[i]
			break
		}
	}
	if room == nil {
		return Occupancy{}, fmt.Errorf("%w: room %d of property %d", ErrRoomNotFound, roomID, propertyID)
	}

	occ := Occupancy{Capacity: room.Type.Capacity()}
	for _, acc := range accommodations {
		if acc.IsActive && acc.PropertyID == propertyID && acc.RoomID == roomID {
			occ.Count++
		}
	}

	if occ.Count >= occ.Capacity {
		return occ, fmt.Errorf("%w: room %s has %d/%d occupants", ErrRoomFull, room.Code, occ.Count, occ.Capacity)
	}

	return occ, nil
}

// CheckAssignment runs the bed check first and the capacity check
// second, returning the first failure. The ordering is part of the
// contract: callers rely on a single, consistent error precedence.
func CheckAssignment(beds []Bed, rooms []Room, accommodations []Accommodation, propertyID, roomID, bedID uint) (Occupancy, error) {
	if err := CheckBedAvailable(beds, accommodations, propertyID, roomID, bedID); err != nil {
		return Occupancy{}, err
	}
	return CheckRoomCapacity(rooms, accommodations, propertyID, roomID)
}
