package model

import (
	"gorm.io/gorm"

	"roomstay_backend/pkg/occupancy"
)

// Room belongs to exactly one property; its type determines capacity.
type Room struct {
	gorm.Model
	PropertyID  uint               `json:"property_id" gorm:"index;not null"`
	Code        string             `json:"code" gorm:"not null"`
	Type        occupancy.RoomType `json:"type" gorm:"not null"`
	Floor       int                `json:"floor"`
	MonthlyRent float64            `json:"monthly_rent"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
	Beds     []Bed    `json:"beds" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// Bed belongs to exactly one room.
type Bed struct {
	gorm.Model
	PropertyID  uint                `json:"property_id" gorm:"index;not null"`
	RoomID      uint                `json:"room_id" gorm:"index;not null"`
	Code        string              `json:"code" gorm:"not null"`
	Status      occupancy.BedStatus `json:"status" gorm:"not null;default:'active'"`
	MonthlyRent float64             `json:"monthly_rent"`

	Room Room `json:"-" gorm:"foreignKey:RoomID"`
}

// ToOccupancy maps the row to the occupancy validator's view.
func (r *Room) ToOccupancy() occupancy.Room {
	return occupancy.Room{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		Code:       r.Code,
		Type:       r.Type,
	}
}

func (b *Bed) ToOccupancy() occupancy.Bed {
	return occupancy.Bed{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		RoomID:     b.RoomID,
		Code:       b.Code,
		Status:     b.Status,
	}
}

// RoomsToOccupancy converts a snapshot of rows for the validators.
func RoomsToOccupancy(rooms []Room) []occupancy.Room {
	out := make([]occupancy.Room, len(rooms))
	for i := range rooms {
		out[i] = rooms[i].ToOccupancy()
	}
	return out
}

func BedsToOccupancy(beds []Bed) []occupancy.Bed {
	out := make([]occupancy.Bed, len(beds))
	for i := range beds {
		out[i] = beds[i].ToOccupancy()
	}
	return out
}
