package model

import (
	"time"

	"gorm.io/gorm"

	"roomstay_backend/pkg/occupancy"
)

// Accommodation links a tenant to a specific bed. A bed has at most one
// accommodation with IsActive = true; check-out flips the flag instead
// of deleting the record.
type Accommodation struct {
	gorm.Model
	TenantID   uint `json:"tenant_id" gorm:"index;not null"`
	PropertyID uint `json:"property_id" gorm:"index;not null"`
	RoomID     uint `json:"room_id" gorm:"index;not null"`
	BedID      uint `json:"bed_id" gorm:"index;not null"`

	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CheckInDate  time.Time  `json:"check_in_date"`
	CheckOutDate *time.Time `json:"check_out_date"`
	MonthlyRent  float64    `json:"monthly_rent"`
	Notes        string     `json:"notes" gorm:"type:text"`

	Tenant   User     `json:"-" gorm:"foreignKey:TenantID"`
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
	Room     Room     `json:"-" gorm:"foreignKey:RoomID"`
	Bed      Bed      `json:"-" gorm:"foreignKey:BedID"`
}

// ToOccupancy maps the row to the occupancy validator's view.
func (a *Accommodation) ToOccupancy() occupancy.Accommodation {
	return occupancy.Accommodation{
		TenantID:   a.TenantID,
		PropertyID: a.PropertyID,
		RoomID:     a.RoomID,
		BedID:      a.BedID,
		IsActive:   a.IsActive,
	}
}

func AccommodationsToOccupancy(accs []Accommodation) []occupancy.Accommodation {
	out := make([]occupancy.Accommodation, len(accs))
	for i := range accs {
		out[i] = accs[i].ToOccupancy()
	}
	return out
}
