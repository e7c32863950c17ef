package model

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeHostel    PropertyType = "hostel"
	PropertyTypeCoLiving  PropertyType = "co_living"
	PropertyTypePG        PropertyType = "pg"
)

type PropertyStatus string

const (
	PropertyStatusActive      PropertyStatus = "active"
	PropertyStatusInactive    PropertyStatus = "inactive"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// Property is a landlord's rental listing. Rooms and beds hang off it.
type Property struct {
	gorm.Model
	Title       string         `json:"title" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex:idx_user_property_slug;not null"`
	Type        PropertyType   `json:"type" gorm:"not null"`
	Status      PropertyStatus `json:"status" gorm:"not null;default:'active'"`
	Description string         `json:"description" gorm:"type:text"`

	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_user_property_slug"`

	// Location
	AddressLine string `json:"address_line" gorm:"type:text"`
	City        string `json:"city" gorm:"not null"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`

	// Flexible amenity list, e.g. ["wifi", "laundry", "parking"]
	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	User   User            `json:"-" gorm:"foreignKey:UserID"`
	Rooms  []Room          `json:"rooms" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Images []PropertyImage `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"property_id"`
	URL        string `json:"url" gorm:"not null"`
	IsCover    bool   `json:"is_cover" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate derives a slug from the title, suffixed when the
// landlord already uses it.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		s := slug.Make(p.Title)

		var count int64
		tx.Model(&Property{}).Where("user_id = ? AND slug = ?", p.UserID, s).Count(&count)
		if count > 0 {
			s = fmt.Sprintf("%s-%d", s, count+1)
		}

		p.Slug = s
	}
	return nil
}
