package model

import (
	"time"

	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusRead       InquiryStatus = "read"
	InquiryStatusContacted  InquiryStatus = "contacted"
	InquiryStatusNoResponse InquiryStatus = "no_response"
	InquiryStatusCompleted  InquiryStatus = "completed"
)

// Inquiry is a prospective tenant asking about a property.
type Inquiry struct {
	gorm.Model
	PropertyID  uint          `json:"property_id" gorm:"index"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Message     string        `json:"message" gorm:"type:text"`
	Status      InquiryStatus `json:"status" gorm:"default:'new'"`
	ReadStatus  bool          `json:"read_status" gorm:"default:false"`
	ContactedAt *time.Time    `json:"contacted_at"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID"`
}
