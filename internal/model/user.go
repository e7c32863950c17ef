package model

import (
	"strings"

	"gorm.io/gorm"

	"roomstay_backend/pkg/subscription"
)

type User struct {
	gorm.Model
	Email    string                `gorm:"uniqueIndex;not null"`
	Password string                `json:"-" gorm:"not null"`
	Username string                `gorm:"uniqueIndex;not null"`
	Role     subscription.UserType `json:"role" gorm:"not null;default:'tenant'"`

	// Optional profile fields, editable from settings
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
	Avatar      string `json:"avatar"`

	IsVerified bool `json:"is_verified" gorm:"default:false"`

	ResetToken string `json:"-"`

	Properties     []Property      `json:"-"`
	Subscriptions  []Subscription  `json:"-"`
	Accommodations []Accommodation `json:"-" gorm:"foreignKey:TenantID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role,
		"full_name":    u.GetFullName(),
		"company_name": u.CompanyName,
		"phone_number": u.PhoneNumber,
		"avatar":       u.Avatar,
		"is_verified":  u.IsVerified,
	}
}
