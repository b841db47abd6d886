package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role constants. Role is a plain string on the user row; there is no
// separate role table.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
)

// ValidRole checks whether the given role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// User represents the centralized authentication and identity table
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Role            string    `gorm:"type:varchar(20);not null;index" json:"role"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"type:text;not null" json:"-"`
	FullName        string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone           string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address         string    `gorm:"type:text" json:"address,omitempty"`
	InsuranceNumber string    `gorm:"type:varchar(50)" json:"insurance_number,omitempty"`
	IsActive        bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile *DoctorProfile `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
