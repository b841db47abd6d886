package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDoctorRating is the rating assigned to doctors without any review
const DefaultDoctorRating = 5.0

// DoctorProfile represents doctor-specific profile data. Rating is the
// arithmetic mean of all review ratings and is recomputed on every review
// append or delete.
type DoctorProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialty       string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	ExperienceYears int             `gorm:"not null;default:0" json:"experience_years"`
	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"consultation_fee"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	Education       string          `gorm:"type:text" json:"education,omitempty"`
	Languages       string          `gorm:"type:varchar(255)" json:"languages,omitempty"`
	ImageURL        string          `gorm:"type:text" json:"image_url,omitempty"`
	Rating          float64         `gorm:"not null;default:5.0" json:"rating"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User    User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slots   []TimeSlot `gorm:"foreignKey:DoctorID" json:"slots,omitempty"`
	Reviews []Review   `gorm:"foreignKey:DoctorID" json:"reviews,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Snapshot freezes the doctor's display identity and fee for an appointment
func (d *DoctorProfile) Snapshot() DoctorSnapshot {
	return DoctorSnapshot{
		DoctorName:      d.User.FullName,
		DoctorSpecialty: d.Specialty,
		ConsultationFee: d.ConsultationFee,
	}
}

// RatingFromReviews computes the mean rating of the given reviews, falling
// back to the default when the collection is empty.
func RatingFromReviews(reviews []Review) float64 {
	if len(reviews) == 0 {
		return DefaultDoctorRating
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
