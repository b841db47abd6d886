package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	FullName        string `json:"full_name" validate:"required,max=255"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	Address         string `json:"address" validate:"omitempty"`
	InsuranceNumber string `json:"insurance_number" validate:"omitempty,max=50"`
}

type RegisterDoctorRequest struct {
	Email           string          `json:"email" validate:"required,email,max=255"`
	Password        string          `json:"password" validate:"required,min=8,max=72"`
	FullName        string          `json:"full_name" validate:"required,max=255"`
	Phone           string          `json:"phone" validate:"omitempty,max=20"`
	Specialty       string          `json:"specialty" validate:"required,max=100"`
	ExperienceYears int             `json:"experience_years" validate:"gte=0"`
	ConsultationFee decimal.Decimal `json:"consultation_fee" validate:"required"`
	Biography       string          `json:"biography" validate:"omitempty"`
	Education       string          `json:"education" validate:"omitempty"`
	Languages       string          `json:"languages" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID              uuid.UUID              `json:"id"`
	Role            string                 `json:"role"`
	Email           string                 `json:"email"`
	FullName        string                 `json:"full_name"`
	Phone           string                 `json:"phone,omitempty"`
	Address         string                 `json:"address,omitempty"`
	InsuranceNumber string                 `json:"insurance_number,omitempty"`
	IsActive        bool                   `json:"is_active"`
	CreatedAt       time.Time              `json:"created_at"`
	DoctorProfile   *DoctorProfileResponse `json:"doctor_profile,omitempty"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type DoctorProfileResponse struct {
	UserID          uuid.UUID       `json:"user_id"`
	FullName        string          `json:"full_name,omitempty"`
	Specialty       string          `json:"specialty"`
	ExperienceYears int             `json:"experience_years"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Biography       string          `json:"biography,omitempty"`
	Education       string          `json:"education,omitempty"`
	Languages       string          `json:"languages,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Rating          float64         `json:"rating"`
}
