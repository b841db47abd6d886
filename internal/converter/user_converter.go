package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
)

func UserToResponse(user *entity.User) *dto.UserResponse {
	response := &dto.UserResponse{
		ID:              user.ID,
		Role:            user.Role,
		Email:           user.Email,
		FullName:        user.FullName,
		Phone:           user.Phone,
		Address:         user.Address,
		InsuranceNumber: user.InsuranceNumber,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
	}
	if user.DoctorProfile != nil {
		response.DoctorProfile = DoctorProfileToResponse(user.DoctorProfile)
	}
	return response
}

func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	return &dto.DoctorProfileResponse{
		UserID:          profile.UserID,
		FullName:        profile.User.FullName,
		Specialty:       profile.Specialty,
		ExperienceYears: profile.ExperienceYears,
		ConsultationFee: profile.ConsultationFee,
		Biography:       profile.Biography,
		Education:       profile.Education,
		Languages:       profile.Languages,
		ImageURL:        profile.ImageURL,
		Rating:          profile.Rating,
	}
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorProfileResponse {
	responses := make([]dto.DoctorProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, *DoctorProfileToResponse(&profiles[i]))
	}
	return responses
}
