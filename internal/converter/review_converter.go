package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
)

func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:        review.ID,
		DoctorID:  review.DoctorID,
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *ReviewToResponse(&reviews[i]))
	}
	return responses
}
