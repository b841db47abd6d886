package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
	"github.com/clinicai/clinicai-api/pkg/validator"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.Submit(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrReviewNotOwnPatient:
			response.Forbidden(w, "Only the appointment's patient can review it")
		case usecase.ErrReviewNotCompleted:
			response.Conflict(w, "Reviews require a completed appointment")
		case usecase.ErrAlreadyReviewed:
			response.Conflict(w, "You have already reviewed this doctor")
		case usecase.ErrReviewRatingOutOfRange:
			response.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5", nil)
		default:
			response.InternalServerError(w, "Failed to submit review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review submitted successfully", review)
}

func (h *ReviewHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "doctorId")
	if !ok {
		return
	}

	reviews, err := h.reviewUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get reviews")
		return
	}

	response.Success(w, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reviewUsecase.Delete(r.Context(), reviewID); err != nil {
		switch err {
		case usecase.ErrReviewNotFound:
			response.NotFound(w, "Review not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Only admins can delete reviews")
		default:
			response.InternalServerError(w, "Failed to delete review")
		}
		return
	}

	response.Success(w, http.StatusOK, "Review deleted successfully", nil)
}
