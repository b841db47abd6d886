package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
	"github.com/clinicai/clinicai-api/pkg/validator"
)

type TimeSlotHandler struct {
	timeSlotUsecase usecase.TimeSlotUsecase
	validator       *validator.CustomValidator
}

func NewTimeSlotHandler(timeSlotUsecase usecase.TimeSlotUsecase, validator *validator.CustomValidator) *TimeSlotHandler {
	return &TimeSlotHandler{
		timeSlotUsecase: timeSlotUsecase,
		validator:       validator,
	}
}

func (h *TimeSlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTimeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.timeSlotUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorOnly:
			response.Forbidden(w, "Only doctors can publish time slots")
		case usecase.ErrInvalidSlotDate:
			response.Error(w, http.StatusBadRequest, "Slot date must be today or later, format YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Time must be in HH:MM format", nil)
		case usecase.ErrInvalidCapacity:
			response.Error(w, http.StatusBadRequest, "Max patients must be at least 1", nil)
		case usecase.ErrInvalidChannel:
			response.Error(w, http.StatusBadRequest, "Channel must be online or offline", nil)
		default:
			response.InternalServerError(w, "Failed to create time slot")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Time slot created successfully", slot)
}

func (h *TimeSlotHandler) ListBookable(w http.ResponseWriter, r *http.Request) {
	slots, err := h.timeSlotUsecase.ListBookable(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get time slots")
		return
	}

	response.Success(w, http.StatusOK, "Time slots retrieved successfully", slots)
}

func (h *TimeSlotHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "doctorId")
	if !ok {
		return
	}

	slots, err := h.timeSlotUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get time slots")
		return
	}

	response.Success(w, http.StatusOK, "Time slots retrieved successfully", slots)
}

func (h *TimeSlotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.timeSlotUsecase.Cancel(r.Context(), slotID); err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Time slot not found")
		case usecase.ErrNotSlotOwner:
			response.Forbidden(w, "Time slot belongs to another doctor")
		default:
			response.InternalServerError(w, "Failed to cancel time slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Time slot cancelled successfully", nil)
}
