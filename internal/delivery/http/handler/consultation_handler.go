package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
	"github.com/clinicai/clinicai-api/pkg/validator"
)

type ConsultationHandler struct {
	consultationUsecase usecase.ConsultationUsecase
	validator           *validator.CustomValidator
}

func NewConsultationHandler(consultationUsecase usecase.ConsultationUsecase, validator *validator.CustomValidator) *ConsultationHandler {
	return &ConsultationHandler{
		consultationUsecase: consultationUsecase,
		validator:           validator,
	}
}

func (h *ConsultationHandler) End(w http.ResponseWriter, r *http.Request) {
	var req dto.EndConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.consultationUsecase.End(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "You are not a participant of this appointment")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Consultation cannot end in the appointment's current status")
		default:
			response.InternalServerError(w, "Failed to end consultation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Consultation ended successfully", result)
}

func (h *ConsultationHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.consultationUsecase.SaveRecord(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentDoctor:
			response.Forbidden(w, "Appointment is assigned to another doctor")
		case usecase.ErrRecordNotCompleted:
			response.Conflict(w, "Medical record requires a completed appointment")
		case usecase.ErrRecordAlreadyExists:
			response.Conflict(w, "Appointment already has a medical record")
		case usecase.ErrAssessmentRequired:
			response.Error(w, http.StatusBadRequest, "Assessment must not be empty", nil)
		default:
			response.InternalServerError(w, "Failed to save medical record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical record saved successfully", record)
}

func (h *ConsultationHandler) SuggestICD10(w http.ResponseWriter, r *http.Request) {
	var req dto.ICD10SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	suggestions, err := h.consultationUsecase.SuggestICD10(r.Context(), req.Summary)
	if err != nil {
		response.InternalServerError(w, "Failed to suggest diagnosis codes")
		return
	}

	response.Success(w, http.StatusOK, "Suggestions retrieved successfully", suggestions)
}

func (h *ConsultationHandler) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.consultationUsecase.ListPatientRecords(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *ConsultationHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	record, err := h.consultationUsecase.GetRecord(r.Context(), recordID)
	if err != nil {
		switch err {
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Medical record not found")
		case usecase.ErrNotRecordPatientOrOwner:
			response.Forbidden(w, "Medical record belongs to another patient")
		default:
			response.InternalServerError(w, "Failed to get medical record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", record)
}
