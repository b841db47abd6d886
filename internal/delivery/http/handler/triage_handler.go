package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/gateway"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
	"github.com/clinicai/clinicai-api/pkg/validator"
)

type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
	validator     *validator.CustomValidator
}

func NewTriageHandler(triageUsecase usecase.TriageUsecase, validator *validator.CustomValidator) *TriageHandler {
	return &TriageHandler{
		triageUsecase: triageUsecase,
		validator:     validator,
	}
}

func (h *TriageHandler) SuggestSpecialties(w http.ResponseWriter, r *http.Request) {
	var req dto.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.triageUsecase.SuggestSpecialties(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymptomsRequired):
			response.Error(w, http.StatusBadRequest, "Symptoms description must not be empty", nil)
		case errors.Is(err, gateway.ErrAdviceUnavailable):
			response.Error(w, http.StatusServiceUnavailable, "Symptom analysis is temporarily unavailable, please try again later", nil)
		default:
			response.InternalServerError(w, "Failed to analyze symptoms")
		}
		return
	}

	response.Success(w, http.StatusOK, "Symptoms analyzed successfully", result)
}

func (h *TriageHandler) ListEscalations(w http.ResponseWriter, r *http.Request) {
	logs, err := h.triageUsecase.ListEscalations(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrStaffOnly:
			response.Forbidden(w, "Reserved for medical staff")
		default:
			response.InternalServerError(w, "Failed to get escalations")
		}
		return
	}

	response.Success(w, http.StatusOK, "Escalations retrieved successfully", logs)
}

func (h *TriageHandler) AnswerEscalation(w http.ResponseWriter, r *http.Request) {
	var req dto.AnswerEscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.triageUsecase.AnswerEscalation(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrEscalationNotFound:
			response.NotFound(w, "Escalation not found")
		case usecase.ErrEscalationAnswered:
			response.Conflict(w, "Escalation has already been answered")
		case usecase.ErrStaffOnly:
			response.Forbidden(w, "Reserved for medical staff")
		default:
			response.InternalServerError(w, "Failed to answer escalation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Escalation answered successfully", nil)
}

func (h *TriageHandler) SendAdminAlert(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.triageUsecase.SendAdminAlert(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrStaffOnly:
			response.Forbidden(w, "Only admins can send alerts")
		default:
			response.InternalServerError(w, "Failed to send alert")
		}
		return
	}

	response.Success(w, http.StatusOK, "Alert sent successfully", nil)
}
