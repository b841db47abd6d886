package handler

import (
	"net/http"

	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Get(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "You are not a participant of this appointment")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Confirm(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentDoctor:
			response.Forbidden(w, "Appointment is assigned to another doctor")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Appointment cannot be confirmed in its current status")
		default:
			response.InternalServerError(w, "Failed to confirm appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment confirmed successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "You are not a participant of this appointment")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Appointment cannot be cancelled in its current status")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) StartConsultation(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.StartConsultation(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "You are not a participant of this appointment")
		case usecase.ErrConsultationNotReady:
			response.Conflict(w, "Appointment has not been confirmed by the doctor yet")
		default:
			response.InternalServerError(w, "Failed to start consultation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Consultation can start", appointment)
}

// pathID parses the uuid path variable, writing the 400 itself on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
