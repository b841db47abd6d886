package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/service"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
	"github.com/clinicai/clinicai-api/pkg/validator"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bookingUsecase.Initiate(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAuthenticationRequired:
			response.Unauthorized(w, "Please log in to book an appointment")
		case usecase.ErrPatientOnly:
			response.Forbidden(w, "Only patients can book appointments")
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Time slot not found")
		case usecase.ErrSlotInPast:
			response.Error(w, http.StatusBadRequest, "Cannot book a past time slot", nil)
		case usecase.ErrSlotNotBookable, service.ErrSlotUnavailable:
			response.Conflict(w, "Time slot is fully booked")
		default:
			response.InternalServerError(w, "Failed to initiate booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking initiated successfully", result)
}

func (h *BookingHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderCode := mux.Vars(r)["orderCode"]

	result, err := h.bookingUsecase.PaymentStatus(r.Context(), orderCode)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.NotFound(w, "Payment session not found")
		default:
			response.InternalServerError(w, "Failed to get payment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment status retrieved successfully", result)
}

func (h *BookingHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	orderCode := mux.Vars(r)["orderCode"]

	result, err := h.bookingUsecase.CheckPayment(r.Context(), orderCode)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.NotFound(w, "Payment session not found")
		default:
			response.InternalServerError(w, "Failed to check payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment checked successfully", result)
}

func (h *BookingHandler) AbandonPayment(w http.ResponseWriter, r *http.Request) {
	orderCode := mux.Vars(r)["orderCode"]

	if err := h.bookingUsecase.AbandonPayment(r.Context(), orderCode); err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.NotFound(w, "Payment session not found")
		default:
			response.InternalServerError(w, "Failed to abandon payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment session closed", nil)
}
