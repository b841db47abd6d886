package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/service"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		DoctorID:        appointment.DoctorID,
		SlotID:          appointment.SlotID,
		DoctorName:      appointment.Doctor.DoctorName,
		DoctorSpecialty: appointment.Doctor.DoctorSpecialty,
		ConsultationFee: appointment.Doctor.ConsultationFee,
		Date:            appointment.Date.Format("2006-01-02"),
		Time:            appointment.Time,
		Channel:         string(appointment.Channel),
		Status:          string(appointment.Status),
		StatusLabel:     appointment.Status.Label(),
		MedicalRecordID: appointment.MedicalRecordID,
		CreatedAt:       appointment.CreatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}

func SessionViewToResponse(view service.SessionView) *dto.PaymentSessionResponse {
	response := &dto.PaymentSessionResponse{
		OrderCode:    view.OrderCode,
		Status:       string(view.Status),
		ErrorMessage: view.ErrorMsg,
	}
	if view.Intent != nil {
		response.Amount = view.Intent.Amount
		response.QRUrl = view.Intent.QRUrl
		response.BankCode = view.Intent.BankInfo.BankCode
		response.AccountNumber = view.Intent.BankInfo.AccountNumber
		response.AccountName = view.Intent.BankInfo.AccountName
		response.TransferContent = view.Intent.BankInfo.TransferContent
	}
	return response
}
