package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/gateway"
)

func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	response := &dto.MedicalRecordResponse{
		ID:                  record.ID,
		AppointmentID:       record.AppointmentID,
		PatientID:           record.PatientID,
		DoctorID:            record.DoctorID,
		Subjective:          record.Subjective,
		Objective:           record.Objective,
		Assessment:          record.Assessment,
		Plan:                record.Plan,
		ConsultationSummary: record.ConsultationSummary,
		RecordDate:          record.RecordDate,
	}
	for _, p := range record.Prescriptions {
		response.Prescriptions = append(response.Prescriptions, dto.PrescriptionResponse{
			ID:        p.ID,
			DrugName:  p.DrugName,
			Dosage:    p.Dosage,
			Frequency: p.Frequency,
			Duration:  p.Duration,
		})
	}
	for _, a := range record.Attachments {
		response.Attachments = append(response.Attachments, dto.AttachmentResponse{
			ID:       a.ID,
			FileName: a.FileName,
			FileURL:  a.FileURL,
		})
	}
	return response
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *MedicalRecordToResponse(&records[i]))
	}
	return responses
}

func ICD10SuggestionsToResponses(suggestions []gateway.ICD10Suggestion) []dto.ICD10SuggestionResponse {
	responses := make([]dto.ICD10SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, dto.ICD10SuggestionResponse{
			Code:        s.Code,
			Description: s.Description,
		})
	}
	return responses
}
