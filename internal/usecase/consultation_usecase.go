package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	"github.com/clinicai/clinicai-api/internal/gateway"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SummaryUnavailableText replaces the AI consultation summary when the
// advice service fails. The consultation outcome never depends on it.
const SummaryUnavailableText = "Không thể tạo bản tóm tắt tư vấn vào lúc này."

var (
	ErrRecordNotFound          = errors.New("medical record not found")
	ErrRecordAlreadyExists     = errors.New("appointment already has a medical record")
	ErrRecordNotCompleted      = errors.New("medical record requires a completed appointment")
	ErrAssessmentRequired      = errors.New("assessment must not be empty")
	ErrNotRecordPatientOrOwner = errors.New("medical record belongs to another patient")
)

type ConsultationUsecase interface {
	// End closes a consultation: the appointment completes exactly once and
	// the transcript is summarized on a best-effort basis.
	End(ctx context.Context, request *dto.EndConsultationRequest) (*dto.ConsultationEndResponse, error)
	// SaveRecord persists the doctor's SOAP note for a completed appointment
	SaveRecord(ctx context.Context, request *dto.SaveMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	// SuggestICD10 decorates the record form with diagnosis code suggestions.
	// Degrades to an empty list when the advice service is down.
	SuggestICD10(ctx context.Context, summary string) ([]dto.ICD10SuggestionResponse, error)
	ListPatientRecords(ctx context.Context) ([]dto.MedicalRecordResponse, error)
	GetRecord(ctx context.Context, recordID uuid.UUID) (*dto.MedicalRecordResponse, error)
}

type consultationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	recordRepo      repository.MedicalRecordRepository
	appointments    AppointmentUsecase
	advice          gateway.AdviceService
	notifications   NotificationUsecase
}

func NewConsultationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	recordRepo repository.MedicalRecordRepository,
	appointments AppointmentUsecase,
	advice gateway.AdviceService,
	notifications NotificationUsecase,
) ConsultationUsecase {
	return &consultationUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		recordRepo:      recordRepo,
		appointments:    appointments,
		advice:          advice,
		notifications:   notifications,
	}
}

func (u *consultationUsecase) End(ctx context.Context, request *dto.EndConsultationRequest) (*dto.ConsultationEndResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), request.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentParty
	}

	// Both participants leave the call; only the first End wins the
	// transition. The second leaver finds the appointment already completed
	// and still gets the summary view. Any other state never had a running
	// consultation to end.
	switch appointment.Status {
	case entity.AppointmentStatusConfirmed:
		if err := u.appointments.Complete(ctx, appointment.ID); err != nil && !errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
	case entity.AppointmentStatusCompleted:
	default:
		return nil, ErrConsultationNotReady
	}
	appointment.Status = entity.AppointmentStatusCompleted

	summary := SummaryUnavailableText
	if generated, err := u.advice.SummarizeTranscript(ctx, request.Transcript); err != nil {
		u.log.Warnf("Transcript summary failed for appointment %s, using fallback: %+v", appointment.ID, err)
	} else {
		summary = generated
	}

	// The doctor moves on to write the record; the patient reads the summary
	nextStep := "view_summary"
	if role == entity.RoleDoctor {
		nextStep = "create_record"
	}

	return &dto.ConsultationEndResponse{
		Appointment: *converter.AppointmentToResponse(appointment),
		Summary:     summary,
		NextStep:    nextStep,
	}, nil
}

func (u *consultationUsecase) SaveRecord(ctx context.Context, request *dto.SaveMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleDoctor {
		return nil, ErrNotAppointmentDoctor
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), request.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != userID {
		return nil, ErrNotAppointmentDoctor
	}
	if appointment.Status != entity.AppointmentStatusCompleted {
		return nil, ErrRecordNotCompleted
	}
	if request.Assessment == "" {
		return nil, ErrAssessmentRequired
	}

	existing, err := u.recordRepo.FindByAppointmentID(u.db.WithContext(ctx), appointment.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRecordAlreadyExists
	}

	record := &entity.MedicalRecord{
		AppointmentID:       appointment.ID,
		PatientID:           appointment.PatientID,
		DoctorID:            appointment.DoctorID,
		Subjective:          request.Subjective,
		Objective:           request.Objective,
		Assessment:          request.Assessment,
		Plan:                request.Plan,
		ConsultationSummary: request.ConsultationSummary,
		RecordDate:          time.Now().UTC(),
	}
	for _, p := range request.Prescriptions {
		record.Prescriptions = append(record.Prescriptions, entity.Prescription{
			DrugName:  p.DrugName,
			Dosage:    p.Dosage,
			Frequency: p.Frequency,
			Duration:  p.Duration,
		})
	}
	for _, a := range request.Attachments {
		record.Attachments = append(record.Attachments, entity.RecordAttachment{
			FileName: a.FileName,
			FileURL:  a.FileURL,
		})
	}

	if err := u.recordRepo.Create(u.db.WithContext(ctx), record); err != nil {
		u.log.Errorf("Failed to create medical record for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	if err := u.appointmentRepo.LinkMedicalRecord(u.db.WithContext(ctx), appointment.ID, record.ID); err != nil {
		u.log.Errorf("Failed to link record %s to appointment %s: %+v", record.ID, appointment.ID, err)
		return nil, err
	}

	message := fmt.Sprintf("Đơn thuốc và bệnh án từ %s đã sẵn sàng.", appointment.Doctor.DoctorName)
	u.notifications.Emit(ctx, appointment.PatientID, entity.NotificationTypePrescription, message, &record.ID)

	u.log.Infof("Medical record created: id=%s appointment=%s", record.ID, appointment.ID)
	return converter.MedicalRecordToResponse(record), nil
}

func (u *consultationUsecase) SuggestICD10(ctx context.Context, summary string) ([]dto.ICD10SuggestionResponse, error) {
	suggestions, err := u.advice.SuggestICD10(ctx, summary)
	if err != nil {
		u.log.Warnf("ICD-10 suggestion failed, returning empty list: %+v", err)
		return []dto.ICD10SuggestionResponse{}, nil
	}
	return converter.ICD10SuggestionsToResponses(suggestions), nil
}

func (u *consultationUsecase) ListPatientRecords(ctx context.Context) ([]dto.MedicalRecordResponse, error) {
	userID, _, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	records, err := u.recordRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list records for patient %s: %+v", userID, err)
		return nil, err
	}
	return converter.MedicalRecordsToResponses(records), nil
}

func (u *consultationUsecase) GetRecord(ctx context.Context, recordID uuid.UUID) (*dto.MedicalRecordResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), recordID)
	if err != nil {
		u.log.Warnf("Failed to find record %s: %+v", recordID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if role != entity.RoleAdmin && record.PatientID != userID && record.DoctorID != userID {
		return nil, ErrNotRecordPatientOrOwner
	}

	return converter.MedicalRecordToResponse(record), nil
}
