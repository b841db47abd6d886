package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	"github.com/clinicai/clinicai-api/internal/gateway"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEscalationNotFound = errors.New("escalation not found")
	// ErrEscalationAnswered means another expert answered first; the guarded
	// update affected zero rows and no duplicate notification fires.
	ErrEscalationAnswered = errors.New("escalation already answered")
	ErrSymptomsRequired   = errors.New("symptoms description must not be empty")
	ErrStaffOnly          = errors.New("reserved for medical staff")
)

type TriageUsecase interface {
	// SuggestSpecialties maps free-text symptoms to specialty suggestions
	// and matching doctors. Every interaction is logged; an uncertain AI
	// answer is flagged for human review.
	SuggestSpecialties(ctx context.Context, request *dto.TriageRequest) (*dto.TriageResponse, error)
	// ListEscalations returns interactions awaiting an expert answer
	ListEscalations(ctx context.Context) ([]dto.AILogResponse, error)
	// AnswerEscalation records the expert's answer at most once and notifies
	// the asking user with a human_response entry pointing at the log.
	AnswerEscalation(ctx context.Context, request *dto.AnswerEscalationRequest) error
	// SendAdminAlert pushes an admin_alert notification to a user's mailbox
	SendAdminAlert(ctx context.Context, request *dto.AdminAlertRequest) error
}

type triageUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	aiLogRepo     repository.AIInteractionLogRepository
	doctorRepo    repository.DoctorProfileRepository
	advice        gateway.AdviceService
	notifications NotificationUsecase
}

func NewTriageUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	aiLogRepo repository.AIInteractionLogRepository,
	doctorRepo repository.DoctorProfileRepository,
	advice gateway.AdviceService,
	notifications NotificationUsecase,
) TriageUsecase {
	return &triageUsecase{
		db:            db,
		log:           log,
		aiLogRepo:     aiLogRepo,
		doctorRepo:    doctorRepo,
		advice:        advice,
		notifications: notifications,
	}
}

func (u *triageUsecase) SuggestSpecialties(ctx context.Context, request *dto.TriageRequest) (*dto.TriageResponse, error) {
	userID, _, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(request.Symptoms) == "" {
		return nil, ErrSymptomsRequired
	}

	suggestions, err := u.advice.SuggestSpecialties(ctx, request.Symptoms)
	if err != nil {
		u.log.Warnf("Specialty suggestion failed for user %s: %+v", userID, err)
		return nil, err
	}

	specialties := make([]string, 0, len(suggestions))
	var responseText strings.Builder
	for _, s := range suggestions {
		specialties = append(specialties, s.Specialty)
		responseText.WriteString(s.Specialty)
		responseText.WriteString(": ")
		responseText.WriteString(s.Reason)
		responseText.WriteString("\n")
	}

	doctors, err := u.doctorRepo.FindBySpecialties(u.db.WithContext(ctx), specialties)
	if err != nil {
		u.log.Warnf("Failed to find doctors for specialties %v: %+v", specialties, err)
		return nil, err
	}

	aiLog := &entity.AIInteractionLog{
		UserID:     userID,
		UserQuery:  request.Symptoms,
		AIResponse: responseText.String(),
		Status:     entity.AILogStatusAnswered,
	}
	if entity.NeedsHumanReview(aiLog.AIResponse) {
		aiLog.Status = entity.AILogStatusNeedsReview
	}
	if err := u.aiLogRepo.Create(u.db.WithContext(ctx), aiLog); err != nil {
		// The suggestion still reaches the user; only the audit trail is lost
		u.log.Errorf("Failed to log AI interaction for user %s: %+v", userID, err)
	} else if aiLog.Status == entity.AILogStatusNeedsReview {
		u.log.Infof("AI interaction %s flagged for human review", aiLog.ID)
	}

	u.notifications.Emit(ctx, userID, entity.NotificationTypeAIResult,
		"Kết quả phân tích triệu chứng của bạn đã sẵn sàng.", &aiLog.ID)

	return &dto.TriageResponse{
		Suggestions: converter.SpecialtySuggestionsToResponses(suggestions),
		Doctors:     converter.DoctorProfilesToResponses(doctors),
	}, nil
}

func (u *triageUsecase) ListEscalations(ctx context.Context) ([]dto.AILogResponse, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	logs, err := u.aiLogRepo.FindNeedingReview(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list escalations: %+v", err)
		return nil, err
	}
	return converter.AILogsToResponses(logs), nil
}

func (u *triageUsecase) AnswerEscalation(ctx context.Context, request *dto.AnswerEscalationRequest) error {
	if err := requireStaff(ctx); err != nil {
		return err
	}

	aiLog, err := u.aiLogRepo.FindByID(u.db.WithContext(ctx), request.LogID)
	if err != nil {
		u.log.Warnf("Failed to find escalation %s: %+v", request.LogID, err)
		return err
	}
	if aiLog == nil {
		return ErrEscalationNotFound
	}

	affected, err := u.aiLogRepo.Answer(u.db.WithContext(ctx), request.LogID, request.Response)
	if err != nil {
		u.log.Errorf("Failed to answer escalation %s: %+v", request.LogID, err)
		return err
	}
	if affected == 0 {
		return ErrEscalationAnswered
	}

	u.notifications.Emit(ctx, aiLog.UserID, entity.NotificationTypeHumanResponse,
		"Chuyên gia đã trả lời câu hỏi của bạn.", &aiLog.ID)

	u.log.Infof("Escalation answered: log=%s", request.LogID)
	return nil
}

func (u *triageUsecase) SendAdminAlert(ctx context.Context, request *dto.AdminAlertRequest) error {
	_, role, ok := actor(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin {
		return ErrStaffOnly
	}

	u.notifications.Emit(ctx, request.RecipientID, entity.NotificationTypeAdminAlert, request.Message, nil)
	return nil
}

func requireStaff(ctx context.Context) error {
	_, role, ok := actor(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}
	switch role {
	case entity.RoleDoctor, entity.RoleStaff, entity.RoleAdmin:
		return nil
	}
	return ErrStaffOnly
}
