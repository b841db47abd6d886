package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/gateway"
)

func SpecialtySuggestionsToResponses(suggestions []gateway.SpecialtySuggestion) []dto.SpecialtySuggestionResponse {
	responses := make([]dto.SpecialtySuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, dto.SpecialtySuggestionResponse{
			Specialty: s.Specialty,
			Reason:    s.Reason,
			RiskLevel: s.RiskLevel,
		})
	}
	return responses
}

func AILogToResponse(log *entity.AIInteractionLog) *dto.AILogResponse {
	return &dto.AILogResponse{
		ID:            log.ID,
		UserID:        log.UserID,
		UserQuery:     log.UserQuery,
		AIResponse:    log.AIResponse,
		HumanResponse: log.HumanResponse,
		Status:        string(log.Status),
		CreatedAt:     log.CreatedAt,
	}
}

func AILogsToResponses(logs []entity.AIInteractionLog) []dto.AILogResponse {
	responses := make([]dto.AILogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AILogToResponse(&logs[i]))
	}
	return responses
}
