package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
)

func TimeSlotToResponse(slot *entity.TimeSlot) *dto.TimeSlotResponse {
	return &dto.TimeSlotResponse{
		ID:             slot.ID,
		DoctorID:       slot.DoctorID,
		Date:           slot.Date.Format("2006-01-02"),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Channel:        string(slot.Channel),
		MaxPatients:    slot.MaxPatients,
		BookedCount:    slot.BookedCount,
		RemainingSeats: slot.RemainingSeats(),
		Status:         string(slot.Status),
	}
}

func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		responses = append(responses, *TimeSlotToResponse(&slots[i]))
	}
	return responses
}
