package usecase

import (
	"context"
	"errors"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound         = errors.New("review not found")
	ErrReviewNotCompleted     = errors.New("reviews require a completed appointment")
	ErrAlreadyReviewed        = errors.New("you have already reviewed this doctor")
	ErrReviewNotOwnPatient    = errors.New("only the appointment's patient can review it")
	ErrReviewRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

type ReviewUsecase interface {
	// Submit appends a review for a completed appointment and recomputes the
	// doctor's mean rating in the same flow.
	Submit(ctx context.Context, request *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	// Delete removes a review (admin moderation) and recomputes the rating;
	// a doctor with no remaining reviews reverts to the default rating.
	Delete(ctx context.Context, reviewID uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error)
}

type reviewUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reviewRepo      repository.ReviewRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	userRepo        repository.UserRepository
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	userRepo repository.UserRepository,
) ReviewUsecase {
	return &reviewUsecase{
		db:              db,
		log:             log,
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
	}
}

func (u *reviewUsecase) Submit(ctx context.Context, request *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	userID, _, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	if request.Rating < 1 || request.Rating > 5 {
		return nil, ErrReviewRatingOutOfRange
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), request.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userID {
		return nil, ErrReviewNotOwnPatient
	}
	if appointment.Status != entity.AppointmentStatusCompleted {
		return nil, ErrReviewNotCompleted
	}

	existing, err := u.reviewRepo.FindByDoctorAndPatient(u.db.WithContext(ctx), appointment.DoctorID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	author := "Bệnh nhân"
	if user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID); err == nil && user != nil {
		author = user.FullName
	}

	review := &entity.Review{
		DoctorID:      appointment.DoctorID,
		PatientID:     userID,
		AppointmentID: appointment.ID,
		Author:        author,
		Rating:        request.Rating,
		Comment:       request.Comment,
	}

	if err := u.reviewRepo.Create(u.db.WithContext(ctx), review); err != nil {
		u.log.Errorf("Failed to create review for doctor %s: %+v", appointment.DoctorID, err)
		return nil, err
	}

	if err := u.recomputeRating(ctx, appointment.DoctorID); err != nil {
		u.log.Errorf("Failed to recompute rating for doctor %s: %+v", appointment.DoctorID, err)
	}

	u.log.Infof("Review submitted: doctor=%s patient=%s rating=%.1f", appointment.DoctorID, userID, request.Rating)
	return converter.ReviewToResponse(review), nil
}

func (u *reviewUsecase) Delete(ctx context.Context, reviewID uuid.UUID) error {
	_, role, ok := actor(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin {
		return ErrNotAppointmentParty
	}

	review, err := u.reviewRepo.FindByID(u.db.WithContext(ctx), reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	affected, err := u.reviewRepo.Delete(u.db.WithContext(ctx), reviewID)
	if err != nil {
		u.log.Errorf("Failed to delete review %s: %+v", reviewID, err)
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}

	if err := u.recomputeRating(ctx, review.DoctorID); err != nil {
		u.log.Errorf("Failed to recompute rating for doctor %s: %+v", review.DoctorID, err)
	}

	u.log.Infof("Review deleted: id=%s doctor=%s", reviewID, review.DoctorID)
	return nil
}

func (u *reviewUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error) {
	reviews, err := u.reviewRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list reviews for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.ReviewsToResponses(reviews), nil
}

// recomputeRating sets the doctor's rating to the mean of all current
// reviews, or the default when none remain.
func (u *reviewUsecase) recomputeRating(ctx context.Context, doctorID uuid.UUID) error {
	reviews, err := u.reviewRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return err
	}
	return u.doctorRepo.UpdateRating(u.db.WithContext(ctx), doctorID, entity.RatingFromReviews(reviews))
}
