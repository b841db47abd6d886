package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	appjwt "github.com/clinicai/clinicai-api/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	redisAccessTokenPrefix  = "auth:access:"
	redisRefreshTokenPrefix = "auth:refresh:"
)

type AuthUsecase interface {
	// RegisterPatient is open self-registration
	RegisterPatient(ctx context.Context, request *dto.RegisterRequest) (*dto.UserResponse, error)
	// RegisterDoctor creates a doctor account with its profile (admin only)
	RegisterDoctor(ctx context.Context, request *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout revokes the caller's current access token
	Logout(ctx context.Context) error
	// Refresh rotates a refresh token into a fresh token pair
	Refresh(ctx context.Context, request *dto.RefreshRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	doctorRepo  repository.DoctorProfileRepository
	jwtManager  *appjwt.Manager
	redisClient *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	jwtManager *appjwt.Manager,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		doctorRepo:  doctorRepo,
		jwtManager:  jwtManager,
		redisClient: redisClient,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, request *dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := u.createUser(ctx, entity.RolePatient, request.Email, request.Password, request.FullName, request.Phone)
	if err != nil {
		return nil, err
	}
	user.Address = request.Address
	user.InsuranceNumber = request.InsuranceNumber
	if request.Address != "" || request.InsuranceNumber != "" {
		if err := u.userRepo.Update(u.db.WithContext(ctx), user); err != nil {
			u.log.Warnf("Failed to store optional profile fields for %s: %+v", user.ID, err)
		}
	}

	u.log.Infof("Patient registered: id=%s", user.ID)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, request *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	_, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin {
		return nil, ErrStaffOnly
	}

	user, err := u.createUser(ctx, entity.RoleDoctor, request.Email, request.Password, request.FullName, request.Phone)
	if err != nil {
		return nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:          user.ID,
		Specialty:       request.Specialty,
		ExperienceYears: request.ExperienceYears,
		ConsultationFee: request.ConsultationFee,
		Biography:       request.Biography,
		Education:       request.Education,
		Languages:       request.Languages,
		Rating:          entity.DefaultDoctorRating,
	}
	if err := u.doctorRepo.Create(u.db.WithContext(ctx), profile); err != nil {
		u.log.Errorf("Failed to create doctor profile for %s: %+v", user.ID, err)
		return nil, err
	}
	user.DoctorProfile = profile

	u.log.Infof("Doctor registered: id=%s specialty=%s", user.ID, request.Specialty)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) createUser(ctx context.Context, role, email, password, fullName, phone string) (*entity.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Role:     role,
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		Phone:    phone,
		IsActive: true,
	}

	if err := u.userRepo.Create(u.db.WithContext(ctx), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		u.log.Errorf("Failed to create user %s: %+v", email, err)
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), request.Email)
	if err != nil {
		u.log.Warnf("Failed to look up user %s: %+v", request.Email, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	response, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.log.Infof("User logged in: id=%s role=%s", user.ID, user.Role)
	return response, nil
}

func (u *authUsecase) Logout(ctx context.Context) error {
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}
	if err := u.redisClient.Del(ctx, redisAccessTokenPrefix+tokenID).Err(); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		return err
	}
	return nil
}

func (u *authUsecase) Refresh(ctx context.Context, request *dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := u.jwtManager.Parse(request.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Rotation: the refresh token is single-use. Deleting the key first
	// makes replay of the same token fail.
	deleted, err := u.redisClient.Del(ctx, redisRefreshTokenPrefix+claims.ID).Result()
	if err != nil {
		u.log.Warnf("Failed to consume refresh token %s: %+v", claims.ID, err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Me(ctx context.Context) (*dto.UserResponse, error) {
	userID, _, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == entity.RoleDoctor {
		if profile, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), user.ID); err == nil {
			user.DoctorProfile = profile
		}
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.LoginResponse, error) {
	access, accessID, err := u.jwtManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, refreshID, err := u.jwtManager.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := u.redisClient.Set(ctx, redisAccessTokenPrefix+accessID, user.ID.String(), u.jwtManager.AccessTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}
	if err := u.redisClient.Set(ctx, redisRefreshTokenPrefix+refreshID, user.ID.String(), u.jwtManager.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *converter.UserToResponse(user),
	}, nil
}
