package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/clinicai/clinicai-api/config"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	appjwt "github.com/clinicai/clinicai-api/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users      *fakeUserRepo
	doctors    *fakeDoctorRepo
	jwtManager *appjwt.Manager
	redis      *redis.Client
	usecase    AuthUsecase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &authFixture{
		users:   newFakeUserRepo(),
		doctors: newFakeDoctorRepo(),
		jwtManager: appjwt.NewManager(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
		}),
		redis: client,
	}
	f.usecase = NewAuthUsecase(testDB(t), testLogger(), f.users, f.doctors, f.jwtManager, client)
	return f
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.usecase.RegisterPatient(ctx, &dto.RegisterRequest{
		Email:    "an@example.com",
		Password: "matkhau123",
		FullName: "Nguyễn Văn An",
		Phone:    "0901234567",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, registered.Role)

	// The stored password is a bcrypt hash, never the plaintext
	stored, err := f.users.FindByEmail(nil, "an@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "matkhau123", stored.Password)

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "an@example.com", Password: "sai-mat-khau"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	response, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "an@example.com", Password: "matkhau123"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)

	// The access token id lands on the allow-list
	claims, err := f.jwtManager.Parse(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.redis.Exists(ctx, "auth:access:"+claims.ID).Val())
}

func TestLoginUnknownOrDisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.RegisterPatient(ctx, &dto.RegisterRequest{
		Email:    "locked@example.com",
		Password: "matkhau123",
		FullName: "Bị khóa",
	})
	require.NoError(t, err)
	user, _ := f.users.FindByEmail(nil, "locked@example.com")
	user.IsActive = false

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "locked@example.com", Password: "matkhau123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRegisterDoctorAdminOnly(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.users.add(&entity.User{Role: entity.RoleAdmin, Email: "admin@example.com", FullName: "Quản trị"})
	patient := f.users.add(&entity.User{Role: entity.RolePatient, Email: "an@example.com", FullName: "An"})

	request := &dto.RegisterDoctorRequest{
		Email:           "mai@example.com",
		Password:        "matkhau123",
		FullName:        "BS. Mai",
		Specialty:       "Tim mạch",
		ExperienceYears: 8,
		ConsultationFee: decimal.NewFromInt(300000),
	}

	_, err := f.usecase.RegisterDoctor(authedCtx(patient.ID, entity.RolePatient), request)
	assert.ErrorIs(t, err, ErrStaffOnly)

	response, err := f.usecase.RegisterDoctor(authedCtx(admin.ID, entity.RoleAdmin), request)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, response.Role)
	require.NotNil(t, response.DoctorProfile)
	assert.Equal(t, "Tim mạch", response.DoctorProfile.Specialty)
	assert.InDelta(t, entity.DefaultDoctorRating, response.DoctorProfile.Rating, 0.0001)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.RegisterPatient(ctx, &dto.RegisterRequest{
		Email:    "an@example.com",
		Password: "matkhau123",
		FullName: "Nguyễn Văn An",
	})
	require.NoError(t, err)

	login, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "an@example.com", Password: "matkhau123"})
	require.NoError(t, err)

	rotated, err := f.usecase.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token must fail
	_, err = f.usecase.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works
	_, err = f.usecase.Refresh(ctx, &dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.RegisterPatient(ctx, &dto.RegisterRequest{
		Email:    "an@example.com",
		Password: "matkhau123",
		FullName: "Nguyễn Văn An",
	})
	require.NoError(t, err)

	login, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "an@example.com", Password: "matkhau123"})
	require.NoError(t, err)

	claims, err := f.jwtManager.Parse(login.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), f.redis.Exists(ctx, "auth:access:"+claims.ID).Val())

	authCtx := context.WithValue(ctx, middleware.TokenIDKey, claims.ID)
	require.NoError(t, f.usecase.Logout(authCtx))
	assert.Equal(t, int64(0), f.redis.Exists(ctx, "auth:access:"+claims.ID).Val())
}
