package main

import (
	"fmt"
	"log"
	"time"

	"github.com/clinicai/clinicai-api/config"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/infrastructure/database"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var specialties = []string{
	"Tim mạch",
	"Da liễu",
	"Nhi khoa",
	"Thần kinh",
	"Nội tiết",
	"Tai mũi họng",
	"Chấn thương chỉnh hình",
	"Tâm thần",
	"Nhãn khoa",
	"Nội tổng quát",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if err := seedAdmin(db, string(password)); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedDoctors(db, string(password), 20); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(db, string(password), 100); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(db *gorm.DB, password string) error {
	admin := entity.User{
		Role:     entity.RoleAdmin,
		Email:    "admin@clinicai.local",
		Password: password,
		FullName: "System Administrator",
		IsActive: true,
	}
	return db.Create(&admin).Error
}

func seedDoctors(db *gorm.DB, password string, count int) error {
	log.Printf("seeding %d doctors with slots", count)

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			user := entity.User{
				Role:     entity.RoleDoctor,
				Email:    fmt.Sprintf("doctor%d@clinicai.local", i+1),
				Password: password,
				FullName: "BS. " + gofakeit.Name(),
				Phone:    gofakeit.Phone(),
				IsActive: true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			profile := entity.DoctorProfile{
				UserID:          user.ID,
				Specialty:       specialties[gofakeit.Number(0, len(specialties)-1)],
				ExperienceYears: gofakeit.Number(2, 30),
				ConsultationFee: decimal.NewFromInt(int64(gofakeit.Number(20, 100) * 10000)),
				Biography:       gofakeit.Paragraph(1, 3, 12, " "),
				Education:       gofakeit.Company(),
				Languages:       "Tiếng Việt, English",
				Rating:          entity.DefaultDoctorRating,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}

			if err := seedSlots(tx, user.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// seedSlots publishes a week of morning and afternoon windows per doctor
func seedSlots(tx *gorm.DB, doctorID uuid.UUID) error {
	windows := [][2]string{
		{"08:00", "09:00"},
		{"09:00", "10:00"},
		{"14:00", "15:00"},
		{"15:00", "16:00"},
	}

	for day := 1; day <= 7; day++ {
		date := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, day)
		for _, window := range windows {
			channel := entity.ChannelOnline
			if gofakeit.Bool() {
				channel = entity.ChannelOffline
			}
			slot := entity.TimeSlot{
				DoctorID:    doctorID,
				Date:        date,
				StartTime:   window[0],
				EndTime:     window[1],
				Channel:     channel,
				MaxPatients: gofakeit.Number(1, 5),
				Status:      entity.SlotStatusAvailable,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedPatients(db *gorm.DB, password string, count int) error {
	log.Printf("seeding %d patients", count)

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			user := entity.User{
				Role:            entity.RolePatient,
				Email:           fmt.Sprintf("patient%d@clinicai.local", i+1),
				Password:        password,
				FullName:        gofakeit.Name(),
				Phone:           gofakeit.Phone(),
				Address:         gofakeit.Address().Address,
				InsuranceNumber: gofakeit.Numerify("BH########"),
				IsActive:        true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
