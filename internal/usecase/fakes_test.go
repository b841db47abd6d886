package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testDB returns a gorm handle backed by sqlmock. The fake repositories
// ignore it; it only exists so WithContext has something to chain on.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func authedCtx(userID uuid.UUID, role string) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.UserRoleKey, role)
}

// quotaService returns a seat counter backed by an in-process redis
func quotaService(t *testing.T) *service.SlotQuotaService {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return service.NewSlotQuotaService(nil, client, testLogger())
}

// --- fake repositories ---

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
	ratings  map[uuid.UUID]float64
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		profiles: make(map[uuid.UUID]*entity.DoctorProfile),
		ratings:  make(map[uuid.UUID]float64),
	}
}

func (f *fakeDoctorRepo) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeDoctorRepo) FindAll(db *gorm.DB) ([]entity.DoctorProfile, error) {
	var all []entity.DoctorProfile
	for _, p := range f.profiles {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakeDoctorRepo) FindBySpecialties(db *gorm.DB, specialties []string) ([]entity.DoctorProfile, error) {
	var matched []entity.DoctorProfile
	for _, p := range f.profiles {
		for _, s := range specialties {
			if p.Specialty == s {
				matched = append(matched, *p)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeDoctorRepo) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeDoctorRepo) UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64) error {
	f.ratings[userID] = rating
	if p, ok := f.profiles[userID]; ok {
		p.Rating = rating
	}
	return nil
}

type fakeTimeSlotRepo struct {
	slots map[uuid.UUID]*entity.TimeSlot
}

func newFakeTimeSlotRepo() *fakeTimeSlotRepo {
	return &fakeTimeSlotRepo{slots: make(map[uuid.UUID]*entity.TimeSlot)}
}

func (f *fakeTimeSlotRepo) add(slot *entity.TimeSlot) *entity.TimeSlot {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.slots[slot.ID] = slot
	return slot
}

func (f *fakeTimeSlotRepo) Create(db *gorm.DB, slot *entity.TimeSlot) error {
	f.add(slot)
	return nil
}

func (f *fakeTimeSlotRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	return f.slots[id], nil
}

func (f *fakeTimeSlotRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	var out []entity.TimeSlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeTimeSlotRepo) FindBookableFrom(db *gorm.DB, from time.Time) ([]entity.TimeSlot, error) {
	var out []entity.TimeSlot
	for _, s := range f.slots {
		if s.IsBookable() && !s.Date.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeTimeSlotRepo) ReserveSeat(db *gorm.DB, id uuid.UUID) (int64, error) {
	slot, ok := f.slots[id]
	if !ok || slot.Status != entity.SlotStatusAvailable || slot.BookedCount >= slot.MaxPatients {
		return 0, nil
	}
	slot.BookedCount++
	if slot.BookedCount == slot.MaxPatients {
		slot.Status = entity.SlotStatusFull
	}
	return 1, nil
}

func (f *fakeTimeSlotRepo) ReleaseSeat(db *gorm.DB, id uuid.UUID) (int64, error) {
	slot, ok := f.slots[id]
	if !ok || slot.BookedCount == 0 {
		return 0, nil
	}
	slot.BookedCount--
	if slot.Status == entity.SlotStatusFull {
		slot.Status = entity.SlotStatusAvailable
	}
	return 1, nil
}

func (f *fakeTimeSlotRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SlotStatus) error {
	if slot, ok := f.slots[id]; ok {
		slot.Status = status
	}
	return nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) add(appointment *entity.Appointment) *entity.Appointment {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	f.appointments[appointment.ID] = appointment
	return appointment
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) TransitionStatus(db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return 0, nil
	}
	for _, allowed := range from {
		if appointment.Status == allowed {
			appointment.Status = to
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeAppointmentRepo) LinkMedicalRecord(db *gorm.DB, id, recordID uuid.UUID) error {
	if appointment, ok := f.appointments[id]; ok {
		appointment.MedicalRecordID = &recordID
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
}

func (f *fakeNotificationRepo) Create(db *gorm.DB, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) FindByRecipientID(db *gorm.DB, recipientID uuid.UUID) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(db *gorm.DB, id uuid.UUID) (int64, error) {
	for _, n := range f.notifications {
		if n.ID == id && !n.Read {
			n.Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAllRead(db *gorm.DB, recipientID uuid.UUID) (int64, error) {
	var affected int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) CountUnread(db *gorm.DB, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) byRecipient(recipientID uuid.UUID) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type fakeMedicalRecordRepo struct {
	records map[uuid.UUID]*entity.MedicalRecord
}

func newFakeMedicalRecordRepo() *fakeMedicalRecordRepo {
	return &fakeMedicalRecordRepo{records: make(map[uuid.UUID]*entity.MedicalRecord)}
}

func (f *fakeMedicalRecordRepo) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeMedicalRecordRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalRecord, error) {
	return f.records[id], nil
}

func (f *fakeMedicalRecordRepo) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.MedicalRecord, error) {
	for _, r := range f.records {
		if r.AppointmentID == appointmentID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeMedicalRecordRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	var out []entity.MedicalRecord
	for _, r := range f.records {
		if r.PatientID == patientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (f *fakeReviewRepo) Create(db *gorm.DB, review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error) {
	return f.reviews[id], nil
}

func (f *fakeReviewRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	var out []entity.Review
	for _, r := range f.reviews {
		if r.DoctorID == doctorID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) FindByDoctorAndPatient(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Review, error) {
	for _, r := range f.reviews {
		if r.DoctorID == doctorID && r.PatientID == patientID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := f.reviews[id]; !ok {
		return 0, nil
	}
	delete(f.reviews, id)
	return 1, nil
}

type fakeAILogRepo struct {
	logs map[uuid.UUID]*entity.AIInteractionLog
}

func newFakeAILogRepo() *fakeAILogRepo {
	return &fakeAILogRepo{logs: make(map[uuid.UUID]*entity.AIInteractionLog)}
}

func (f *fakeAILogRepo) Create(db *gorm.DB, log *entity.AIInteractionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	f.logs[log.ID] = log
	return nil
}

func (f *fakeAILogRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AIInteractionLog, error) {
	return f.logs[id], nil
}

func (f *fakeAILogRepo) FindNeedingReview(db *gorm.DB) ([]entity.AIInteractionLog, error) {
	var out []entity.AIInteractionLog
	for _, l := range f.logs {
		if l.Status == entity.AILogStatusNeedsReview {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeAILogRepo) Answer(db *gorm.DB, id uuid.UUID, response string) (int64, error) {
	log, ok := f.logs[id]
	if !ok || log.Status != entity.AILogStatusNeedsReview {
		return 0, nil
	}
	log.HumanResponse = response
	log.Status = entity.AILogStatusAnswered
	return 1, nil
}
