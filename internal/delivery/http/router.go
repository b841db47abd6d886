package http

import (
	"net/http"

	"github.com/clinicai/clinicai-api/internal/delivery/http/handler"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	bookingHandler      *handler.BookingHandler
	timeSlotHandler     *handler.TimeSlotHandler
	consultationHandler *handler.ConsultationHandler
	notificationHandler *handler.NotificationHandler
	reviewHandler       *handler.ReviewHandler
	triageHandler       *handler.TriageHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	bookingHandler *handler.BookingHandler,
	timeSlotHandler *handler.TimeSlotHandler,
	consultationHandler *handler.ConsultationHandler,
	notificationHandler *handler.NotificationHandler,
	reviewHandler *handler.ReviewHandler,
	triageHandler *handler.TriageHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		appointmentHandler:  appointmentHandler,
		bookingHandler:      bookingHandler,
		timeSlotHandler:     timeSlotHandler,
		consultationHandler: consultationHandler,
		notificationHandler: notificationHandler,
		reviewHandler:       reviewHandler,
		triageHandler:       triageHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.Refresh).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Public browsing: slots and reviews are visible to guests
	api.HandleFunc("/slots", r.timeSlotHandler.ListBookable).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/slots", r.timeSlotHandler.ListByDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/reviews", r.reviewHandler.ListByDoctor).Methods(http.MethodGet)

	// Booking initiation uses optional auth: guests get a 401 that the
	// client turns into a login redirect.
	booking := api.PathPrefix("/bookings").Subrouter()
	booking.Use(r.authMiddleware.Optional)
	booking.HandleFunc("", r.bookingHandler.Initiate).Methods(http.MethodPost)

	// Payment session routes (protected)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.HandleFunc("/{orderCode}", r.bookingHandler.PaymentStatus).Methods(http.MethodGet)
	payments.HandleFunc("/{orderCode}/check", r.bookingHandler.CheckPayment).Methods(http.MethodPost)
	payments.HandleFunc("/{orderCode}", r.bookingHandler.AbandonPayment).Methods(http.MethodDelete)

	// Appointment lifecycle (protected)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.ListMine).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/confirm", r.appointmentHandler.Confirm).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/consultation", r.appointmentHandler.StartConsultation).Methods(http.MethodPost)

	// Consultation wrap-up and records (protected)
	consultations := api.PathPrefix("/consultations").Subrouter()
	consultations.Use(r.authMiddleware.Authenticate)
	consultations.HandleFunc("/end", r.consultationHandler.End).Methods(http.MethodPost)

	records := api.PathPrefix("/records").Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.HandleFunc("", r.consultationHandler.ListMyRecords).Methods(http.MethodGet)
	records.HandleFunc("/{id}", r.consultationHandler.GetRecord).Methods(http.MethodGet)

	doctorOnly := api.PathPrefix("/doctor").Subrouter()
	doctorOnly.Use(r.authMiddleware.Authenticate)
	doctorOnly.Use(middleware.RequireRole(entity.RoleDoctor, entity.RoleAdmin))
	doctorOnly.HandleFunc("/records", r.consultationHandler.SaveRecord).Methods(http.MethodPost)
	doctorOnly.HandleFunc("/records/icd10", r.consultationHandler.SuggestICD10).Methods(http.MethodPost)
	doctorOnly.HandleFunc("/slots", r.timeSlotHandler.Create).Methods(http.MethodPost)
	doctorOnly.HandleFunc("/slots/{id}", r.timeSlotHandler.Cancel).Methods(http.MethodDelete)

	// Notifications (protected)
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(r.authMiddleware.Authenticate)
	notifications.HandleFunc("", r.notificationHandler.ListMine).Methods(http.MethodGet)
	notifications.HandleFunc("/unread-count", r.notificationHandler.UnreadCount).Methods(http.MethodGet)
	notifications.HandleFunc("/read-all", r.notificationHandler.MarkAllRead).Methods(http.MethodPost)
	notifications.HandleFunc("/{id}/open", r.notificationHandler.Open).Methods(http.MethodPost)

	// Reviews (protected)
	reviews := api.PathPrefix("/reviews").Subrouter()
	reviews.Use(r.authMiddleware.Authenticate)
	reviews.HandleFunc("", r.reviewHandler.Submit).Methods(http.MethodPost)

	// Symptom triage (protected)
	triage := api.PathPrefix("/triage").Subrouter()
	triage.Use(r.authMiddleware.Authenticate)
	triage.HandleFunc("/suggest", r.triageHandler.SuggestSpecialties).Methods(http.MethodPost)

	// Expert review queue (medical staff)
	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireMedicalStaff)
	staff.HandleFunc("/escalations", r.triageHandler.ListEscalations).Methods(http.MethodGet)
	staff.HandleFunc("/escalations/answer", r.triageHandler.AnswerEscalation).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/reviews/{id}", r.reviewHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/alerts", r.triageHandler.SendAdminAlert).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
