package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/hospital"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

type RouterConfig struct {
	Service *hospital.Service
	Store   *store.Store
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.Store, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Registration and authentication
	r.Post("/patients", registerPatientHandler(cfg.Service))
	r.Post("/login", loginHandler(cfg.Service))

	// Queries
	r.Get("/patients", listPatientsHandler(cfg.Service))
	r.Get("/patients/{id}/appointments", patientAppointmentsHandler(cfg.Service))
	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/doctors/{id}/appointments", doctorAppointmentsHandler(cfg.Service))
	r.Get("/doctors/{id}/report", dailyReportHandler(cfg.Service))
	r.Get("/stats", statisticsHandler(cfg.Service))

	// Administration
	r.Post("/doctors", addDoctorHandler(cfg.Service))

	// Booking
	r.Post("/appointments", bookAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/confirm", updateAppointmentStatusHandler(cfg.Service, hospital.StatusConfirmed))
	r.Post("/appointments/{id}/cancel", updateAppointmentStatusHandler(cfg.Service, hospital.StatusCancelled))

	return r
}
