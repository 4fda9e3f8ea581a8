package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/hospital"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

func registerPatientHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
			return
		}

		p, err := svc.RegisterPatient(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func loginHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		principal, err := svc.Login(r.Context(), req.Email, req.Password, hospital.PrincipalType(req.Type))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, PrincipalResponse{
			ID:   principal.PrincipalID(),
			Name: principal.PrincipalName(),
			Type: string(principal.PrincipalType()),
		})
	}
}

func bookAppointmentHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patient, err := svc.PatientByID(req.PatientID)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		doctor, err := svc.DoctorByID(req.DoctorID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		appt, err := svc.BookAppointment(r.Context(), patient, doctor, req.Date, req.TimeSlot, req.Disease)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
	}
}

func updateAppointmentStatusHandler(svc *hospital.Service, to hospital.AppointmentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		appt, err := svc.UpdateAppointmentStatus(r.Context(), id, to)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func listDoctorsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialization := r.URL.Query().Get("specialization")
		date := r.URL.Query().Get("date")

		var (
			doctors []*hospital.Doctor
			err     error
		)
		if specialization != "" {
			doctors, err = svc.SearchDoctors(r.Context(), specialization, hospital.SearchOptions{OnDate: date})
			if err != nil {
				handleDomainError(w, err)
				return
			}
		} else {
			doctors = svc.ListDoctors()
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, toDoctorResponse(d))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listPatientsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients := svc.ListPatients()

		resp := make([]PatientResponse, 0, len(patients))
		for _, p := range patients {
			resp = append(resp, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func addDoctorHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" || req.Specialization == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "name, email, password and specialization are required")
			return
		}

		d, err := svc.AddDoctor(r.Context(), req.Name, req.Email, req.Password, req.Specialization)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(d))
	}
}

func patientAppointmentsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		appointments, err := svc.AppointmentsForPatient(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeAppointments(w, appointments)
	}
}

func doctorAppointmentsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		appointments, err := svc.AppointmentsForDoctor(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeAppointments(w, appointments)
	}
}

func dailyReportHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		date := r.URL.Query().Get("date")
		if !hospital.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "invalid_date", hospital.ErrInvalidDate.Error())
			return
		}

		report, err := svc.DailyReport(r.Context(), id, date)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DailyReportResponse{
			DoctorID:       report.DoctorID,
			DoctorName:     report.DoctorName,
			Specialization: report.Specialization,
			Date:           report.Date,
			Total:          report.Total,
		})
	}
}

func statisticsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.AppointmentStatistics(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make(map[string]int, len(stats))
		for status, count := range stats {
			resp[string(status)] = count
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeAppointments(w http.ResponseWriter, appointments []hospital.Appointment) {
	resp := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		resp = append(resp, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hospital.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, hospital.ErrPrincipalNotFound):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, hospital.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, hospital.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
	case errors.Is(err, hospital.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, hospital.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, hospital.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, hospital.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, hospital.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, store.ErrStorage):
		writeError(w, http.StatusInternalServerError, "storage_failure", "persistence failure, not guaranteed persisted")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
