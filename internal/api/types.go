package api

import (
	"github.com/HarimHussain/Smart-HealthCare-System/internal/hospital"
)

type RegisterPatientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"` // patient, doctor, admin
}

type BookAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Disease   string `json:"disease"`
}

type AddDoctorRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization"`
}

type PatientResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	MedicalHistory []string `json:"medical_history,omitempty"`
}

type DoctorResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

type PrincipalResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type AppointmentResponse struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Disease   string `json:"disease"`
	Status    string `json:"status"`
}

type DailyReportResponse struct {
	DoctorID       string `json:"doctor_id"`
	DoctorName     string `json:"doctor_name"`
	Specialization string `json:"specialization"`
	Date           string `json:"date"`
	Total          int    `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toPatientResponse(p *hospital.Patient) PatientResponse {
	return PatientResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		MedicalHistory: p.MedicalHistory,
	}
}

func toDoctorResponse(d *hospital.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Specialization: d.Specialization,
	}
}

func toAppointmentResponse(a hospital.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date,
		TimeSlot:  a.TimeSlot,
		Disease:   a.Disease,
		Status:    string(a.Status),
	}
}
