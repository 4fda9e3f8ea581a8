package hospital

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPrincipalNotFound is returned for every failed login, whether the
	// email, the password or the principal type was wrong. Callers must
	// surface it as a single "invalid credentials" message so an attacker
	// cannot probe which accounts exist.
	ErrPrincipalNotFound = errors.New("invalid email or password")
)

// Repository contains all persistence interactions needed by the service.
type Repository interface {
	SavePatient(ctx context.Context, p *Patient) error
	SaveDoctor(ctx context.Context, d *Doctor) error
	SaveAppointment(ctx context.Context, a *Appointment) error

	// Uniqueness checks, scoped per principal type.
	PatientEmailExists(ctx context.Context, email string) (bool, error)
	DoctorEmailExists(ctx context.Context, email string) (bool, error)

	// Credential lookups return ErrPrincipalNotFound on any mismatch.
	FindPatientByCredentials(ctx context.Context, email, password string) (*Patient, error)
	FindDoctorByCredentials(ctx context.Context, email, password string) (*Doctor, error)

	// Startup rebuild
	LoadPatients(ctx context.Context) ([]*Patient, error)
	LoadDoctors(ctx context.Context) ([]*Doctor, error)

	// Conflict checks and views
	LoadAppointments(ctx context.Context) ([]Appointment, error)

	// Status transitions re-persist the whole appointment partition.
	RewriteAppointments(ctx context.Context, appointments []Appointment) error
}
