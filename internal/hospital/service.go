package hospital

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/locking"
)

var (
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrInvalidDate             = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidSlot             = errors.New("time slot is not one of the bookable slots")
	ErrSlotUnavailable         = errors.New("this time slot is already booked")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// Every appointment mutation (the conflict-check-then-append of a booking and
// the load-modify-rewrite of a status transition) runs under this lock key, so
// two concurrent bookings can never both pass the conflict check and a rewrite
// can never swallow a concurrent append.
const appointmentLockKey = "appointments"

// Principal creation is serialized per partition for the same reason: the
// email-uniqueness check and the append must not interleave between two
// concurrent registrations of the same address.
const (
	patientLockKey = "patients"
	doctorLockKey  = "doctors"
)

type seedDoctor struct {
	name           string
	email          string
	password       string
	specialization string
}

// seedDoctors is the fixed set provisioned by Bootstrap on an empty store.
var seedDoctors = []seedDoctor{
	{"Dr. Smith", "smith@hospital.com", "pass123", "General Physician"},
	{"Dr. Johnson", "johnson@hospital.com", "pass123", "Dentist"},
	{"Dr. Williams", "williams@hospital.com", "pass123", "Dermatologist"},
}

// Service is the single entry point for callers. It owns the in-memory
// patient and doctor caches rebuilt from the repository at startup and
// serializes booking against the shared appointment log.
type Service struct {
	repo   Repository
	locker locking.Locker
	admin  *Admin

	mu       sync.RWMutex
	patients []*Patient
	doctors  []*Doctor
	current  Principal
}

func NewService(repo Repository, locker locking.Locker, admin *Admin) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		admin:  admin,
	}
}

// Bootstrap rebuilds the caches from storage and, if no doctors exist yet,
// provisions and persists the fixed seed set. Run once at process start; a
// second run against a populated store must not duplicate the seeds.
func (s *Service) Bootstrap(ctx context.Context) error {
	doctors, err := s.repo.LoadDoctors(ctx)
	if err != nil {
		return fmt.Errorf("load doctors: %w", err)
	}
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return fmt.Errorf("load patients: %w", err)
	}

	if len(doctors) == 0 {
		for _, sd := range seedDoctors {
			d := NewDoctor(sd.name, sd.email, sd.password, sd.specialization)
			if err := s.repo.SaveDoctor(ctx, d); err != nil {
				return fmt.Errorf("seed doctor %s: %w", sd.name, err)
			}
			doctors = append(doctors, d)
		}
		log.Printf("seeded %d sample doctors", len(seedDoctors))
	}

	s.mu.Lock()
	s.doctors = doctors
	s.patients = patients
	s.mu.Unlock()

	return nil
}

// RegisterPatient creates, persists and caches a new patient. The email must
// be unused among patients; a doctor with the same email does not conflict.
func (s *Service) RegisterPatient(ctx context.Context, name, email, password string) (*Patient, error) {
	var p *Patient

	err := s.locker.WithKeyLock(ctx, patientLockKey, func(lockCtx context.Context) error {
		exists, err := s.repo.PatientEmailExists(lockCtx, email)
		if err != nil {
			return fmt.Errorf("check patient email: %w", err)
		}
		if exists {
			return ErrDuplicateEmail
		}

		p = NewPatient(name, email, password)
		if err := s.repo.SavePatient(lockCtx, p); err != nil {
			return fmt.Errorf("save patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.patients = append(s.patients, p)
	s.mu.Unlock()

	return p, nil
}

// Login authenticates a principal of the given type and marks it current.
// Any mismatch fails with the same ErrPrincipalNotFound.
func (s *Service) Login(ctx context.Context, email, password string, principalType PrincipalType) (Principal, error) {
	var (
		principal Principal
		err       error
	)

	switch principalType {
	case PrincipalAdmin:
		if !s.admin.ValidateCredentials(email, password) {
			return nil, ErrPrincipalNotFound
		}
		principal = s.admin
	case PrincipalPatient:
		principal, err = s.repo.FindPatientByCredentials(ctx, email, password)
	case PrincipalDoctor:
		principal, err = s.repo.FindDoctorByCredentials(ctx, email, password)
	default:
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("authenticate %s: %w", principalType, err)
	}

	principal.Login()

	s.mu.Lock()
	s.current = principal
	s.mu.Unlock()

	return principal, nil
}

// CurrentPrincipal returns the principal marked current by the last
// successful Login, or nil.
func (s *Service) CurrentPrincipal() Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// BookAppointment validates the date and slot, then checks and books the
// (doctor, date, slot) triple inside a critical section. The new appointment
// starts Pending and is persisted immediately.
func (s *Service) BookAppointment(ctx context.Context, patient *Patient, doctor *Doctor, date, timeSlot, disease string) (*Appointment, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	if !ValidSlot(timeSlot) {
		return nil, ErrInvalidSlot
	}

	var booked *Appointment

	err := s.locker.WithKeyLock(ctx, appointmentLockKey, func(lockCtx context.Context) error {
		appointments, err := s.repo.LoadAppointments(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}
		if IsSlotTaken(doctor.ID, date, timeSlot, appointments) {
			return ErrSlotUnavailable
		}

		a := NewAppointment(patient.ID, doctor.ID, date, timeSlot, disease)
		if err := s.repo.SaveAppointment(lockCtx, a); err != nil {
			return fmt.Errorf("save appointment: %w", err)
		}

		booked = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("appointment %s booked: doctor=%s date=%s slot=%s", booked.ID, doctor.ID, date, timeSlot)
	return booked, nil
}

// AddDoctor provisions a new doctor. Admin-only by convention of the caller;
// the engine itself does not gate it.
func (s *Service) AddDoctor(ctx context.Context, name, email, password, specialization string) (*Doctor, error) {
	var d *Doctor

	err := s.locker.WithKeyLock(ctx, doctorLockKey, func(lockCtx context.Context) error {
		exists, err := s.repo.DoctorEmailExists(lockCtx, email)
		if err != nil {
			return fmt.Errorf("check doctor email: %w", err)
		}
		if exists {
			return ErrDuplicateEmail
		}

		d = NewDoctor(name, email, password, specialization)
		if err := s.repo.SaveDoctor(lockCtx, d); err != nil {
			return fmt.Errorf("save doctor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.doctors = append(s.doctors, d)
	s.mu.Unlock()

	return d, nil
}

// SearchOptions narrows a doctor search beyond the specialization match.
type SearchOptions struct {
	// OnDate, when set, excludes doctors with every slot already booked on
	// that date.
	OnDate string
}

// SearchDoctors matches the specialization case-insensitively and exactly.
func (s *Service) SearchDoctors(ctx context.Context, specialization string, opts SearchOptions) ([]*Doctor, error) {
	var appointments []Appointment
	if opts.OnDate != "" {
		if !ValidDate(opts.OnDate) {
			return nil, ErrInvalidDate
		}
		var err error
		appointments, err = s.repo.LoadAppointments(ctx)
		if err != nil {
			return nil, fmt.Errorf("load appointments: %w", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Doctor
	for _, d := range s.doctors {
		if !strings.EqualFold(d.Specialization, specialization) {
			continue
		}
		if opts.OnDate != "" && DoctorFullyBooked(d.ID, opts.OnDate, appointments) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// ListDoctors returns a snapshot of the doctor cache.
func (s *Service) ListDoctors() []*Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Doctor, len(s.doctors))
	copy(out, s.doctors)
	return out
}

// ListPatients returns a snapshot of the patient cache.
func (s *Service) ListPatients() []*Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

// DoctorByID resolves a doctor from the cache.
func (s *Service) DoctorByID(id string) (*Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// PatientByID resolves a patient from the cache.
func (s *Service) PatientByID(id string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPatientNotFound
}

// AppointmentsForPatient returns the patient's appointments in log order.
func (s *Service) AppointmentsForPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return s.appointmentsMatching(ctx, func(a Appointment) bool {
		return a.PatientID == patientID
	})
}

// AppointmentsForDoctor returns the doctor's appointments in log order.
func (s *Service) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	return s.appointmentsMatching(ctx, func(a Appointment) bool {
		return a.DoctorID == doctorID
	})
}

func (s *Service) appointmentsMatching(ctx context.Context, match func(Appointment) bool) ([]Appointment, error) {
	appointments, err := s.repo.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	var result []Appointment
	for _, a := range appointments {
		if match(a) {
			result = append(result, a)
		}
	}
	return result, nil
}

// UpdateAppointmentStatus moves an appointment to a new status and
// re-persists the whole partition. Allowed transitions: Pending to Confirmed,
// and Pending or Confirmed to Cancelled.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, appointmentID string, to AppointmentStatus) (*Appointment, error) {
	var updated *Appointment

	err := s.locker.WithKeyLock(ctx, appointmentLockKey, func(lockCtx context.Context) error {
		appointments, err := s.repo.LoadAppointments(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}

		idx := -1
		for i := range appointments {
			if appointments[i].ID == appointmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrAppointmentNotFound
		}

		if !validTransition(appointments[idx].Status, to) {
			return ErrInvalidStatusTransition
		}

		appointments[idx].Status = to
		if err := s.repo.RewriteAppointments(lockCtx, appointments); err != nil {
			return fmt.Errorf("rewrite appointments: %w", err)
		}

		a := appointments[idx]
		updated = &a
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("appointment %s moved to %s", updated.ID, updated.Status)
	return updated, nil
}

func validTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}

// AppointmentStatistics aggregates all persisted appointments by status.
func (s *Service) AppointmentStatistics(ctx context.Context) (map[AppointmentStatus]int, error) {
	appointments, err := s.repo.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	stats := make(map[AppointmentStatus]int)
	for _, a := range appointments {
		stats[a.Status]++
	}
	return stats, nil
}

// DailyReport summarizes a doctor's load for one date.
type DailyReport struct {
	DoctorID       string
	DoctorName     string
	Specialization string
	Date           string
	Total          int
}

func (s *Service) DailyReport(ctx context.Context, doctorID, date string) (*DailyReport, error) {
	d, err := s.DoctorByID(doctorID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.AppointmentsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, a := range appointments {
		if a.Date == date && a.Status != StatusCancelled {
			total++
		}
	}

	return &DailyReport{
		DoctorID:       d.ID,
		DoctorName:     d.Name,
		Specialization: d.Specialization,
		Date:           date,
		Total:          total,
	}, nil
}
