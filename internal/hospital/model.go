package hospital

import (
	"log"
	"strings"
)

type PrincipalType string

const (
	PrincipalPatient PrincipalType = "patient"
	PrincipalDoctor  PrincipalType = "doctor"
	PrincipalAdmin   PrincipalType = "admin"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Principal is any authenticated actor: patient, doctor or admin.
type Principal interface {
	PrincipalID() string
	PrincipalName() string
	PrincipalType() PrincipalType

	// ValidateCredentials compares email and password exactly,
	// case-sensitive, for every principal kind.
	ValidateCredentials(email, password string) bool

	// Login acknowledges a successful authentication. It never fails and
	// changes no state; the service marks the principal current.
	Login()
}

type Patient struct {
	ID       string
	Name     string
	Email    string
	Password string

	// MedicalHistory is ordered and append-only. It lives in memory; the
	// stored summary is written once at registration and never updated.
	MedicalHistory []string
}

func NewPatient(name, email, password string) *Patient {
	return &Patient{
		ID:       ids.next("P"),
		Name:     name,
		Email:    email,
		Password: password,
	}
}

func (p *Patient) PrincipalID() string          { return p.ID }
func (p *Patient) PrincipalName() string        { return p.Name }
func (p *Patient) PrincipalType() PrincipalType { return PrincipalPatient }

func (p *Patient) ValidateCredentials(email, password string) bool {
	return p.Email == email && p.Password == password
}

func (p *Patient) Login() {
	log.Printf("patient %s logged in", p.ID)
}

// AddMedicalRecord appends an entry to the in-memory history.
func (p *Patient) AddMedicalRecord(entry string) {
	p.MedicalHistory = append(p.MedicalHistory, entry)
}

// HistorySummary renders the history as the single stored field.
func (p *Patient) HistorySummary() string {
	if len(p.MedicalHistory) == 0 {
		return "No medical history"
	}
	return strings.Join(p.MedicalHistory, "; ")
}

type Doctor struct {
	ID             string
	Name           string
	Email          string
	Password       string
	Specialization string

	// Schedule is a cached day-of-week x slot availability projection.
	// true means booked. It is derived from the appointment log (see
	// RefreshSchedule) and is never authoritative for conflict checks.
	Schedule [DaysPerWeek][SlotsPerDay]bool
}

func NewDoctor(name, email, password, specialization string) *Doctor {
	return &Doctor{
		ID:             ids.next("D"),
		Name:           name,
		Email:          email,
		Password:       password,
		Specialization: specialization,
	}
}

func (d *Doctor) PrincipalID() string          { return d.ID }
func (d *Doctor) PrincipalName() string        { return d.Name }
func (d *Doctor) PrincipalType() PrincipalType { return PrincipalDoctor }

func (d *Doctor) ValidateCredentials(email, password string) bool {
	return d.Email == email && d.Password == password
}

func (d *Doctor) Login() {
	log.Printf("doctor %s logged in", d.ID)
}

// Admin is the single well-known principal. It is supplied by configuration,
// never persisted and never creatable through registration.
type Admin struct {
	ID       string
	Name     string
	Email    string
	Password string
}

func (a *Admin) PrincipalID() string          { return a.ID }
func (a *Admin) PrincipalName() string        { return a.Name }
func (a *Admin) PrincipalType() PrincipalType { return PrincipalAdmin }

func (a *Admin) ValidateCredentials(email, password string) bool {
	return a.Email == email && a.Password == password
}

func (a *Admin) Login() {
	log.Printf("admin %s logged in", a.ID)
}

type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      string // YYYY-MM-DD, pattern-checked only
	TimeSlot  string // one of TimeSlots
	Disease   string
	Status    AppointmentStatus
}

func NewAppointment(patientID, doctorID, date, timeSlot, disease string) *Appointment {
	return &Appointment{
		ID:        ids.next("APT"),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		TimeSlot:  timeSlot,
		Disease:   disease,
		Status:    StatusPending,
	}
}
