package hospital

import (
	"context"
	"strings"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

// Partition names. The store maps each to <name>s.txt in its data directory.
const (
	partitionPatient     = "patient"
	partitionDoctor      = "doctor"
	partitionAppointment = "appointment"
)

const noHistory = "No medical history"

// FileRepository persists principals and appointments through the append-only
// record store. Record layouts:
//
//	patient:     id,name,email,password,medicalHistorySummary
//	doctor:      id,name,email,password,specialization
//	appointment: appointmentId,patientId,doctorId,date,timeSlot,disease,status
//
// Lines with too few fields are skipped on load.
type FileRepository struct {
	store *store.Store
}

func NewFileRepository(st *store.Store) *FileRepository {
	return &FileRepository{store: st}
}

func (r *FileRepository) SavePatient(ctx context.Context, p *Patient) error {
	return r.store.Append(partitionPatient, patientFields(p))
}

func (r *FileRepository) SaveDoctor(ctx context.Context, d *Doctor) error {
	return r.store.Append(partitionDoctor, doctorFields(d))
}

func (r *FileRepository) SaveAppointment(ctx context.Context, a *Appointment) error {
	return r.store.Append(partitionAppointment, appointmentFields(a))
}

func (r *FileRepository) PatientEmailExists(ctx context.Context, email string) (bool, error) {
	return r.store.Exists(partitionPatient, func(fields []string) bool {
		return len(fields) >= 3 && fields[2] == email
	})
}

func (r *FileRepository) DoctorEmailExists(ctx context.Context, email string) (bool, error) {
	return r.store.Exists(partitionDoctor, func(fields []string) bool {
		return len(fields) >= 3 && fields[2] == email
	})
}

func (r *FileRepository) FindPatientByCredentials(ctx context.Context, email, password string) (*Patient, error) {
	fields, ok, err := r.store.Find(partitionPatient, func(fields []string) bool {
		return len(fields) >= 4 && fields[2] == email && fields[3] == password
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return patientFromFields(fields), nil
}

func (r *FileRepository) FindDoctorByCredentials(ctx context.Context, email, password string) (*Doctor, error) {
	fields, ok, err := r.store.Find(partitionDoctor, func(fields []string) bool {
		return len(fields) >= 5 && fields[2] == email && fields[3] == password
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return doctorFromFields(fields), nil
}

func (r *FileRepository) LoadPatients(ctx context.Context) ([]*Patient, error) {
	records, err := r.store.LoadAll(partitionPatient)
	if err != nil {
		return nil, err
	}

	var patients []*Patient
	for _, rec := range records {
		if len(rec) < 4 {
			continue
		}
		patients = append(patients, patientFromFields(rec))
	}
	return patients, nil
}

func (r *FileRepository) LoadDoctors(ctx context.Context) ([]*Doctor, error) {
	records, err := r.store.LoadAll(partitionDoctor)
	if err != nil {
		return nil, err
	}

	var doctors []*Doctor
	for _, rec := range records {
		if len(rec) < 5 {
			continue
		}
		doctors = append(doctors, doctorFromFields(rec))
	}
	return doctors, nil
}

func (r *FileRepository) LoadAppointments(ctx context.Context) ([]Appointment, error) {
	records, err := r.store.LoadAll(partitionAppointment)
	if err != nil {
		return nil, err
	}

	var appointments []Appointment
	for _, rec := range records {
		if len(rec) != 7 {
			continue
		}
		appointments = append(appointments, Appointment{
			ID:        rec[0],
			PatientID: rec[1],
			DoctorID:  rec[2],
			Date:      rec[3],
			TimeSlot:  rec[4],
			Disease:   rec[5],
			Status:    AppointmentStatus(rec[6]),
		})
	}
	return appointments, nil
}

func (r *FileRepository) RewriteAppointments(ctx context.Context, appointments []Appointment) error {
	records := make([][]string, 0, len(appointments))
	for i := range appointments {
		records = append(records, appointmentFields(&appointments[i]))
	}
	return r.store.Rewrite(partitionAppointment, records)
}

// Record mapping helpers

func patientFields(p *Patient) []string {
	return []string{p.ID, p.Name, p.Email, p.Password, p.HistorySummary()}
}

func patientFromFields(fields []string) *Patient {
	p := &Patient{
		ID:       fields[0],
		Name:     fields[1],
		Email:    fields[2],
		Password: fields[3],
	}
	if len(fields) >= 5 && fields[4] != "" && fields[4] != noHistory {
		p.MedicalHistory = strings.Split(fields[4], "; ")
	}
	return p
}

func doctorFields(d *Doctor) []string {
	return []string{d.ID, d.Name, d.Email, d.Password, d.Specialization}
}

func doctorFromFields(fields []string) *Doctor {
	return &Doctor{
		ID:             fields[0],
		Name:           fields[1],
		Email:          fields[2],
		Password:       fields[3],
		Specialization: fields[4],
	}
}

func appointmentFields(a *Appointment) []string {
	return []string{a.ID, a.PatientID, a.DoctorID, a.Date, a.TimeSlot, a.Disease, string(a.Status)}
}
