package hospital

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

func newTestRepo(t *testing.T) (*FileRepository, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	return NewFileRepository(st), st
}

func TestPatientPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	p := NewPatient("O'Brien, Jr.", "obrien@example.com", "pass,word")
	p.AddMedicalRecord("2024: broken arm")
	p.AddMedicalRecord("2025: flu")
	require.NoError(t, repo.SavePatient(ctx, p))

	loaded, err := repo.LoadPatients(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "O'Brien, Jr.", got.Name)
	assert.Equal(t, "obrien@example.com", got.Email)
	assert.Equal(t, "pass,word", got.Password)
	assert.Equal(t, []string{"2024: broken arm", "2025: flu"}, got.MedicalHistory)
}

func TestPatientWithoutHistoryLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.SavePatient(ctx, NewPatient("Alice", "alice@example.com", "x")))

	loaded, err := repo.LoadPatients(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Empty(t, loaded[0].MedicalHistory)
}

func TestDoctorPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	d := NewDoctor("Dr. Smith", "smith@hospital.com", "pass123", "General Physician")
	require.NoError(t, repo.SaveDoctor(ctx, d))

	loaded, err := repo.LoadDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, d.ID, loaded[0].ID)
	assert.Equal(t, "General Physician", loaded[0].Specialization)

	// A reloaded doctor starts with an all-free schedule cache.
	for day := 0; day < DaysPerWeek; day++ {
		for slot := 0; slot < SlotsPerDay; slot++ {
			assert.True(t, loaded[0].SlotFree(day, slot))
		}
	}
}

func TestShortRecordsAreSkippedOnLoad(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepo(t)

	require.NoError(t, st.Append("patient", []string{"P1", "Alice", "alice@example.com", "x", "No medical history"}))
	require.NoError(t, st.Append("patient", []string{"P2", "too", "short"}))
	require.NoError(t, st.Append("doctor", []string{"D1", "Dr. Smith", "smith@hospital.com", "x"})) // missing specialization
	require.NoError(t, st.Append("appointment", []string{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu"})) // 6 fields
	require.NoError(t, st.Append("appointment", []string{"APT2", "P1", "D1", "2025-03-01", "9AM", "flu", "Pending", "extra"}))
	require.NoError(t, st.Append("appointment", []string{"APT3", "P1", "D1", "2025-03-01", "11AM", "flu", "Pending"}))

	patients, err := repo.LoadPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	doctors, err := repo.LoadDoctors(ctx)
	require.NoError(t, err)
	assert.Empty(t, doctors)

	// Appointments require exactly seven fields.
	appointments, err := repo.LoadAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "APT3", appointments[0].ID)
}

func TestFindByCredentials(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	p := NewPatient("Alice", "alice@example.com", "Secret1")
	require.NoError(t, repo.SavePatient(ctx, p))
	d := NewDoctor("Dr. Smith", "alice@example.com", "Secret1", "Dentist")
	require.NoError(t, repo.SaveDoctor(ctx, d))

	found, err := repo.FindPatientByCredentials(ctx, "alice@example.com", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	// The same credentials resolve independently per partition.
	foundDoc, err := repo.FindDoctorByCredentials(ctx, "alice@example.com", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, foundDoc.ID)

	_, err = repo.FindPatientByCredentials(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
	_, err = repo.FindDoctorByCredentials(ctx, "nobody@example.com", "Secret1")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}
