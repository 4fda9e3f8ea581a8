package hospital

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentialsExactMatch(t *testing.T) {
	principals := []Principal{
		NewPatient("Alice", "alice@example.com", "Secret1"),
		NewDoctor("Dr. Smith", "alice@example.com", "Secret1", "Dentist"),
		&Admin{ID: "ADMIN001", Name: "System Administrator", Email: "alice@example.com", Password: "Secret1"},
	}

	for _, p := range principals {
		assert.True(t, p.ValidateCredentials("alice@example.com", "Secret1"), "%s", p.PrincipalType())

		// Case-sensitive and exact for every kind.
		assert.False(t, p.ValidateCredentials("Alice@example.com", "Secret1"))
		assert.False(t, p.ValidateCredentials("alice@example.com", "secret1"))
		assert.False(t, p.ValidateCredentials("alice@example.com", "Secret1 "))
		assert.False(t, p.ValidateCredentials("", ""))
	}
}

func TestIDPrefixes(t *testing.T) {
	p := NewPatient("Alice", "alice@example.com", "x")
	d := NewDoctor("Dr. Smith", "smith@hospital.com", "x", "Dentist")
	a := NewAppointment(p.ID, d.ID, "2025-03-01", "9AM", "flu")

	assert.True(t, strings.HasPrefix(p.ID, "P"))
	assert.True(t, strings.HasPrefix(d.ID, "D"))
	assert.True(t, strings.HasPrefix(a.ID, "APT"))
	assert.Equal(t, StatusPending, a.Status)
}

func TestIDGeneratorMonotonicAndUnique(t *testing.T) {
	var g idGenerator

	const n = 200
	var (
		mu     sync.Mutex
		minted []string
		wg     sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.next("APT")
			mu.Lock()
			minted = append(minted, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range minted {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		num, err := strconv.ParseInt(strings.TrimPrefix(id, "APT"), 10, 64)
		require.NoError(t, err)
		require.Greater(t, num, int64(0))
	}

	// Sequential mints never decrease.
	prev := int64(0)
	for i := 0; i < 50; i++ {
		id := g.next("P")
		num, err := strconv.ParseInt(strings.TrimPrefix(id, "P"), 10, 64)
		require.NoError(t, err)
		require.Greater(t, num, prev)
		prev = num
	}
}

func TestMedicalHistory(t *testing.T) {
	p := NewPatient("Alice", "alice@example.com", "x")
	assert.Equal(t, "No medical history", p.HistorySummary())

	p.AddMedicalRecord("2024: broken arm")
	p.AddMedicalRecord("2025: flu")

	assert.Equal(t, []string{"2024: broken arm", "2025: flu"}, p.MedicalHistory)
	assert.Equal(t, "2024: broken arm; 2025: flu", p.HistorySummary())
}
