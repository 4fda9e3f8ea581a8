package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestAppendAndLoadAllRoundTrip(t *testing.T) {
	st := newTestStore(t)

	records := [][]string{
		{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu", "Pending"},
		{"APT2", "P2", "D1", "2025-03-01", "11AM", "cough", "Confirmed"},
		{"APT3", "P1", "D2", "2025-03-02", "2PM", "checkup", "Cancelled"},
	}
	for _, rec := range records {
		require.NoError(t, st.Append("appointment", rec))
	}

	loaded, err := st.LoadAll("appointment")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestAppendQuotesEmbeddedDelimiters(t *testing.T) {
	st := newTestStore(t)

	rec := []string{"P100", `O'Brien, Jr.`, "obrien@example.com", `pass,word"x`, "No medical history"}
	require.NoError(t, st.Append("patient", rec))

	loaded, err := st.LoadAll("patient")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, rec, loaded[0])
}

func TestPlainFieldsSerializeAsBareCommaJoin(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append("doctor", []string{"D1", "Dr. Smith", "smith@hospital.com", "pass123", "Dentist"}))

	raw, err := os.ReadFile(filepath.Join(st.Dir(), "doctors.txt"))
	require.NoError(t, err)
	assert.Equal(t, "D1,Dr. Smith,smith@hospital.com,pass123,Dentist\n", string(raw))
}

func TestMissingPartitionIsEmpty(t *testing.T) {
	st := newTestStore(t)

	loaded, err := st.LoadAll("appointment")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	ok, err := st.Exists("appointment", func([]string) bool { return true })
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := st.Find("appointment", func([]string) bool { return true })
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExistsAndFind(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append("patient", []string{"P1", "Alice", "alice@example.com", "secret", "No medical history"}))
	require.NoError(t, st.Append("patient", []string{"P2", "Bob", "bob@example.com", "hunter2", "No medical history"}))

	ok, err := st.Exists("patient", func(fields []string) bool {
		return len(fields) >= 3 && fields[2] == "bob@example.com"
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Exists("patient", func(fields []string) bool {
		return len(fields) >= 3 && fields[2] == "carol@example.com"
	})
	require.NoError(t, err)
	assert.False(t, ok)

	fields, found, err := st.Find("patient", func(fields []string) bool {
		return fields[0] == "P2"
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bob", fields[1])
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append("appointment", []string{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu", "Pending"}))

	// Inject garbage between valid records: an unterminated quote and a
	// blank line.
	f, err := os.OpenFile(filepath.Join(st.Dir(), "appointments.txt"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\"broken\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, st.Append("appointment", []string{"APT2", "P2", "D1", "2025-03-01", "11AM", "cough", "Pending"}))

	loaded, err := st.LoadAll("appointment")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "APT1", loaded[0][0])
	assert.Equal(t, "APT2", loaded[1][0])
}

func TestRewriteReplacesPartition(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append("appointment", []string{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu", "Pending"}))
	require.NoError(t, st.Append("appointment", []string{"APT2", "P2", "D1", "2025-03-01", "11AM", "cough", "Pending"}))

	updated := [][]string{
		{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu", "Cancelled"},
		{"APT2", "P2", "D1", "2025-03-01", "11AM", "cough", "Pending"},
	}
	require.NoError(t, st.Rewrite("appointment", updated))

	loaded, err := st.LoadAll("appointment")
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)
}

func TestRewriteEmpty(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Append("appointment", []string{"APT1", "P1", "D1", "2025-03-01", "9AM", "flu", "Pending"}))
	require.NoError(t, st.Rewrite("appointment", nil))

	loaded, err := st.LoadAll("appointment")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestAppendSurfacesStorageError(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	require.NoError(t, err)

	// Turn the partition path into a directory so the open fails.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "patients.txt"), 0o755))

	err = st.Append("patient", []string{"P1", "Alice", "alice@example.com", "secret", "No medical history"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}
