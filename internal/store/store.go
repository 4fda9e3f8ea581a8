package store

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrStorage wraps any underlying I/O failure so callers can treat
	// persistence problems uniformly with errors.Is.
	ErrStorage = errors.New("storage failure")
)

// Store is an append-only record store. Each partition maps to one text file
// under dir ("patient" -> patients.txt) holding one CSV-encoded record per
// line. Fields containing the delimiter are quoted on write, so records
// round-trip losslessly; plain fields serialize byte-identical to a bare
// comma join.
type Store struct {
	dir string

	// Serializes rewrites against appends. A single append is one write
	// syscall on an O_APPEND descriptor and never interleaves with another
	// append, but a concurrent rewrite swaps the file out underneath it.
	mu sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrStorage, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(partition string) string {
	return filepath.Join(s.dir, partition+"s.txt")
}

// Append serializes fields as a single CSV line and appends it to the
// partition's file, creating the partition if absent. The line is written in
// one syscall so a failure cannot leave a partial record behind existing
// content.
func (s *Store) Append(partition string, fields []string) error {
	line, err := encodeRecord(fields)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(partition), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrStorage, partition, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: append to %s: %v", ErrStorage, partition, err)
	}
	return nil
}

// Exists reports whether any record in the partition satisfies match.
// A missing partition is simply empty.
func (s *Store) Exists(partition string, match func(fields []string) bool) (bool, error) {
	_, ok, err := s.Find(partition, match)
	return ok, err
}

// Find returns the first record satisfying match.
func (s *Store) Find(partition string, match func(fields []string) bool) ([]string, bool, error) {
	var (
		found []string
		hit   bool
	)
	err := s.scan(partition, func(fields []string) bool {
		if match(fields) {
			found = fields
			hit = true
			return false
		}
		return true
	})
	if err != nil {
		return nil, false, err
	}
	return found, hit, nil
}

// LoadAll returns every well-formed record in the partition, in file order.
// Used to rebuild in-memory state at startup.
func (s *Store) LoadAll(partition string) ([][]string, error) {
	var records [][]string
	err := s.scan(partition, func(fields []string) bool {
		records = append(records, fields)
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Rewrite atomically replaces the partition's contents with records, via a
// temp file and rename. Used when a record's fields change after the fact,
// e.g. an appointment status transition.
func (s *Store) Rewrite(partition string, records [][]string) error {
	var buf bytes.Buffer
	for _, rec := range records {
		line, err := encodeRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: encode record: %v", ErrStorage, err)
		}
		buf.Write(line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, partition+"s-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrStorage, partition, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp for %s: %v", ErrStorage, partition, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp for %s: %v", ErrStorage, partition, err)
	}
	if err := os.Rename(tmpName, s.path(partition)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrStorage, partition, err)
	}
	return nil
}

// scan walks the partition line by line, decoding each record and passing it
// to visit until visit returns false. Lines that fail to decode are skipped,
// not fatal: a corrupt record must not take the whole partition down.
func (s *Store) scan(partition string, visit func(fields []string) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path(partition))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: open %s: %v", ErrStorage, partition, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := decodeRecord(line)
		if err != nil {
			continue
		}
		if !visit(fields) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrStorage, partition, err)
	}
	return nil
}

func encodeRecord(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}
