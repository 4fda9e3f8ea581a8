package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Booking storm against a running api-server: many workers race to book the
// same doctor/date/slot triples. With the booking critical section in place,
// each triple must be won by exactly one worker and every other attempt must
// come back 409 slot_unavailable.

type simConfig struct {
	baseURL string
	workers int
	dates   int
}

type metrics struct {
	booked    int64
	conflicts int64
	errors    int64
}

type doctorPayload struct {
	ID             string `json:"id"`
	Specialization string `json:"specialization"`
}

type patientPayload struct {
	ID string `json:"id"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{}
	flag.StringVar(&cfg.baseURL, "url", "http://127.0.0.1:8080", "api-server base URL")
	flag.IntVar(&cfg.workers, "workers", 16, "concurrent booking workers")
	flag.IntVar(&cfg.dates, "dates", 3, "distinct dates to fight over")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	doctors, err := fetchDoctors(client, cfg.baseURL)
	if err != nil {
		log.Fatalf("fetch doctors: %v", err)
	}
	if len(doctors) == 0 {
		log.Fatal("no doctors available, run the api-server first")
	}

	gofakeit.Seed(time.Now().UnixNano())

	patient, err := registerPatient(client, cfg.baseURL)
	if err != nil {
		log.Fatalf("register patient: %v", err)
	}
	log.Printf("simulating as patient %s against %d doctors", patient, len(doctors))

	slots := []string{"9AM", "11AM", "2PM", "4PM", "6PM"}
	dates := make([]string, 0, cfg.dates)
	for i := 0; i < cfg.dates; i++ {
		dates = append(dates, time.Now().AddDate(0, 0, i+1).Format("2006-01-02"))
	}

	triples := len(doctors) * len(dates) * len(slots)
	log.Printf("contending for %d triples with %d workers", triples, cfg.workers)

	var m metrics
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < cfg.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, doc := range doctors {
				for _, date := range dates {
					for _, slot := range slots {
						book(client, cfg.baseURL, patient, doc.ID, date, slot, &m)
					}
				}
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	booked := atomic.LoadInt64(&m.booked)
	conflicts := atomic.LoadInt64(&m.conflicts)
	errs := atomic.LoadInt64(&m.errors)

	log.Printf("done in %s: booked=%d conflicts=%d errors=%d", elapsed, booked, conflicts, errs)
	if int(booked) > triples {
		log.Fatalf("DOUBLE BOOKING: %d triples available, %d bookings succeeded", triples, booked)
	}
	if int(booked) < triples {
		// Reruns hit triples already held from a previous storm.
		log.Printf("%d of %d triples were already held", triples-int(booked), triples)
	}
	log.Printf("no triple was booked twice")
}

func fetchDoctors(client *http.Client, baseURL string) ([]doctorPayload, error) {
	resp, err := client.Get(baseURL + "/doctors")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doctors []doctorPayload
	if err := json.NewDecoder(resp.Body).Decode(&doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func registerPatient(client *http.Client, baseURL string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"name":     gofakeit.Name(),
		"email":    gofakeit.Email(),
		"password": gofakeit.Password(true, true, true, false, false, 10),
	})

	resp, err := client.Post(baseURL+"/patients", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	var p patientPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func book(client *http.Client, baseURL, patientID, doctorID, date, slot string, m *metrics) {
	body, _ := json.Marshal(map[string]string{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       date,
		"time_slot":  slot,
		"disease":    gofakeit.Word(),
	})

	resp, err := client.Post(baseURL+"/appointments", "application/json", bytes.NewReader(body))
	if err != nil {
		atomic.AddInt64(&m.errors, 1)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		atomic.AddInt64(&m.booked, 1)
	case http.StatusConflict:
		var e errorPayload
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "slot_unavailable" {
			atomic.AddInt64(&m.conflicts, 1)
		} else {
			atomic.AddInt64(&m.errors, 1)
		}
	default:
		atomic.AddInt64(&m.errors, 1)
	}
}
