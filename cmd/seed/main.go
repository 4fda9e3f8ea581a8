package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/config"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/hospital"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/locking"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

// Fills the data directory with generated patients and doctors for local
// development. Safe to re-run: duplicate emails are skipped, and Bootstrap
// never re-seeds a populated store.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	patientCount := flag.Int("patients", 50, "number of patients to generate")
	doctorCount := flag.Int("doctors", 10, "number of extra doctors to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	admin := &hospital.Admin{
		ID:       cfg.AdminID,
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
	svc := hospital.NewService(hospital.NewFileRepository(st), locking.NewKeyedLocker(), admin)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := svc.Bootstrap(ctx); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	seedPatients(ctx, svc, *patientCount)
	seedDoctors(ctx, svc, *doctorCount)

	log.Println("seed complete")
}

func seedPatients(ctx context.Context, svc *hospital.Service, count int) {
	log.Printf("seeding %d patients", count)

	created := 0
	for i := 0; i < count; i++ {
		_, err := svc.RegisterPatient(ctx, gofakeit.Name(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 10))
		if err != nil {
			if errors.Is(err, hospital.ErrDuplicateEmail) {
				continue
			}
			log.Fatalf("register patient: %v", err)
		}
		created++
	}

	log.Printf("patients seeded: %d/%d", created, count)
}

func seedDoctors(ctx context.Context, svc *hospital.Service, count int) {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"General Physician",
		"Dentist",
		"Dermatologist",
		"Cardiologist",
		"Neurologist",
		"Pediatrician",
		"Psychiatrist",
		"Orthopedist",
	}

	created := 0
	for i := 0; i < count; i++ {
		specialization := specializations[gofakeit.Number(0, len(specializations)-1)]
		_, err := svc.AddDoctor(ctx, "Dr. "+gofakeit.LastName(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 10), specialization)
		if err != nil {
			if errors.Is(err, hospital.ErrDuplicateEmail) {
				continue
			}
			log.Fatalf("add doctor: %v", err)
		}
		created++
	}

	log.Printf("doctors seeded: %d/%d", created, count)
}
