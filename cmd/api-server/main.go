package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/api"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/config"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/hospital"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/locking"
	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s data_dir=%s", cfg.Env, cfg.HTTPPort, cfg.DataDir)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	repo := hospital.NewFileRepository(st)
	locker := locking.NewKeyedLocker()
	admin := &hospital.Admin{
		ID:       cfg.AdminID,
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}

	svc := hospital.NewService(repo, locker, admin)

	bootCtx, cancelBoot := context.WithTimeout(rootCtx, 30*time.Second)
	err = svc.Bootstrap(bootCtx)
	cancelBoot()
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	log.Printf("bootstrap complete: doctors=%d patients=%d", len(svc.ListDoctors()), len(svc.ListPatients()))

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		Store:   st,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}

	log.Println("api-server stopped")
}
