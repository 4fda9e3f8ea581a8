package api

import (
	"net/http"
	"os"

	"github.com/HarimHussain/Smart-HealthCare-System/internal/store"
)

type HealthHandler struct {
	store   *store.Store
	env     string
	version string
}

func NewHealthHandler(st *store.Store, env, version string) *HealthHandler {
	return &HealthHandler{
		store:   st,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Readiness probes the only dependency: the data directory must accept
// writes, or every registration and booking will fail.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "ok"

	if err := probeDataDir(h.store.Dir()); err != nil {
		deps["data_dir"] = "down"
		status = "error"
	} else {
		deps["data_dir"] = "ok"
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}

func probeDataDir(dir string) error {
	f, err := os.CreateTemp(dir, "healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
