package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type componentStatus string

const (
	statusHealthy   componentStatus = "healthy"
	statusUnhealthy componentStatus = "unhealthy"
)

type componentCheck struct {
	Status     componentStatus `json:"status"`
	Message    string          `json:"message,omitempty"`
	CheckedAt  time.Time       `json:"checked_at"`
	DurationMs int64           `json:"duration_ms"`
}

type healthReport struct {
	Service    string                    `json:"service"`
	Status     componentStatus           `json:"status"`
	CheckedAt  time.Time                 `json:"checked_at"`
	Components map[string]componentCheck `json:"components"`
}

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// pingHandler answers liveness probes without touching any dependency.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler answers readiness: the portal only serves traffic when
// the transaction store is reachable.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	check := componentCheck{
		Status:     statusHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	code := http.StatusOK
	if err != nil {
		check.Status = statusUnhealthy
		check.Message = err.Error()
		code = http.StatusServiceUnavailable
	}

	report := healthReport{
		Service:    "alumni-portal",
		Status:     check.Status,
		CheckedAt:  time.Now(),
		Components: map[string]componentCheck{"postgres": check},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(report)
}
