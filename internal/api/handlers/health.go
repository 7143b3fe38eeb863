package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Status string  `json:"status"`
		Uptime float64 `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Seconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
