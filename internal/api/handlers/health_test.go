package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Check(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	handler.Check(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body struct {
		Status string  `json:"status"`
		Uptime float64 `json:"uptime"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Errorf("Expected status ok, got %s", body.Status)
	}
	if body.Uptime < 0 {
		t.Errorf("Expected non-negative uptime, got %f", body.Uptime)
	}
}
