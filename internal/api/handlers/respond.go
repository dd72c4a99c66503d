package handlers

import (
	"encoding/json"
	"net/http"
)

// StatusResponse is the envelope of trigger and health endpoints
type StatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Service string      `json:"service,omitempty"`
	Summary interface{} `json:"summary,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, StatusResponse{
		Status:  "error",
		Message: message,
	})
}
