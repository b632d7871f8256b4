package handlers

import (
	"encoding/json"
	"net/http"
)

// Every REST handler maps failures to this envelope; no error crosses the
// handler boundary.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, messageResponse{Success: success, Message: message})
}
