package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"api_key_set": s.keys.IsSet(),
		"modes":       []string{"OCR", "ViT"},
	})
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	key := strings.TrimSpace(body.APIKey)
	if key == "" {
		jsonError(w, "api key must not be empty", http.StatusBadRequest)
		return
	}
	if err := s.keys.Set(key); err != nil {
		s.log.Error("persist api key failed", "error", err)
		jsonError(w, "failed to persist api key", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "api key saved"})
}

func (s *Server) handleClearKey(w http.ResponseWriter, r *http.Request) {
	if err := s.keys.Clear(); err != nil {
		s.log.Error("clear api key failed", "error", err)
		jsonError(w, "failed to clear api key", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "api key removed"})
}
