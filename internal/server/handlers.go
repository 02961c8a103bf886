package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
)

type enhanceRequest struct {
	Text            string `json:"text"`
	Instruction     string `json:"instruction,omitempty"`
	EnhancementType string `json:"enhancementType,omitempty"`
}

type enhanceResponse struct {
	Success         bool   `json:"success"`
	OriginalText    string `json:"originalText"`
	EnhancedText    string `json:"enhancedText"`
	EnhancementType string `json:"enhancementType"`
	Timestamp       string `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "SuperPrompt API",
		"status":  "running",
		"endpoints": map[string]string{
			"health":    "/api/health",
			"enhance":   "/api/enhance (POST)",
			"dashboard": "/dashboard",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Text is required and must be a string")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required and must be a string")
		return
	}
	if utf8.RuneCountInString(req.Text) > MaxTextLength {
		writeError(w, http.StatusBadRequest, "Text too long. Maximum 5,000 characters.")
		return
	}

	style := req.EnhancementType
	if style == "" {
		style = req.Instruction
	}
	if style == "" {
		style = "improve"
	}

	enhanced, err := s.Provider.Enhance(r.Context(), req.Text, style)
	if err != nil {
		utils.Log.Errorf("enhancement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to enhance text. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, enhanceResponse{
		Success:         true,
		OriginalText:    req.Text,
		EnhancedText:    enhanced,
		EnhancementType: style,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Debugf("writing response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
