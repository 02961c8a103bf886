// Package server implements the enhancement backend: the /api/enhance
// endpoint proxying to an LLM provider (with a deterministic rule-based
// fallback) and a server-rendered dashboard over the local store.
package server

import (
	"net/http"
	"time"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
)

const (
	// Request body ceiling for the JSON API.
	maxRequestBody = 1 << 20

	// MaxTextLength bounds the text field of an enhance request.
	MaxTextLength = 5000
)

type Server struct {
	DB       *store.DB
	Provider Provider
	Limiter  *RateLimiter
}

func New(db *store.DB, provider Provider, requestsPerWindow int) *Server {
	return &Server{
		DB:       db,
		Provider: provider,
		Limiter:  NewRateLimiter(requestsPerWindow, 15*time.Minute),
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/enhance", s.rateLimited(s.handleEnhance))

	// Dashboard
	mux.HandleFunc("GET /dashboard", s.handleDashboardHome)
	mux.HandleFunc("GET /dashboard/history", s.handleDashboardHistory)
	mux.HandleFunc("GET /dashboard/settings", s.handleDashboardSettings)

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, withCORS(mux))
}

// withCORS adds CORS headers so the browser extension contexts can call
// the API from any origin.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}
		next(w, r)
	}
}
