// File path: internal/api/server.go

// Package api serves catalogued company data over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nordicdata/cvrminer/internal/catalog"
	"github.com/nordicdata/cvrminer/internal/common"
	"github.com/nordicdata/cvrminer/internal/text"
)

// Server exposes the company catalog over a chi router.
type Server struct {
	router   chi.Router
	catalog  *catalog.Store
	purposes *text.PurposeProcessor
}

// NewServer constructs a Server over the provided catalog store.
func NewServer(store *catalog.Store) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	srv := &Server{
		router:   chi.NewRouter(),
		catalog:  store,
		purposes: text.NewPurposeProcessor(),
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/companies", s.handleCompanies)
	s.router.Get("/v1/company/{cvr}", s.handleCompany)
	s.router.Get("/v1/company/{cvr}/features", s.handleFeatures)
	s.router.Get("/v1/company/{cvr}/purposes", s.handlePurposes)
	s.router.Get("/v1/stats", s.handleStats)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.LogEntries())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
