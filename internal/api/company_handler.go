// File path: internal/api/company_handler.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/nordicdata/cvrminer/internal/catalog"
	"github.com/nordicdata/cvrminer/internal/common"
)

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 100)
	offset := parseQueryInt(r, "offset", 0)
	companies, err := s.catalog.Companies(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	cvrNumber, err := cvrParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload, err := s.catalog.Company(r.Context(), cvrNumber)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	cvrNumber, err := cvrParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	features, err := s.catalog.Features(r.Context(), cvrNumber)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	common.Logger().Debug("api: features returned", "cvr", cvrNumber)
	writeJSON(w, http.StatusOK, features)
}

func (s *Server) handlePurposes(w http.ResponseWriter, r *http.Request) {
	cvrNumber, err := cvrParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	purposes, err := s.catalog.Purposes(r.Context(), cvrNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if clean, _ := strconv.ParseBool(r.URL.Query().Get("clean")); clean {
		cleaned := make([]string, len(purposes))
		for i, purpose := range purposes {
			cleaned[i] = s.purposes.Clean(purpose)
		}
		purposes = cleaned
	}
	writeJSON(w, http.StatusOK, purposes)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.catalog.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"companies": count})
}

func cvrParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "cvr"))
	if raw == "" {
		return 0, fmt.Errorf("cvr number required")
	}
	cvrNumber, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cvr number %q", raw)
	}
	return cvrNumber, nil
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
