package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-report-cache/internal/cache"
)

// handleStats handles cache stats requests
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cacheService.Stats()
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Cache service error: %v", err), http.StatusInternalServerError)
		return
	}

	s.writeResponse(w, &StatsResponse{
		Success: true,
		Stats:   stats,
	})
}

// handlePurge removes one category/year or, with "all", every entry
func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	var req PurgeRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.All {
		removed, err := s.cacheService.PurgeAll()
		if err != nil {
			s.writeErrorResponse(w, fmt.Sprintf("Cache service error: %v", err), http.StatusInternalServerError)
			return
		}
		s.writeResponse(w, &PurgeResponse{Success: true, Scope: "all", Removed: removed})
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" || req.Year == 0 {
		s.writeErrorResponse(w, "Missing required fields: category, year (or all)", http.StatusBadRequest)
		return
	}

	removed, err := s.cacheService.PurgeCategoryYear(category, req.Year)
	if errors.Is(err, cache.ErrInvalidCategory) {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Cache service error: %v", err), http.StatusInternalServerError)
		return
	}

	s.writeResponse(w, &PurgeResponse{
		Success: true,
		Scope:   category,
		Year:    req.Year,
		Removed: removed,
	})
}

// handleDailyPurge runs the current-year purge on demand
func (s *Server) handleDailyPurge(w http.ResponseWriter, r *http.Request) {
	removed, err := s.cacheService.RunDailyPurge()
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Cache service error: %v", err), http.StatusInternalServerError)
		return
	}

	s.writeResponse(w, &PurgeResponse{
		Success: true,
		Scope:   "daily",
		Year:    s.cacheService.CurrentYear(),
		Removed: removed,
	})
}
