package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-report-cache/internal/models"
	"go-report-cache/internal/period"
	"go-report-cache/internal/report"
	"go-report-cache/internal/utils"
)

// defaultLimit applies when the limit query parameter is absent
const defaultLimit = 10

// handleReport serves GET /reports/{category}
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cmp, err := parseComparison(query)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := utils.ParseIntDefault(query.Get("limit"), defaultLimit)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := models.ReportRequest{
		Category:          mux.Vars(r)["category"],
		Zone:              query.Get("zone"),
		Limit:             limit,
		ComparisonRequest: *cmp,
	}

	result, err := s.coordinator.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, report.ErrInvalidRequest) {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Warn("Report request failed", zap.String("category", req.Category), zap.Error(err))
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("X-Cache-Status", string(result.CacheStatus))
	s.writeResponse(w, &ReportResponse{
		Success:     true,
		RequestID:   result.RequestID,
		Key:         result.Key,
		CacheStatus: result.CacheStatus,
		CacheLevel:  result.CacheLevel,
		Mode:        result.Mode,
		Primary:     result.Primary,
		Comparison:  result.Comparison,
		Data:        result.Payload,
	})
}

// handleResolve serves GET /periods/resolve
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	cmp, err := parseComparison(r.URL.Query())
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if cmp.Year < 1 || cmp.Year > 9999 {
		s.writeErrorResponse(w, fmt.Sprintf("year %d is out of range", cmp.Year), http.StatusBadRequest)
		return
	}

	pair := s.coordinator.Ranges(r.Context(), *cmp)
	s.writeResponse(w, &ResolveResponse{
		Success:        true,
		Mode:           pair.Mode,
		Primary:        pair.Primary,
		Comparison:     pair.Comparison,
		WeekendMarkers: period.WeekendMarkers(pair.Primary.Range),
	})
}

// parseComparison reads year, period (or descriptor), compare_year, start
// and end from the query string
func parseComparison(query url.Values) (*models.ComparisonRequest, error) {
	yearParam := strings.TrimSpace(query.Get("year"))
	if yearParam == "" {
		return nil, errors.New("missing required parameter: year")
	}
	year, err := utils.ParseIntDefault(yearParam, 0)
	if err != nil {
		return nil, err
	}

	descriptor := query.Get("period")
	if descriptor == "" {
		descriptor = query.Get("descriptor")
	}

	compareYear, err := utils.ParseOptionalInt(query.Get("compare_year"))
	if err != nil {
		return nil, err
	}
	start, err := utils.ParseOptionalDate(query.Get("start"))
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseOptionalDate(query.Get("end"))
	if err != nil {
		return nil, err
	}

	return &models.ComparisonRequest{
		Year:          year,
		Descriptor:    descriptor,
		CompareYear:   compareYear,
		OverrideStart: start,
		OverrideEnd:   end,
	}, nil
}
