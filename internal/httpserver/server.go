package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-report-cache/internal/cache/service"
	"go-report-cache/internal/config"
	"go-report-cache/internal/report"
)

// unixPrefix selects a Unix socket listener in ServerConfig.ListenAddr
const unixPrefix = "unix:"

// maxBodySize bounds admin request bodies
const maxBodySize = 1 << 20

// Server represents the report HTTP server
type Server struct {
	coordinator  *report.Coordinator
	cacheService *service.CacheService
	cfg          *config.ServerConfig
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a new report HTTP server
func NewServer(coordinator *report.Coordinator, cacheService *service.CacheService, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		coordinator:  coordinator,
		cacheService: cacheService,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start listens on cfg.ListenAddr ("host:port" or "unix:/path/to.sock")
// and serves until Stop is called
func (s *Server) Start() error {
	if path, ok := strings.CutPrefix(s.cfg.ListenAddr, unixPrefix); ok {
		return s.StartUnixSocket(path)
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting report HTTP server", zap.String("addr", listener.Addr().String()))
	return s.serve(listener)
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	s.logger.Info("Starting report HTTP server on Unix socket", zap.String("socket_path", socketPath))
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	err := s.server.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Stopping report HTTP server")
	return s.server.Shutdown(ctx)
}

// Router creates and configures the HTTP router
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Reports
	router.HandleFunc("/reports/{category}", s.handleReport).Methods("GET")
	router.HandleFunc("/periods/resolve", s.handleResolve).Methods("GET")

	// Cache administration
	router.HandleFunc("/cache/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/cache/purge", s.handlePurge).Methods("POST")
	router.HandleFunc("/cache/purge/daily", s.handleDailyPurge).Methods("POST")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// parseRequest parses JSON request body; an empty body leaves v untouched
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	return json.Unmarshal(body, v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := ErrorResponse{
		Success: false,
		Error:   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
