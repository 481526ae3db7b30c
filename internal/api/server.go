// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"marketpulse/internal/api/middleware"
	"marketpulse/internal/api/response"
	"marketpulse/internal/config"
	"marketpulse/internal/core"
	"marketpulse/internal/metrics"
)

// Predictor serves one prediction per symbol. Satisfied by *infer.Predictor.
type Predictor interface {
	Predict(ctx context.Context, symbol, company string) (core.Prediction, error)
}

// Server represents the marketpulse HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	predictor  Predictor
	cfg        *config.Config
}

var (
	errMissingSymbol    = &core.Error{Code: "BAD_REQUEST", Message: "symbol query parameter required"}
	errSymbolUnknown    = &core.Error{Code: "SYMBOL_NOT_FOUND", Message: "symbol not in watchlist"}
	errMethodNotAllowed = &core.Error{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}
)

// NewServer creates the HTTP server with the full middleware chain.
func NewServer(cfg *config.Config, predictor Predictor, reg *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    logger,
		mux:       mux,
		predictor: predictor,
		cfg:       cfg,
	}
	s.setupRoutes(reg)

	chain := middleware.RequestID()(
		middleware.AccessLog(logger)(
			metrics.HTTPMiddleware(reg)(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(reg *metrics.Registry) {
	s.mux.HandleFunc("/api/v1/predict", s.handlePredict)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// Handler exposes the middleware-wrapped handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		response.Error(w, http.StatusBadRequest, errMissingSymbol)
		return
	}

	company, ok := s.cfg.Company(symbol)
	if !ok {
		response.Error(w, http.StatusNotFound, errSymbolUnknown)
		return
	}

	pred, err := s.predictor.Predict(r.Context(), symbol, company)
	if err != nil {
		s.logger.Error("prediction failed",
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.String("symbol", symbol),
			zap.Error(err))
		response.Error(w, statusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, pred)
}

// statusFor maps pipeline errors to HTTP statuses. Upstream and data
// problems are gateway failures; a history too short for the warm-up is a
// property of the request itself.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUpstreamUnavailable),
		errors.Is(err, core.ErrDataUnavailable),
		errors.Is(err, core.ErrModelFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
