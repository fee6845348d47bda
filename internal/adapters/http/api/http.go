// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/skillpulse/internal/app"
	"github.com/okian/skillpulse/internal/domain/forecast"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Forecast(ctx context.Context, skill string, months int) (model.ForecastResult, error)
	EmergingSkills(ctx context.Context, minClusterSize int) (model.EmergingSkills, error)
	TopSkills(ctx context.Context, limit int) ([]model.SkillCount, error)
	SkillsByLocation(ctx context.Context, limit int) ([]model.LocationSkills, error)
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout bounds every API request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler      *RootHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	forecastHandler  *ForecastHandler
	emergingHandler  *EmergingHandler
	analyticsHandler *AnalyticsHandler

	timeout time.Duration
	logger  logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{timeout: defaultRequestTimeout, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	v := validator.New()
	s.rootHandler = NewRootHandler()
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.forecastHandler = NewForecastHandler(deps, v, s.logger)
	s.emergingHandler = NewEmergingHandler(deps, s.logger)
	s.analyticsHandler = NewAnalyticsHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/{$}", s.wrap(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("/health", s.wrap(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/v1/skills/forecast", s.wrap(s.forecastHandler.HandleForecast, "forecast"))
	mux.HandleFunc("/v1/skills/top", s.wrap(s.analyticsHandler.HandleTopSkills, "top_skills"))
	mux.HandleFunc("/v1/skills/by-location", s.wrap(s.analyticsHandler.HandleByLocation, "skills_by_location"))
	mux.HandleFunc("/v2/skills/emerging", s.wrap(s.emergingHandler.HandleEmerging, "emerging"))
}

// wrap applies the middleware chain shared by all API routes.
func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(TimeoutMiddleware(h, s.timeout)), endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps service errors onto API kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrUnavailable, err)
	case errors.Is(err, service.ErrInvalidLimit), errors.Is(err, service.ErrInvalidClusterSize),
		errors.Is(err, forecast.ErrInvalidHorizon):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded):
		return WrapKind(op, ErrTimeout, err)
	default:
		return Wrap(op, err)
	}
}

// fail logs server-side failures and writes the mapped error response.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("request_id", RequestID(ctx)),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}
