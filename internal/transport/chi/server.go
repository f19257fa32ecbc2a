// Package chi exposes the service over HTTP: search, recommendations,
// sentiment, feedback submission, and training administration.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/metrics"
	feedbackuc "github.com/peakform/recohub/internal/usecase/feedback"
	healthuc "github.com/peakform/recohub/internal/usecase/health"
	recommenduc "github.com/peakform/recohub/internal/usecase/recommend"
	searchuc "github.com/peakform/recohub/internal/usecase/search"
	sentimentuc "github.com/peakform/recohub/internal/usecase/sentiment"
	similaruc "github.com/peakform/recohub/internal/usecase/similar"
	traininguc "github.com/peakform/recohub/internal/usecase/training"
)

// eventWriter records user/product interaction events.
type eventWriter interface {
	Append(ctx context.Context, ev domain.Interaction) error
}

// Server wires usecases to HTTP routes.
type Server struct {
	search    *searchuc.Service
	similar   *similaruc.Service
	recommend *recommenduc.Service
	sentiment *sentimentuc.Service
	feedback  *feedbackuc.Service
	training  *traininguc.Service
	health    *healthuc.Service
	events    eventWriter
	logger    *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	search *searchuc.Service,
	similar *similaruc.Service,
	recommend *recommenduc.Service,
	sentiment *sentimentuc.Service,
	feedback *feedbackuc.Service,
	training *traininguc.Service,
	health *healthuc.Service,
	events eventWriter,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:    search,
		similar:   similar,
		recommend: recommend,
		sentiment: sentiment,
		feedback:  feedback,
		training:  training,
		health:    health,
		events:    events,
		logger:    logger,
	}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleLiveness)
	r.Get("/readyz", s.handleReadiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products/search", s.handleSearch)
		r.Get("/products/popular", s.handlePopular)
		r.Get("/products/{id}/similar", s.handleSimilar)
		r.Get("/products/{id}/sentiment", s.handleSentiment)
		r.Get("/users/{id}/recommendations", s.handleRecommendations)
		r.Post("/interactions", s.handleInteraction)
		r.Post("/feedback", s.handleFeedback)

		r.Route("/admin/training", func(r chi.Router) {
			r.Post("/{job}", s.handleTrainingTrigger)
			r.Get("/status", s.handleTrainingStatus)
		})
	})

	return r
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// handleDomainError maps sentinel domain errors to HTTP status codes.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "model artifact not ready, retry later")
	case errors.Is(err, domain.ErrJobAlreadyRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownJob), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
