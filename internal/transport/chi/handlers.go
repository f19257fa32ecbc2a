package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/domain"
	healthuc "github.com/peakform/recohub/internal/usecase/health"
	searchuc "github.com/peakform/recohub/internal/usecase/search"
	traininguc "github.com/peakform/recohub/internal/usecase/training"
)

type searchResponse struct {
	ProductIDs []int64 `json:"product_ids"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Stage      string  `json:"stage"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := searchuc.Params{
		Query:      q.Get("q"),
		CategoryID: queryInt64(q.Get("category_id")),
		BrandID:    queryInt64(q.Get("brand_id")),
		SortBy:     q.Get("sort_by"),
		Order:      q.Get("order"),
		Page:       int(queryInt64(q.Get("page"))),
		PerPage:    int(queryInt64(q.Get("per_page"))),
	}

	res, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		ProductIDs: emptyIfNil(res.ProductIDs),
		Total:      res.Total,
		Page:       res.Page,
		PerPage:    res.PerPage,
		Stage:      res.Stage,
	})
}

type similarResponse struct {
	ProductID  int64   `json:"product_id"`
	SimilarIDs []int64 `json:"similar_ids"`
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	topN := int(queryInt64(r.URL.Query().Get("top_n")))

	ids, err := s.similar.Similar(r.Context(), id, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, similarResponse{ProductID: id, SimilarIDs: emptyIfNil(ids)})
}

type sentimentResponse struct {
	ProductID    int64                             `json:"product_id"`
	TotalReviews int                               `json:"total_reviews"`
	Counts       map[domain.SentimentLabel]int     `json:"counts"`
	Percents     map[domain.SentimentLabel]float64 `json:"percents"`
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}

	sum, err := s.sentiment.Analyze(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sentimentResponse{
		ProductID:    id,
		TotalReviews: sum.TotalReviews,
		Counts:       sum.Counts,
		Percents:     sum.Percents,
	})
}

type productListResponse struct {
	ProductIDs []int64 `json:"product_ids"`
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	topN := int(queryInt64(r.URL.Query().Get("top_n")))

	ids, err := s.recommend.Popular(r.Context(), topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productListResponse{ProductIDs: emptyIfNil(ids)})
}

type recommendationsResponse struct {
	UserID     int64   `json:"user_id"`
	ProductIDs []int64 `json:"product_ids"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	topN := int(queryInt64(r.URL.Query().Get("top_n")))

	ids, err := s.recommend.Personalized(r.Context(), userID, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{UserID: userID, ProductIDs: emptyIfNil(ids)})
}

type interactionRequest struct {
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Type      string `json:"type"`
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID <= 0 || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and product_id must be positive")
		return
	}
	t := domain.InteractionType(req.Type)
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "type must be VIEW, ADD_TO_CART or PURCHASE")
		return
	}

	ev := domain.Interaction{UserID: req.UserID, ProductID: req.ProductID, Type: t, Timestamp: time.Now()}
	if err := s.events.Append(r.Context(), ev); err != nil {
		s.logger.Error("append interaction", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

type feedbackRequest struct {
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fb := domain.Feedback{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	created, err := s.feedback.Submit(r.Context(), fb)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"created": created})
}

func (s *Server) handleTrainingTrigger(w http.ResponseWriter, r *http.Request) {
	job, ok := traininguc.ParseJob(chi.URLParam(r, "job"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown training job")
		return
	}
	if err := s.training.Trigger(job); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job": string(job), "state": "running"})
}

func (s *Server) handleTrainingStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.training.Status())
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// pathInt64 extracts a positive int64 URL parameter and writes a 400 itself
// when the value is malformed.
func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

// queryInt64 parses an optional numeric query parameter, returning zero for
// absent or malformed values so defaults apply downstream.
func queryInt64(raw string) int64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func emptyIfNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
