// Package chi implements the HTTP API over the retrieval usecases.
package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/decoplan/furnidex/internal/domain"
	dombatch "github.com/decoplan/furnidex/internal/domain/batch"
	"github.com/decoplan/furnidex/internal/domain/promptctx"
	"github.com/decoplan/furnidex/internal/domain/query"
	"github.com/decoplan/furnidex/internal/domain/result"
	"github.com/decoplan/furnidex/internal/logger"
	batchuc "github.com/decoplan/furnidex/internal/usecase/batch"
	healthuc "github.com/decoplan/furnidex/internal/usecase/health"
	retrievaluc "github.com/decoplan/furnidex/internal/usecase/retrieval"
	statsuc "github.com/decoplan/furnidex/internal/usecase/stats"
)

// Server holds the usecase services behind the HTTP handlers. Services may
// be nil when startup initialization failed; handlers then answer 503 so
// the process stays up and reports its state instead of crashing.
type Server struct {
	retrieval *retrievaluc.Service
	batch     *batchuc.Service
	stats     *statsuc.Service
	health    *healthuc.Service
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrievaluc.Service,
	batch *batchuc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
) *Server {
	return &Server{
		retrieval: retrieval,
		batch:     batch,
		stats:     stats,
		health:    health,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/recommendations", s.handleRecommendations)
		r.Post("/enhance-prompt", s.handleEnhancePrompt)
		r.Post("/batch-search", s.handleBatchSearch)
		r.Get("/stats", s.handleStats)
		r.Get("/filters", s.handleFilters)
	})
}

// --- Handlers ---

type searchRequest struct {
	Query    string         `json:"query"`
	NResults int            `json:"n_results"`
	Filters  map[string]any `json:"filters"`
}

// searchResultView is the wire rendering of one retrieval hit for /search
// and /batch-search responses.
type searchResultView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	FurnitureType  string  `json:"furniture_type"`
	Material       string  `json:"material"`
	Color          string  `json:"color"`
	Feel           string  `json:"feel"`
	IsAccessory    bool    `json:"is_accessory"`
	Dimensions     string  `json:"dimensions"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.retrieval == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: query")
		return
	}

	q, err := query.New(req.Query, req.NResults, filterMap(req.Filters), nil)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.retrieval.Retrieve(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"query":     req.Query,
		"n_results": len(results),
		"results":   resultViews(results),
	})
}

type recommendationsRequest struct {
	Prompt         string         `json:"prompt"`
	NResults       int            `json:"n_results"`
	FurnitureTypes []string       `json:"furniture_types"`
	Filters        map[string]any `json:"filters"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.retrieval == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	start := time.Now()

	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: prompt")
		return
	}

	q, err := query.New(req.Prompt, req.NResults, filterMap(req.Filters), req.FurnitureTypes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.retrieval.RetrieveFiltered(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":           req.Prompt,
		"recommendations": promptctx.FormatAPIItems(results),
		"totalResults":    len(results),
		"processingTime":  roundSeconds(time.Since(start)),
	})
}

type enhancePromptRequest struct {
	Prompt   string `json:"prompt"`
	RoomType string `json:"room_type"`
	Style    string `json:"style"`
	NItems   int    `json:"n_items"`
}

func (s *Server) handleEnhancePrompt(w http.ResponseWriter, r *http.Request) {
	if s.retrieval == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	var req enhancePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: prompt")
		return
	}

	q, err := query.New(promptctx.EnhancedQuery(req.Prompt, req.RoomType, req.Style), req.NItems, nil, nil)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.retrieval.Retrieve(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"original_prompt": req.Prompt,
		"enhanced_prompt": promptctx.BuildPrompt(req.Prompt, req.RoomType, req.Style, results),
		"room_type":       req.RoomType,
		"style":           req.Style,
	})
}

type batchSearchRequest struct {
	Queries *[]searchRequest `json:"queries"`
}

// batchOutcomeView renders one per-query outcome. Query is omitted when the
// item was too malformed to carry one.
type batchOutcomeView struct {
	Success bool               `json:"success"`
	Query   string             `json:"query,omitempty"`
	Results []searchResultView `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (s *Server) handleBatchSearch(w http.ResponseWriter, r *http.Request) {
	if s.batch == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	var req batchSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Queries == nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid 'queries' field")
		return
	}

	items := make([]batchuc.Item, len(*req.Queries))
	for i, qr := range *req.Queries {
		items[i] = batchuc.Item{
			Query:   qr.Query,
			Count:   qr.NResults,
			Filters: filterMap(qr.Filters),
		}
	}

	outcomes := s.batch.Run(r.Context(), items)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"batch_results": outcomeViews(outcomes),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   s.stats.Stats(r.Context()),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.handleDomainError(w, r, domain.ErrNotInitialized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"filters": s.stats.FilterValues(r.Context()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "initializing",
			"ready":  false,
		})
		return
	}

	report := s.health.Check(r.Context())
	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, status, map[string]any{
		"status": string(report.Status),
		"ready":  report.Ready(),
		"checks": checks,
	})
}

// --- Error mapping ---

// statusForError maps domain sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrIndexUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Unhandled error", zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// --- Rendering helpers ---

func resultViews(results []result.Retrieved) []searchResultView {
	views := make([]searchResultView, len(results))
	for i := range results {
		item := results[i].Item()
		views[i] = searchResultView{
			ID:             item.ID,
			Name:           item.Name,
			FurnitureType:  item.FurnitureType,
			Material:       item.Material,
			Color:          item.Color,
			Feel:           item.Feel,
			IsAccessory:    item.IsAccessory,
			Dimensions:     item.Dimensions,
			Description:    item.Description,
			RelevanceScore: results[i].Score(),
		}
	}
	return views
}

func outcomeViews(outcomes []dombatch.Outcome) []batchOutcomeView {
	views := make([]batchOutcomeView, len(outcomes))
	for i, o := range outcomes {
		if o.OK() {
			views[i] = batchOutcomeView{
				Success: true,
				Query:   o.Query(),
				Results: resultViews(o.Results()),
			}
			continue
		}
		views[i] = batchOutcomeView{
			Success: false,
			Query:   o.Query(),
			Error:   o.Err().Error(),
		}
	}
	return views
}

// filterMap converts raw JSON filter values to the catalog's string
// convention; validation against the whitelist happens in query.New.
func filterMap(raw map[string]any) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	filters := make(map[string]string, len(raw))
	for k, v := range raw {
		filters[k] = query.FilterValue(v)
	}
	return filters
}

// roundSeconds reports elapsed time in seconds at millisecond precision.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
