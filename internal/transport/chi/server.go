// Package chi is the HTTP transport: hand-written handlers on a chi router,
// JSON request/response DTOs, and domain-error to status-code mapping.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/usecase/health"
	"github.com/shopglue/retrieval/internal/usecase/ingest"
)

const maxBatchSize = 100

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the retrieval engine over HTTP.
type Server struct {
	vectorizer    Vectorizer
	search        Searcher
	ingest        Ingestor
	health        *health.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	vectorizer Vectorizer,
	search Searcher,
	ing Ingestor,
	healthSvc *health.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		vectorizer: vectorizer,
		search:     search,
		ingest:     ing,
		health:     healthSvc,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentInvalid, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNamespaceNotFound, http.StatusNotFound, codeNamespaceNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// Routes mounts the API handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/documents", s.handleUpsert)
	r.Post("/v1/documents/batch", s.handleBatchUpsert)
	r.Delete("/v1/documents/{id}", s.handleDelete)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles POST /v1/search: builds the hybrid query vectors and
// runs the namespace search with the request's classification.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Website == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "website is required")
		return
	}

	q, err := s.vectorizer.BuildHybridQueryVectors(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.PerformSearch(
		r.Context(), req.Website, req.Query, q,
		req.Classification.toDomain(), req.UseAllNamespaces,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(results[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// handleUpsert handles POST /v1/documents.
func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Website == "" || req.Document.ID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "website and document id are required")
		return
	}

	item := ingest.Item{ID: req.Document.ID, Metadata: req.Document.Metadata.toDomain()}
	if err := s.ingest.Upsert(r.Context(), req.Website, req.InteractionType, item); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleBatchUpsert handles POST /v1/documents/batch.
func (s *Server) handleBatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Website == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "website is required")
		return
	}
	if len(req.Documents) == 0 || len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"documents count must be between 1 and 100")
		return
	}

	items := make([]ingest.Item, len(req.Documents))
	for i, d := range req.Documents {
		if d.ID == "" {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "document id is required")
			return
		}
		items[i] = ingest.Item{ID: d.ID, Metadata: d.Metadata.toDomain()}
	}

	if err := s.ingest.UpsertBatch(r.Context(), req.Website, req.InteractionType, items); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchUpsertResponse{Indexed: len(items)})
}

// handleDelete handles DELETE /v1/documents/{id}. Website and interaction
// type arrive as query parameters.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	website := r.URL.Query().Get("website")
	interaction := r.URL.Query().Get("interaction_type")
	if website == "" || id == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "website and document id are required")
		return
	}

	if err := s.ingest.Delete(r.Context(), website, interaction, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrDocumentInvalid,
		domain.ErrVectorDimMismatch,
		domain.ErrNamespaceNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
