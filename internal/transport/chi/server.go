package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minigallery/internal/domain"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	cataloguc "github.com/kailas-cloud/minigallery/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/minigallery/internal/usecase/health"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
)

// maxImportBytes caps the size of an uploaded collection document.
const maxImportBytes = 8 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the gallery HTTP API.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	importer      *importuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. importer may be nil to disable uploads.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	importer *importuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		catalog:  catalog,
		importer: importer,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		categoryCycleHandler,
		sentinelHandler(domain.ErrBatchNotFound, http.StatusNotFound, ErrorCodeBatchNotFound),
		sentinelHandler(domain.ErrStorageNotFound, http.StatusNotFound, ErrorCodeStorageNotFound),
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, ErrorCodeCategoryNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrCapacityOutOfBounds, http.StatusConflict, ErrorCodeCapacityBounds),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/batches", s.SearchBatches)
		r.Get("/batches/{id}", s.GetBatch)
		r.Patch("/batches/{id}", s.PatchBatch)

		r.Get("/categories", s.ListCategories)
		r.Put("/categories/{id}/parent", s.SetCategoryParent)

		r.Get("/storage", s.ListStorage)
		r.Get("/storage/{id}", s.GetStorage)
		r.Post("/storage/{id}/move", s.MoveStorage)
		r.Post("/storage/{id}/capacity", s.AdjustCapacity)

		if s.importer != nil {
			r.Post("/import", s.Import)
		}
	})
}

// SearchBatches handles GET /api/v1/batches?search=...
// A missing search parameter lists every batch.
func (s *Server) SearchBatches(w http.ResponseWriter, r *http.Request) {
	var query *string
	if q := r.URL.Query(); q.Has("search") {
		v := q.Get("search")
		query = &v
	}

	resp, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToResponse(resp))
}

// GetBatch handles GET /api/v1/batches/{id}.
func (s *Server) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchID(w, r)
	if !ok {
		return
	}
	v, err := s.catalog.Batch(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchToResponse(v))
}

// PatchBatch handles PATCH /api/v1/batches/{id}.
func (s *Server) PatchBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchID(w, r)
	if !ok {
		return
	}
	var req PatchBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	patch := cataloguc.BatchPatch{StorageID: req.StorageID, Count: req.Count, Note: req.Note}
	if req.Stage != nil {
		st, ok := stage.Parse(*req.Stage)
		if !ok {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, fmt.Sprintf("unknown stage %q", *req.Stage))
			return
		}
		patch.Stage = &st
	}

	v, err := s.catalog.UpdateBatch(r.Context(), id, patch)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchToResponse(v))
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	views, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]CategoryResponse, len(views))
	for i, v := range views {
		items[i] = categoryToResponse(v)
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: items})
}

// SetCategoryParent handles PUT /api/v1/categories/{id}/parent.
func (s *Server) SetCategoryParent(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || raw <= 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "category id must be a positive integer")
		return
	}
	var req SetParentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	v, err := s.catalog.SetCategoryParent(r.Context(), category.ID(raw), parentFromRequest(req.ParentID))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryToResponse(v))
}

// ListStorage handles GET /api/v1/storage.
func (s *Server) ListStorage(w http.ResponseWriter, r *http.Request) {
	views, err := s.catalog.Storages(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]StorageResponse, len(views))
	for i, v := range views {
		items[i] = storageToResponse(v)
	}
	writeJSON(w, http.StatusOK, StorageListResponse{Items: items})
}

// GetStorage handles GET /api/v1/storage/{id}.
func (s *Server) GetStorage(w http.ResponseWriter, r *http.Request) {
	d, err := s.catalog.Storage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StorageDetailResponse{
		StorageResponse: storageToResponse(d.StorageView),
		Batches:         batchesToResponse(d.Batches),
	})
}

// MoveStorage handles POST /api/v1/storage/{id}/move.
func (s *Server) MoveStorage(w http.ResponseWriter, r *http.Request) {
	var req MoveStorageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	v, err := s.catalog.MoveStorage(r.Context(), chi.URLParam(r, "id"), req.Location)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storageToResponse(v))
}

// AdjustCapacity handles POST /api/v1/storage/{id}/capacity.
func (s *Server) AdjustCapacity(w http.ResponseWriter, r *http.Request) {
	var req AdjustCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	v, err := s.catalog.AdjustCapacity(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storageToResponse(v))
}

// Import handles POST /api/v1/import with a YAML collection body.
// ?replace=true clears the stored catalog first.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	report, err := s.importer.Import(r.Context(), body, importuc.Options{Replace: replace})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	status := http.StatusOK
	if report.Failed() > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, importToResponse(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func batchID(w http.ResponseWriter, r *http.Request) (domcat.BatchID, bool) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || raw == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "batch id must be a positive integer")
		return 0, false
	}
	return domcat.BatchID(raw), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// clientSentinels are the errors whose text is safe to show to clients.
var clientSentinels = []error{
	domain.ErrCategoryCycle,
	domain.ErrBatchNotFound,
	domain.ErrStorageNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrNotFound,
	domain.ErrCapacityOutOfBounds,
	domain.ErrInvalidInput,
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// itemMessage keeps the detail of validation failures, which only name the
// offending input, and hides everything else.
func itemMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func errorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrCategoryCycle):
		return ErrorCodeCategoryCycle
	case errors.Is(err, domain.ErrBatchNotFound):
		return ErrorCodeBatchNotFound
	case errors.Is(err, domain.ErrStorageNotFound):
		return ErrorCodeStorageNotFound
	case errors.Is(err, domain.ErrCategoryNotFound):
		return ErrorCodeCategoryNotFound
	case errors.Is(err, domain.ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, domain.ErrCapacityOutOfBounds):
		return ErrorCodeCapacityBounds
	case errors.Is(err, domain.ErrInvalidInput):
		return ErrorCodeValidationFailed
	default:
		return ErrorCodeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// categoryCycleHandler handles ErrCategoryCycle with the offending IDs.
func categoryCycleHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrCategoryCycle) {
		return false
	}
	var cce *domain.CategoryCycleError
	if errors.As(err, &cce) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":        ErrorCodeCategoryCycle,
			"message":     msg,
			"category_id": cce.CategoryID,
			"parent_id":   cce.ParentID,
		})
		return true
	}
	writeError(w, http.StatusConflict, ErrorCodeCategoryCycle, msg)
	return true
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
