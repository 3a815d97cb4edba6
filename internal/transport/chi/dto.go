package chi

import (
	"time"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	cataloguc "github.com/kailas-cloud/minigallery/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/minigallery/internal/usecase/health"
	importuc "github.com/kailas-cloud/minigallery/internal/usecase/importer"
	searchuc "github.com/kailas-cloud/minigallery/internal/usecase/search"
)

const dateLayout = "2006-01-02"

// ErrorCode is the machine-readable error identifier in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeBatchNotFound    ErrorCode = "batch_not_found"
	ErrorCodeStorageNotFound  ErrorCode = "storage_not_found"
	ErrorCodeCategoryNotFound ErrorCode = "category_not_found"
	ErrorCodeCategoryCycle    ErrorCode = "category_cycle"
	ErrorCodeCapacityBounds   ErrorCode = "capacity_out_of_bounds"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// BatchResponse is a batch resolved for display.
type BatchResponse struct {
	ID          uint32   `json:"id"`
	DisplayName string   `json:"display_name"`
	UnitID      int64    `json:"unit_id"`
	UnitName    string   `json:"unit_name"`
	UnitType    string   `json:"unit_type"`
	Category    string   `json:"category"`
	Kit         string   `json:"kit,omitempty"`
	StorageID   string   `json:"storage_id,omitempty"`
	Count       int      `json:"count"`
	Stage       string   `json:"stage"`
	Note        string   `json:"note,omitempty"`
	TotalPoints int      `json:"total_points"`
	Tags        []string `json:"tags"`
	EditDate    string   `json:"edit_date"`
}

// TermResponse is one recognized query term.
type TermResponse struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// StatsResponse summarizes a result set against the whole collection.
type StatsResponse struct {
	ResultBatches int    `json:"result_batches"`
	ResultModels  int    `json:"result_models"`
	ResultPoints  int    `json:"result_points"`
	TotalBatches  int    `json:"total_batches"`
	TotalModels   int    `json:"total_models"`
	BatchRatio    string `json:"batch_ratio"`
	ModelRatio    string `json:"model_ratio"`
}

// SearchResponse is the body of GET /api/v1/batches.
type SearchResponse struct {
	Items  []BatchResponse `json:"items"`
	Terms  []TermResponse  `json:"terms"`
	Stats  StatsResponse   `json:"stats"`
	Search SearchEcho      `json:"search"`
}

// SearchEcho reports how the query was read.
type SearchEcho struct {
	Query  string   `json:"query"`
	Valid  bool     `json:"valid"`
	Tokens []string `json:"tokens"`
}

// PatchBatchRequest is the body of PATCH /api/v1/batches/{id}. Absent fields are kept.
type PatchBatchRequest struct {
	Stage     *string `json:"stage,omitempty"`
	StorageID *string `json:"storage_id,omitempty"`
	Count     *int    `json:"count,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// CategoryResponse is one category node.
type CategoryResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ParentID      *int64 `json:"parent_id"`
	CascadingName string `json:"cascading_name"`
	Safe          bool   `json:"safe"`
	UnitCount     int    `json:"unit_count"`
}

// CategoryListResponse is the body of GET /api/v1/categories.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// SetParentRequest is the body of PUT /api/v1/categories/{id}/parent. A null parent makes a root.
type SetParentRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// StorageResponse is one storage container.
type StorageResponse struct {
	ID           string `json:"id"`
	Location     string `json:"location"`
	LastMoved    string `json:"last_moved,omitempty"`
	Capacity     string `json:"capacity"`
	StoredPoints int    `json:"stored_points"`
	BatchCount   int    `json:"batch_count"`
}

// StorageListResponse is the body of GET /api/v1/storage.
type StorageListResponse struct {
	Items []StorageResponse `json:"items"`
}

// StorageDetailResponse is the body of GET /api/v1/storage/{id}.
type StorageDetailResponse struct {
	StorageResponse
	Batches []BatchResponse `json:"batches"`
}

// MoveStorageRequest is the body of POST /api/v1/storage/{id}/move.
type MoveStorageRequest struct {
	Location string `json:"location"`
}

// AdjustCapacityRequest is the body of POST /api/v1/storage/{id}/capacity.
type AdjustCapacityRequest struct {
	Delta int `json:"delta"` // +1 or -1
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string            `json:"status"`
	Checks           map[string]string `json:"checks"`
	UnsafeCategories []int64           `json:"unsafe_categories,omitempty"`
}

// ImportResultItem is the outcome of one imported item.
type ImportResultItem struct {
	Kind   string         `json:"kind"`
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// ImportResponse is the body of POST /api/v1/import.
type ImportResponse struct {
	RunID    string             `json:"run_id"`
	Revision int64              `json:"revision"`
	OK       int                `json:"ok"`
	Failed   int                `json:"failed"`
	Items    []ImportResultItem `json:"items"`
}

func batchToResponse(v domcat.BatchView) BatchResponse {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return BatchResponse{
		ID:          uint32(v.ID),
		DisplayName: v.DisplayName,
		UnitID:      int64(v.UnitID),
		UnitName:    v.UnitName,
		UnitType:    v.UnitType,
		Category:    v.CategoryName,
		Kit:         v.KitName,
		StorageID:   v.StorageID,
		Count:       v.Count,
		Stage:       v.StageName,
		Note:        v.Note,
		TotalPoints: v.TotalPoints,
		Tags:        tags,
		EditDate:    v.EditDate.UTC().Format(time.RFC3339),
	}
}

func batchesToResponse(views []domcat.BatchView) []BatchResponse {
	out := make([]BatchResponse, len(views))
	for i, v := range views {
		out[i] = batchToResponse(v)
	}
	return out
}

func searchToResponse(r searchuc.Response) SearchResponse {
	terms := make([]TermResponse, len(r.Terms))
	for i, t := range r.Terms {
		terms[i] = TermResponse{Kind: string(t.Kind), Label: t.Label}
	}
	tokens := r.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	return SearchResponse{
		Items: batchesToResponse(r.Batches),
		Terms: terms,
		Stats: StatsResponse{
			ResultBatches: r.Stats.ResultBatches,
			ResultModels:  r.Stats.ResultModels,
			ResultPoints:  r.Stats.ResultPoints,
			TotalBatches:  r.Stats.TotalBatches,
			TotalModels:   r.Stats.TotalModels,
			BatchRatio:    r.Stats.BatchRatio,
			ModelRatio:    r.Stats.ModelRatio,
		},
		Search: SearchEcho{Query: r.Query, Valid: r.Valid, Tokens: tokens},
	}
}

func categoryToResponse(v cataloguc.CategoryView) CategoryResponse {
	resp := CategoryResponse{
		ID:            int64(v.ID),
		Name:          v.Name,
		CascadingName: v.CascadingName,
		Safe:          v.Safe,
		UnitCount:     v.UnitCount,
	}
	if v.ParentID != nil {
		p := int64(*v.ParentID)
		resp.ParentID = &p
	}
	return resp
}

func storageToResponse(v cataloguc.StorageView) StorageResponse {
	resp := StorageResponse{
		ID:           v.ID,
		Location:     v.Location,
		Capacity:     v.CapacityName,
		StoredPoints: v.StoredPoints,
		BatchCount:   v.BatchCount,
	}
	if !v.LastMoved.IsZero() {
		resp.LastMoved = v.LastMoved.Format(dateLayout)
	}
	return resp
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks, UnsafeCategories: r.UnsafeCategories}
}

func importToResponse(r importuc.Report) ImportResponse {
	items := make([]ImportResultItem, len(r.Results))
	for i, res := range r.Results {
		item := ImportResultItem{Kind: string(res.Kind()), ID: res.ID(), Status: string(res.Status())}
		if res.Err() != nil {
			item.Error = &ErrorResponse{Code: errorCode(res.Err()), Message: itemMessage(res.Err())}
		}
		items[i] = item
	}
	return ImportResponse{RunID: r.RunID, Revision: r.Revision, OK: r.OK(), Failed: r.Failed(), Items: items}
}

func parentFromRequest(p *int64) *category.ID {
	if p == nil {
		return nil
	}
	id := category.ID(*p)
	return &id
}
