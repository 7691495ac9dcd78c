package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/dangerclosesec/siren/internal/model"
	"github.com/dangerclosesec/siren/internal/repository"
	"github.com/dangerclosesec/siren/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CheckHandler serves program checks and the run history
type CheckHandler struct {
	checkService *service.CheckService
}

// NewCheckHandler creates a new check handler
func NewCheckHandler(checkService *service.CheckService) *CheckHandler {
	return &CheckHandler{
		checkService: checkService,
	}
}

type CheckRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// CheckRejection is the 422 body for a program that failed checking
type CheckRejection struct {
	ErrorResponse
	RunID string `json:"run_id,omitempty"`
}

type CheckResponse struct {
	BaseResponse
	RunID  string      `json:"run_id,omitempty"`
	Cached bool        `json:"cached"`
	Report interface{} `json:"report"`
}

type RunsResponse struct {
	BaseResponse
	Runs  []model.CheckRun `json:"runs"`
	Total int64            `json:"total"`
}

// envelopeBytes is the room left for the JSON around an escaped source
const envelopeBytes = 4096

// Check handles POST /api/check
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	if limit := h.checkService.MaxSourceBytes(); limit > 0 {
		// JSON escaping grows a byte to at most six ("\u00XX")
		r.Body = http.MaxBytesReader(w, r.Body, int64(limit)*6+envelopeBytes)
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verdict, err := h.checkService.Check(r.Context(), service.CheckInput{
		Name:     req.Name,
		Source:   req.Source,
		ClientIP: clientIP(r),
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if !verdict.Accepted {
		respondWithJSON(w, http.StatusUnprocessableEntity, CheckRejection{
			ErrorResponse: ErrorResponse{
				Error:      verdict.Diagnostic.Message,
				Diagnostic: verdict.Diagnostic,
			},
			RunID: verdict.RunID,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, CheckResponse{
		BaseResponse: BaseResponse{Ok: true},
		RunID:        verdict.RunID,
		Cached:       verdict.Cached,
		Report:       verdict.Report,
	})
}

// ListRuns handles GET /api/runs with optional filters
func (h *CheckHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	params := repository.QueryParams{}
	query := r.URL.Query()

	params.SourceName = query.Get("name")
	params.SourceHash = query.Get("hash")

	if acceptedStr := query.Get("accepted"); acceptedStr != "" {
		accepted, err := strconv.ParseBool(acceptedStr)
		if err == nil {
			params.Accepted = &accepted
		}
	}

	if startTimeStr := query.Get("start_time"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := query.Get("end_time"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	// Pagination
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	runs, total, err := h.checkService.ListRuns(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, RunsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Runs:         runs,
		Total:        total,
	})
}

// GetRun handles GET /api/runs/{id}
func (h *CheckHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		respondWithError(w, http.StatusBadRequest, "Missing run ID")
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	run, err := h.checkService.GetRun(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, run)
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSourceTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Run not found")
	case errors.Is(err, domain.ErrHistoryDisabled):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrSchemaMissing):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
