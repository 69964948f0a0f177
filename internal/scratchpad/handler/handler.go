package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	"github.com/msto63/sexpad/internal/scratchpad/store"
	"github.com/msto63/sexpad/pkg/core/health"
	"github.com/msto63/sexpad/pkg/core/logging"
)

// maxBodyBytes caps request bodies independently of the reader limit
const maxBodyBytes = 1 << 20

// ParseRequest is the body of POST /api/v1/parse and /api/v1/format
type ParseRequest struct {
	Source string `json:"source"`
}

// FormatResponse carries the canonical rendering of a source text
type FormatResponse struct {
	Text string `json:"text"`
}

// HistoryResponse lists stored submissions
type HistoryResponse struct {
	Submissions []*store.Submission `json:"submissions"`
	Total       int                 `json:"total"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Handler serves the scratchpad REST API
type Handler struct {
	service *service.Service
	health  *health.Registry
	logger  *logging.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service, registry *health.Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.New("scratchpad-http")
	}
	return &Handler{
		service: svc,
		health:  registry,
		logger:  logger,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.URL.Path == "/health" {
		h.handleHealth(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "parse":
		h.handleParse(w, r)
	case path == "format":
		h.handleFormat(w, r)
	case path == "history":
		h.handleHistory(w, r)
	case path == "history/stats":
		h.handleStats(w, r)
	case strings.HasPrefix(path, "history/"):
		h.handleSubmission(w, r, strings.TrimPrefix(path, "history/"))
	case path == "health":
		h.handleHealth(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", nil)
	}
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ParseRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Submit(r.Context(), req.Source)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ParseRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	text, err := h.service.FormatSource(req.Source)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, FormatResponse{Text: text})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid limit", err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid offset", err.Error())
		return
	}

	subs, err := h.service.History(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{Submissions: subs, Total: len(subs)})
}

func (h *Handler) handleSubmission(w http.ResponseWriter, r *http.Request, id string) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	return false
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// writeServiceError maps foundation error codes onto HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	mdwErr, ok := mdwerror.As(err)
	if !ok {
		h.logger.Error("Unhandled error", "error", err)
		h.writeError(w, http.StatusInternalServerError, string(mdwerror.CodeInternal), "Internal server error", nil)
		return
	}

	status := mdwErr.Code().HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.LogError(mdwErr)
	}

	var details interface{}
	if d := mdwErr.Details(); len(d) > 0 {
		details = d
	}
	h.writeError(w, status, string(mdwErr.Code()), err.Error(), details)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
