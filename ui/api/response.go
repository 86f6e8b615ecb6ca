package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/ui/service"
)

// Response wraps all API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
	Meta  *Meta     `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	PageSize   int    `json:"page_size"`
	HasMore    bool   `json:"has_more,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Dir        string `json:"dir,omitempty"`
	Search     string `json:"search,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeJSONWithMeta writes a JSON response with metadata.
func writeJSONWithMeta(w http.ResponseWriter, status int, data any, meta *Meta) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data, Meta: meta})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorDetails(w, status, code, message, nil)
}

func writeErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error: &APIError{Code: code, Message: message, Details: details},
	})
}

// writeServiceError maps a client or service error to a status code.
func (rt *router[TTx]) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *admindash.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorDetails(w, http.StatusBadRequest, "invalid_input", "validation failed", verr.Fields)
	case errors.Is(err, admindash.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission_denied", "the current role cannot modify data")
	case errors.Is(err, admindash.ErrNotFound), errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownChart):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, admindash.ErrInvalidRole), errors.Is(err, admindash.ErrUnsupportedFormat), errors.Is(err, admindash.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		if rt.config.Logger != nil {
			rt.config.Logger.Error("request failed", "error", err, "path", r.URL.Path)
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// parseID parses a record ID from a path parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseInt parses an integer from a query parameter with a default.
func parseInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// parseFloat parses a float from a query parameter, returning 0 when absent.
func parseFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0
	}
	return f
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}
