package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

const maxJSONBody = 1 << 20

// envelope is the shape of every JSON response.
type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       interface{}         `json:"data,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Pagination *pagination         `json:"pagination,omitempty"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondPage(w http.ResponseWriter, data interface{}, page, limit int, total int64) {
	page, limit = normalizePage(page, limit)
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Message:    "OK",
		Data:       data,
		Pagination: &pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSignatureMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a failure envelope. Unclassified errors are logged and
// hidden behind a generic message.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := statusFor(err)
	body := envelope{Success: false, Message: err.Error()}

	var derr *domain.Error
	if errors.As(err, &derr) {
		body.Message = derr.Error()
		body.Errors = derr.Fields
	}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
		body.Message = "Internal server error"
	}
	writeJSON(w, status, body)
}

func respondMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{Success: success, Message: message})
}

// decodeJSON reads a bounded JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("Request body is required")
		}
		return domain.Invalid("Invalid JSON body: %v", err)
	}
	return validateStruct(v)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryBool reports nil when the parameter is absent or not a boolean.
func queryBool(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
