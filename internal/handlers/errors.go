package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/internal/middleware"
	"github.com/diewo77/go-quotes/internal/services"
	"github.com/diewo77/go-quotes/listview"
	"github.com/diewo77/go-quotes/validation"
)

// writeError maps service and engine errors to HTTP responses. Unknown errors
// are logged and reported as internal_error.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrNotEditable):
		httpx.Error(w, r, http.StatusConflict, "not_editable", nil)
	case errors.Is(err, services.ErrClientNotFound):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "validation_failed",
			validation.Violations{"client_id": "client_not_found"})
	case errors.Is(err, services.ErrItemNotFound):
		field := "items"
		var inf *services.ItemNotFoundError
		if errors.As(err, &inf) {
			field = inf.Field()
		}
		httpx.Error(w, r, http.StatusUnprocessableEntity, "validation_failed",
			validation.Violations{field: "item_not_found"})
	case errors.Is(err, services.ErrInvalidStatus):
		httpx.Error(w, r, http.StatusUnprocessableEntity, "validation_failed",
			validation.Violations{"status": "invalid_status"})
	case errors.Is(err, listview.ErrInvalidArgument):
		httpx.Error(w, r, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		log.Error("request failed",
			zap.String("request_id", middleware.RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		httpx.Error(w, r, http.StatusInternalServerError, "internal_error", nil)
	}
}

// writeViolations reports form errors as 422 validation_failed.
func writeViolations(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	httpx.Error(w, r, http.StatusUnprocessableEntity, "validation_failed", v)
}

// pathID parses the {id} URL parameter, writing 400 invalid_id on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

// decodeBody decodes the JSON body into dst, writing 400 invalid_json on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}
