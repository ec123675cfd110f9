package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/i18n"
	"github.com/diewo77/go-quotes/internal/format"
	"github.com/diewo77/go-quotes/internal/models"
	"github.com/diewo77/go-quotes/internal/services"
	"github.com/diewo77/go-quotes/quotetotals"
	"github.com/diewo77/go-quotes/validation"
)

type QuotationHandler struct {
	svc  *services.QuotationService
	log  *zap.Logger
	opts ListOptions
}

func NewQuotationHandler(svc *services.QuotationService, log *zap.Logger, opts ListOptions) *QuotationHandler {
	return &QuotationHandler{svc: svc, log: log, opts: opts}
}

// quotationResponse is a quotation with its derived totals.
type quotationResponse struct {
	*models.Quotation
	Totals    quotetotals.Totals `json:"totals"`
	Formatted format.Totals      `json:"formatted"`
}

func (h *QuotationHandler) respond(w http.ResponseWriter, r *http.Request, status int, q *models.Quotation) {
	t := h.svc.ComputeTotals(q).Round()
	httpx.JSON(w, status, quotationResponse{
		Quotation: q,
		Totals:    t,
		Formatted: format.FormatTotals(i18n.LangFrom(r.Context()), t),
	})
}

func (h *QuotationHandler) decodeInput(w http.ResponseWriter, r *http.Request) (services.QuotationInput, bool) {
	var in services.QuotationInput
	if !decodeBody(w, r, &in) {
		return in, false
	}
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		writeViolations(w, r, v)
		return in, false
	}
	return in, true
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, r, h.opts, qs, models.QuotationSearchFields)
}

func (h *QuotationHandler) View(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeView(w, r, h.opts, qs, models.QuotationSearchFields)
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info("quotation created", zap.Uint("id", q.ID), zap.String("number", q.Number))
	h.respond(w, r, http.StatusCreated, q)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.respond(w, r, http.StatusOK, q)
}

func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.respond(w, r, http.StatusOK, q)
}

type statusRequest struct {
	Status models.QuotationStatus `json:"status"`
}

func (h *QuotationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	q, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info("quotation status changed", zap.Uint("id", q.ID), zap.String("status", string(q.Status)))
	h.respond(w, r, http.StatusOK, q)
}

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if n == 0 {
		writeError(w, r, h.log, services.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuotationHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkDelete(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Delete(r.Context(), ids...)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// Preview computes the totals of an unsaved quotation form. The client is not
// required.
func (h *QuotationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var in services.QuotationInput
	if !decodeBody(w, r, &in) {
		return
	}
	v := make(validation.Violations)
	in.Validate(v)
	delete(v, "client_id")
	if !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	q, _, err := h.svc.Preview(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.respond(w, r, http.StatusOK, q)
}

type totalsResponse struct {
	Totals    quotetotals.Totals `json:"totals"`
	Formatted format.Totals      `json:"formatted"`
}

func (h *QuotationHandler) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	t := h.svc.ComputeTotals(q).Round()
	httpx.JSON(w, http.StatusOK, totalsResponse{
		Totals:    t,
		Formatted: format.FormatTotals(i18n.LangFrom(r.Context()), t),
	})
}
