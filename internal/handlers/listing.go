package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/listview"
)

// ListOptions bounds the page size of list endpoints.
type ListOptions struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (o ListOptions) clamp(size int) int {
	if o.MaxPageSize > 0 && size > o.MaxPageSize {
		return o.MaxPageSize
	}
	return size
}

// record is what every list screen row provides to the engine.
type record interface {
	listview.Fielder
	GetID() uint
}

func recordID[T record](rec T) uint { return rec.GetID() }

// ListResponse is one page of a filtered list.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	PageIndex  int `json:"page_index"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// pageRequest reads page_index and page_size. An absent size uses the default;
// a present one that is not positive is an ErrInvalidArgument.
func (o ListOptions) pageRequest(r *http.Request) (listview.PageRequest, error) {
	page := listview.PageRequest{PageSize: o.DefaultPageSize}
	idx, ok, err := httpx.QueryInt(r, "page_index")
	if err != nil {
		return page, fmt.Errorf("%w: page_index", listview.ErrInvalidArgument)
	}
	if ok {
		page.PageIndex = idx
	}
	size, ok, err := httpx.QueryInt(r, "page_size")
	if err != nil {
		return page, fmt.Errorf("%w: page_size", listview.ErrInvalidArgument)
	}
	if ok {
		page.PageSize = size
	}
	if err := page.Validate(); err != nil {
		return page, err
	}
	page.PageSize = o.clamp(page.PageSize)
	return page, nil
}

// writeList filters records by the q parameter and writes the requested page.
func writeList[T record](w http.ResponseWriter, r *http.Request, opts ListOptions, records []T, fields []string) {
	page, err := opts.pageRequest(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	filtered := listview.Filter(records, r.URL.Query().Get("q"), fields, listview.FieldOf[T])
	win, err := listview.Window(filtered, page)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse[T]{
		Items:      win.Rows,
		Total:      win.TotalRows,
		PageIndex:  win.PageIndex,
		PageSize:   win.PageSize,
		TotalPages: win.TotalPages,
	})
}

// View actions
const (
	ActionNone      = ""
	ActionToggleRow = "toggle_row"
	ActionToggleAll = "toggle_all"
	ActionClear     = "clear"
)

// ViewRequest carries the client-held state of a list screen and the action
// to apply to it.
type ViewRequest struct {
	Query     string `json:"query"`
	PageIndex int    `json:"page_index"`
	PageSize  int    `json:"page_size"`
	Selected  []uint `json:"selected"`
	Action    string `json:"action"`
	ID        uint   `json:"id"`
}

// ViewResponse is the list screen state after the action.
type ViewResponse[T any] struct {
	Query    string                   `json:"query"`
	Page     listview.Page[T]         `json:"page"`
	Selected listview.Selection[uint] `json:"selected"`
	Header   listview.CheckboxState   `json:"header"`
}

// runView replays the screen state held by the client over records and applies
// one selection action. Selected ids that no longer exist are dropped.
func runView[T record](records []T, fields []string, opts ListOptions, req ViewRequest) (ViewResponse[T], error) {
	size := req.PageSize
	if size == 0 {
		size = opts.DefaultPageSize
	}
	v, err := listview.NewView(records, fields, listview.FieldOf[T], recordID[T], opts.clamp(size))
	if err != nil {
		return ViewResponse[T]{}, err
	}
	v.ApplyFilter(req.Query)
	v.ChangePage(req.PageIndex)
	v.SetSelection(listview.NewSelection(req.Selected...))
	v.SetRecords(records)

	switch req.Action {
	case ActionNone:
	case ActionToggleRow:
		v.ToggleRow(req.ID)
	case ActionToggleAll:
		v.ToggleAll()
	case ActionClear:
		v.ClearSelection()
	default:
		return ViewResponse[T]{}, fmt.Errorf("%w: unknown action %q", listview.ErrInvalidArgument, req.Action)
	}
	return ViewResponse[T]{
		Query:    v.Query(),
		Page:     v.Page(),
		Selected: v.Selected(),
		Header:   v.Header(),
	}, nil
}

// writeView decodes a ViewRequest and writes the resulting screen state.
func writeView[T record](w http.ResponseWriter, r *http.Request, opts ListOptions, records []T, fields []string) {
	var req ViewRequest
	if err := httpx.Decode(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	resp, err := runView(records, fields, opts, req)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// BulkDeleteRequest lists the ids of a selection to delete.
type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

func decodeBulkDelete(w http.ResponseWriter, r *http.Request) ([]uint, bool) {
	var req BulkDeleteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid_json", nil)
		return nil, false
	}
	if len(req.IDs) == 0 {
		httpx.Error(w, r, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"ids": "required"})
		return nil, false
	}
	return listview.SortedIDs(listview.NewSelection(req.IDs...)), true
}
