package listview

// View is the explicit state of one list screen. It is mutated only through its
// named operations; every read is derived from the stored state, so the header
// checkbox state and the visible rows are never cached.
//
// A View is not safe for concurrent mutation. Each screen (or request) owns its
// own copy.
type View[T any, K comparable] struct {
	records   []T
	fields    []string
	get       Accessor[T]
	key       KeyFunc[T, K]
	query     string
	pageIndex int
	pageSize  int
	selected  Selection[K]
}

// NewView creates a view over records searching fields. pageSize must be
// positive.
func NewView[T any, K comparable](records []T, fields []string, get Accessor[T], key KeyFunc[T, K], pageSize int) (*View[T, K], error) {
	if err := (PageRequest{PageSize: pageSize}).Validate(); err != nil {
		return nil, err
	}
	return &View[T, K]{
		records:  records,
		fields:   fields,
		get:      get,
		key:      key,
		pageSize: pageSize,
	}, nil
}

// SetRecords replaces the source records, for example after a refetch.
// Selected ids that no longer exist are dropped.
func (v *View[T, K]) SetRecords(records []T) {
	v.records = records
	if v.selected.Len() == 0 {
		return
	}
	kept := make([]K, 0, v.selected.Len())
	for _, rec := range records {
		if id := v.key(rec); v.selected.Has(id) {
			kept = append(kept, id)
		}
	}
	v.selected = NewSelection(kept...)
}

// ApplyFilter sets the free-text query and returns to the first page.
func (v *View[T, K]) ApplyFilter(query string) {
	v.query = query
	v.pageIndex = 0
}

// ChangePage moves to pageIndex. Negative indexes are clamped to zero.
func (v *View[T, K]) ChangePage(pageIndex int) {
	v.pageIndex = max(pageIndex, 0)
}

// ChangePageSize sets a new page size and returns to the first page.
func (v *View[T, K]) ChangePageSize(pageSize int) error {
	if err := (PageRequest{PageSize: pageSize}).Validate(); err != nil {
		return err
	}
	v.pageSize = pageSize
	v.pageIndex = 0
	return nil
}

// ToggleRow flips the selection of one row.
func (v *View[T, K]) ToggleRow(id K) {
	v.selected = ToggleSelection(v.selected, id)
}

// ToggleAll behaves like the header checkbox: when every visible row is
// selected it clears the selection, otherwise it selects the visible rows.
func (v *View[T, K]) ToggleAll() {
	rows := v.Rows()
	all := Header(v.selected, rows, v.key) == CheckboxAll
	v.selected = SelectAllOnPage(rows, v.key, all)
}

// ClearSelection empties the selection.
func (v *View[T, K]) ClearSelection() {
	v.selected = Selection[K]{}
}

// SetSelection replaces the selection, e.g. with one restored from a client.
func (v *View[T, K]) SetSelection(s Selection[K]) {
	v.selected = s
}

// Query returns the current filter text.
func (v *View[T, K]) Query() string { return v.query }

// PageRequest returns the current page request.
func (v *View[T, K]) PageRequest() PageRequest {
	return PageRequest{PageIndex: v.pageIndex, PageSize: v.pageSize}
}

// Selected returns the current selection.
func (v *View[T, K]) Selected() Selection[K] { return v.selected }

// Filtered returns every record matching the current query.
func (v *View[T, K]) Filtered() []T {
	return Filter(v.records, v.query, v.fields, v.get)
}

// Rows returns the visible rows of the current page.
func (v *View[T, K]) Rows() []T {
	return v.Page().Rows
}

// Page returns the visible rows with pagination metadata. The page size is
// validated on every mutation, so this cannot fail.
func (v *View[T, K]) Page() Page[T] {
	p, _ := Window(v.Filtered(), v.PageRequest())
	return p
}

// Header returns the derived header checkbox state for the current page.
func (v *View[T, K]) Header() CheckboxState {
	return Header(v.selected, v.Rows(), v.key)
}
