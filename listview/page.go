package listview

import "fmt"

// PageRequest identifies one page of a filtered list. PageIndex is zero based.
type PageRequest struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}

// Validate reports ErrInvalidArgument when the page size is not positive.
func (p PageRequest) Validate() error {
	if p.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, p.PageSize)
	}
	return nil
}

// Page is one visible page of rows together with its pagination metadata.
type Page[T any] struct {
	Rows       []T  `json:"rows"`
	PageIndex  int  `json:"page_index"`
	PageSize   int  `json:"page_size"`
	TotalRows  int  `json:"total_rows"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Paginate returns filtered[i*n : i*n+n]. A start past the end (or a negative
// page index) yields an empty page, not an error.
func Paginate[T any](filtered []T, page PageRequest) ([]T, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	// Checked before multiplying: PageIndex*PageSize may overflow.
	if page.PageIndex < 0 || page.PageIndex >= PageCount(len(filtered), page.PageSize) {
		return []T{}, nil
	}
	start := page.PageIndex * page.PageSize
	end := start + min(page.PageSize, len(filtered)-start)
	return filtered[start:end], nil
}

// PageCount returns ceil(total/pageSize), or 0 for an invalid page size.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Window paginates filtered and fills in the page metadata.
func Window[T any](filtered []T, page PageRequest) (Page[T], error) {
	rows, err := Paginate(filtered, page)
	if err != nil {
		return Page[T]{}, err
	}
	pages := PageCount(len(filtered), page.PageSize)
	return Page[T]{
		Rows:       rows,
		PageIndex:  page.PageIndex,
		PageSize:   page.PageSize,
		TotalRows:  len(filtered),
		TotalPages: pages,
		HasPrev:    page.PageIndex > 0,
		HasNext:    page.PageIndex >= 0 && page.PageIndex < pages-1,
	}, nil
}
