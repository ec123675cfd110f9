package listview

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Selection is an immutable set of record identifiers. The zero value is the
// empty set. Every operation returns a new Selection and leaves the receiver
// untouched, so one canonical copy can be held without aliasing concerns.
type Selection[K comparable] struct {
	ids map[K]struct{}
}

// NewSelection builds a selection containing ids.
func NewSelection[K comparable](ids ...K) Selection[K] {
	if len(ids) == 0 {
		return Selection[K]{}
	}
	m := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Selection[K]{ids: m}
}

// Has reports whether id is selected.
func (s Selection[K]) Has(id K) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s Selection[K]) Len() int { return len(s.ids) }

// IDs returns the selected ids in unspecified order.
func (s Selection[K]) IDs() []K {
	out := make([]K, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Equal reports whether both selections hold the same ids.
func (s Selection[K]) Equal(o Selection[K]) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s Selection[K]) with(id K) Selection[K] {
	m := make(map[K]struct{}, len(s.ids)+1)
	for k := range s.ids {
		m[k] = struct{}{}
	}
	m[id] = struct{}{}
	return Selection[K]{ids: m}
}

func (s Selection[K]) without(id K) Selection[K] {
	if !s.Has(id) {
		return s
	}
	if len(s.ids) == 1 {
		return Selection[K]{}
	}
	m := make(map[K]struct{}, len(s.ids)-1)
	for k := range s.ids {
		if k != id {
			m[k] = struct{}{}
		}
	}
	return Selection[K]{ids: m}
}

// SortedIDs returns the ids of s in ascending order.
func SortedIDs[K cmp.Ordered](s Selection[K]) []K {
	ids := s.IDs()
	slices.Sort(ids)
	return ids
}

// MarshalJSON encodes the selection as a JSON array.
func (s Selection[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array of ids.
func (s *Selection[K]) UnmarshalJSON(data []byte) error {
	var ids []K
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSelection(ids...)
	return nil
}

// ToggleSelection returns a new set with id added if absent or removed if present.
func ToggleSelection[K comparable](selected Selection[K], id K) Selection[K] {
	if selected.Has(id) {
		return selected.without(id)
	}
	return selected.with(id)
}

// SelectAllOnPage returns every identifier of pageRows when currentlyAllSelected
// is false, and the empty set when it is true.
func SelectAllOnPage[T any, K comparable](pageRows []T, key KeyFunc[T, K], currentlyAllSelected bool) Selection[K] {
	if currentlyAllSelected {
		return Selection[K]{}
	}
	ids := make([]K, 0, len(pageRows))
	for _, row := range pageRows {
		ids = append(ids, key(row))
	}
	return NewSelection(ids...)
}

// CheckboxState is the derived state of a "select all" header checkbox.
type CheckboxState string

const (
	CheckboxNone CheckboxState = "none"
	CheckboxSome CheckboxState = "some"
	CheckboxAll  CheckboxState = "all"
)

// Header derives the header checkbox state from how many of pageRows are
// selected. An empty page is always CheckboxNone.
func Header[T any, K comparable](selected Selection[K], pageRows []T, key KeyFunc[T, K]) CheckboxState {
	n := 0
	for _, row := range pageRows {
		if selected.Has(key(row)) {
			n++
		}
	}
	switch {
	case n == 0:
		return CheckboxNone
	case n < len(pageRows):
		return CheckboxSome
	default:
		return CheckboxAll
	}
}
