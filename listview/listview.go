// Package listview provides the filter, pagination and selection logic shared by
// every list screen (items, clients, quotations).
//
// All functions are pure: inputs are never mutated and outputs depend only on
// inputs, so they are safe to call from concurrent handlers without locking.
// The package uses generics so one engine serves any record type:
//   - Filter[models.Item] with an Accessor for typed records
//   - FilterRecords for opaque field/value mappings
package listview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument is the only error the engine returns. It is raised when a
// page size is zero or negative.
var ErrInvalidArgument = errors.New("invalid argument")

// Record is an opaque field/value mapping describing one business entity.
// Values are expected to be strings, numbers or booleans.
type Record map[string]any

// Accessor returns the string value of a named field of rec.
// A missing field must be reported as the empty string.
type Accessor[T any] func(rec T, field string) string

// Predicate decides whether rec matches query.
type Predicate[T any] func(rec T, query string) bool

// KeyFunc returns the unique identifier of a record.
type KeyFunc[T any, K comparable] func(rec T) K

// Fielder is implemented by typed records that expose their fields by name.
type Fielder interface {
	Field(name string) string
}

// FieldOf is an Accessor for any Fielder.
func FieldOf[T Fielder](rec T, field string) string {
	return rec.Field(field)
}

// RecordField is the Accessor used for Record values. Numbers and booleans are
// rendered with strconv so "12" matches the number 12.
func RecordField(rec Record, field string) string {
	v, ok := rec[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ContainsFold builds the default predicate: any of fields, lower-cased,
// contains the lower-cased query.
func ContainsFold[T any](fields []string, get Accessor[T]) Predicate[T] {
	return func(rec T, query string) bool {
		q := strings.ToLower(query)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(get(rec, f)), q) {
				return true
			}
		}
		return false
	}
}

// FilterFunc returns the records matching match, preserving order.
// An empty query returns records unchanged.
func FilterFunc[T any](records []T, query string, match Predicate[T]) []T {
	if query == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if match(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

// Filter returns the records where any of fields contains query, ignoring case.
func Filter[T any](records []T, query string, fields []string, get Accessor[T]) []T {
	return FilterFunc(records, query, ContainsFold(fields, get))
}

// FilterRecords is Filter for opaque Record values.
func FilterRecords(records []Record, query string, fields []string) []Record {
	return Filter(records, query, fields, RecordField)
}
