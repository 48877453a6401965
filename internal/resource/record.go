package resource

import (
	"fmt"
	"maps"
	"slices"
)

// Record is an item whose schema the client does not model.
type Record map[string]any

// ID returns "id" or "_id" as text.
func (r Record) ID() string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := r[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}

	return ""
}

// Label returns the first of "name" or "title".
func (r Record) Label() string {
	for _, key := range []string{"name", "title"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}

	return ""
}

// Keys returns the record's field names in order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}
