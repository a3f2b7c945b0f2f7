package domain

import (
	"encoding/json"
	"strconv"
)

// Record is one catalog record as returned by the backend. Records are kept
// schemaless because every entity shares the same shape — an id, a display
// name, optional foreign keys and media references, an is_active flag, and
// audit timestamps — and the set of fields is driven by EntityDescriptor
// configuration rather than per-entity structs.
type Record map[string]any

// String returns the value under key rendered as a string. Numbers are
// rendered without a decimal point when they are whole, matching how the
// backend serializes integer ids into JSON.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// IsActive reports the record's soft-delete flag. Missing means active; the
// backend filters inactive records out of list responses, so the flag only
// appears on detail fetches.
func (r Record) IsActive() bool {
	v, ok := r["is_active"]
	if !ok {
		return true
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "false" && t != "0" && t != ""
	default:
		return true
	}
}

// Page is the paginated list envelope the catalog backend returns.
type Page struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Record `json:"results"`
}

// TotalPages computes the number of pages for the given page size.
// Zero records means zero pages.
func (p *Page) TotalPages(pageSize int) int {
	return PageCount(p.Count, pageSize)
}

// PageCount is ceil(total/pageSize), with 0 pages for 0 records.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
