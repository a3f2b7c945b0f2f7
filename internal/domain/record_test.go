package domain

import (
	"encoding/json"
	"testing"
)

func TestRecordString(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		key  string
		want string
	}{
		{"string value", Record{"grade_name": "HG"}, "grade_name", "HG"},
		{"whole float renders as int", Record{"grade_id": float64(7)}, "grade_id", "7"},
		{"fractional float keeps decimals", Record{"model_length": 18.5}, "model_length", "18.5"},
		{"json number", Record{"grade_id": json.Number("42")}, "grade_id", "42"},
		{"bool", Record{"is_active": true}, "is_active", "true"},
		{"int", Record{"count": 3}, "count", "3"},
		{"missing key", Record{}, "grade_id", ""},
		{"nil value", Record{"grade_id": nil}, "grade_id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.String(tt.key); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRecordIsActive(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"missing flag means active", Record{"grade_id": 1}, true},
		{"bool true", Record{"is_active": true}, true},
		{"bool false", Record{"is_active": false}, false},
		{"numeric zero", Record{"is_active": float64(0)}, false},
		{"numeric one", Record{"is_active": float64(1)}, true},
		{"string false", Record{"is_active": "false"}, false},
		{"string true", Record{"is_active": "true"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{21, 10, 3},
		{5, 0, 0},
		{-1, 10, 0},
	}

	for _, tt := range tests {
		if got := PageCount(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestPageTotalPages(t *testing.T) {
	p := &Page{Count: 21}
	if got := p.TotalPages(10); got != 3 {
		t.Errorf("TotalPages(10) = %d, want 3", got)
	}
}
