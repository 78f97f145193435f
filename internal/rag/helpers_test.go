package rag

import (
	"testing"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2023-01-01", true, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2023-01-01T10:30:00Z", true, time.Date(2023, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2023-01-01T10:30:00+02:00", true, time.Date(2023, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"2023-01-01T10:30:00.123", true, time.Date(2023, 1, 1, 10, 30, 0, 123000000, time.UTC)},
		{"2023-01-01 10:30:00", true, time.Date(2023, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"01/02/2023", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := parseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("parseTimestamp(%q) ok = %v; want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestPostFilterByDate(t *testing.T) {
	log := logger_i.NewLogger("test")
	matches := []docModel.Match{
		{Id: "a", Metadata: docModel.Metadata{"created_at": "2023-06-01T23:59:00Z"}},
		{Id: "b", Metadata: docModel.Metadata{"created_at": "2023-06-02"}},
		{Id: "c", Metadata: docModel.Metadata{}},
		{Id: "d", Metadata: docModel.Metadata{"created_at": "2023-05-31"}},
	}

	tests := []struct {
		name   string
		filter *docModel.Filter
		want   []string
	}{
		{"no filter", nil, []string{"a", "b", "c", "d"}},
		{"inclusive whole-day upper bound", &docModel.Filter{DateTo: "2023-06-01"}, []string{"a", "c", "d"}},
		{"lower bound", &docModel.Filter{DateFrom: "2023-06-01"}, []string{"a", "b", "c"}},
		{"both bounds", &docModel.Filter{DateFrom: "2023-06-01", DateTo: "2023-06-01"}, []string{"a", "c"}},
		{"unparsable bound ignored", &docModel.Filter{DateFrom: "yesterday"}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postFilterByDate(matches, tt.filter, log)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d matches; want %v", len(got), tt.want)
			}
			for i := range got {
				if got[i].Id != tt.want[i] {
					t.Errorf("position %d = %s; want %s", i, got[i].Id, tt.want[i])
				}
			}
		})
	}
}

func TestDocTypesOf(t *testing.T) {
	got := docTypesOf([]docModel.Metadata{{"doc_type": "forces"}, {"doc_type": "edls"}, {"doc_type": "forces"}, {}})
	if got != "edls, forces, standard" {
		t.Errorf("docTypesOf = %q", got)
	}
	if got := docTypesOf(nil); got != "standard" {
		t.Errorf("docTypesOf(nil) = %q; want standard", got)
	}
}
