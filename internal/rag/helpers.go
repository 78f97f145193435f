package rag

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

const dateOnly = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	dateOnly,
}

// parseTimestamp accepts ISO-8601 dates and datetimes. Values without an offset are UTC.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type dateBounds struct {
	from, to       time.Time
	hasFrom, hasTo bool
}

// boundsFrom treats a date-only date_to as the whole day. Unparsable bounds are ignored.
func boundsFrom(filter *docModel.Filter, log *logger_i.Logger) dateBounds {
	var b dateBounds
	if filter == nil {
		return b
	}
	if filter.DateFrom != "" {
		if t, ok := parseTimestamp(filter.DateFrom); ok {
			b.from, b.hasFrom = t, true
		} else {
			log.Warn("ignoring unparsable date_from", "value", filter.DateFrom)
		}
	}
	if filter.DateTo != "" {
		if t, ok := parseTimestamp(filter.DateTo); ok {
			if _, err := time.Parse(dateOnly, strings.TrimSpace(filter.DateTo)); err == nil {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			b.to, b.hasTo = t, true
		} else {
			log.Warn("ignoring unparsable date_to", "value", filter.DateTo)
		}
	}
	return b
}

// postFilterByDate keeps index order. Results whose created_at is missing or
// unparsable are kept.
func postFilterByDate(matches []docModel.Match, filter *docModel.Filter, log *logger_i.Logger) []docModel.Match {
	bounds := boundsFrom(filter, log)
	if !bounds.hasFrom && !bounds.hasTo {
		return matches
	}

	kept := make([]docModel.Match, 0, len(matches))
	for _, m := range matches {
		raw := m.Metadata[docModel.KeyCreatedAt]
		created, ok := parseTimestamp(raw)
		if !ok {
			log.Warn("keeping result with unparsable created_at", "id", m.Id, "created_at", raw)
			metrics.FilterParseWarning()
			kept = append(kept, m)
			continue
		}
		if bounds.hasFrom && created.Before(bounds.from) {
			continue
		}
		if bounds.hasTo && created.After(bounds.to) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func placeholderAnswer(question string, metadatas []docModel.Metadata) string {
	return fmt.Sprintf(
		"LLM Answer Generation (Pending): Based on %d retrieved documents, the answer to '%s' would be generated here.\n\nTypes de documents utilisés comme contexte: %s",
		len(metadatas), question, docTypesOf(metadatas))
}

func docTypesOf(metadatas []docModel.Metadata) string {
	seen := map[string]struct{}{}
	for _, m := range metadatas {
		t := m[docModel.KeyDocType]
		if t == "" {
			t = string(docModel.DocTypeStandard)
		}
		seen[t] = struct{}{}
	}
	if len(seen) == 0 {
		return string(docModel.DocTypeStandard)
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}
