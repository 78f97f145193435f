package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/rag/normalize"
)

type fileKind string

const (
	kindPDF     fileKind = "pdf"
	kindText    fileKind = "text"
	kindUnknown fileKind = ""
)

// separators from strongest to weakest semantic boundary
var separators = []string{"\n\n", "\n", ". ", " "}

// splitTextIntoChunks cuts text into pieces of at most limit bytes, preferring paragraph,
// line, sentence and word boundaries in that order. Each chunk after the first starts
// with up to overlap bytes from the end of the previous one.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if overlap >= limit {
		overlap = 0
	}

	pieces := splitRecursive(text, limit-overlap, 0)

	chunks := make([]string, 0, len(pieces))
	var previous string
	for _, p := range pieces {
		chunk := p
		if previous != "" && overlap > 0 {
			chunk = tail(previous, overlap) + p
		}
		chunks = append(chunks, chunk)
		previous = p
	}
	return chunks
}

func splitRecursive(text string, limit int, level int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if level >= len(separators) {
		return hardCut(text, limit)
	}

	sep := separators[level]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return splitRecursive(text, limit, level+1)
	}

	var out []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if len(part) > limit {
			flush()
			out = append(out, splitRecursive(part, limit, level+1)...)
			continue
		}
		if current.Len()+len(part) > limit {
			flush()
		}
		current.WriteString(part)
	}
	flush()
	return out
}

func hardCut(text string, limit int) []string {
	var out []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

func getFileKind(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return kindPDF
	case ".docx", ".odt", ".rtf", ".txt", ".md":
		return kindText
	default:
		return kindUnknown
	}
}

// SupportedExtension reports whether a file name can be ingested.
func SupportedExtension(name string) bool {
	return getFileKind(name) != kindUnknown
}

func extractText(path string, kind fileKind) ([]rawPage, error) {
	switch kind {
	case kindPDF:
		return extractPDF(path)
	case kindText:
		return extractDocument(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, path)
	}
}

// PrepareRecords maps page chunks to generic documents with ids file_<docId>_<n>.
func PrepareRecords(pages []rawPage, doc docModel.UploadedDocument) ([]docModel.Record, error) {
	ingestedAt := doc.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now()
	}

	var records []docModel.Record
	for _, page := range pages {
		for i, text := range splitTextIntoChunks(page.Content, config.MaxChunkSize, config.ChunkOverlap) {
			id := fmt.Sprintf("%s%s_%d", docModel.FileIdPrefix, doc.Id, len(records))
			r, err := normalize.Generic(id, text, map[string]any{
				"title":               doc.Name,
				"page_num":            page.Number,
				"chunk_order":         i,
				docModel.KeyCreatedAt: ingestedAt.UTC().Format(time.RFC3339),
			})
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}
	}
	return records, nil
}
