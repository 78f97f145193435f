// Package ingest turns an uploaded file into generic documents: text is extracted,
// split into overlapping chunks, and each chunk is written as its own record.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

var ErrUnsupportedType = errors.New("unsupported document type")

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Writer is the part of the engine file ingestion needs.
type Writer interface {
	AddBatch(ctx context.Context, records []docModel.Record) error
}

var logger = logger_i.NewLogger("document_ingestion")

// ProcessFile extracts, chunks and writes doc. The uploaded file is removed whatever
// the outcome, a failed upload is sent again by the client. Returns the number of
// chunks written.
func ProcessFile(ctx context.Context, doc docModel.UploadedDocument, w Writer) (int, error) {
	log := logger.WithTrace(ctx).With("docId", doc.Id, "filename", doc.Name)
	defer func() {
		if err := os.Remove(doc.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Error("Error removing file", "error", err)
		}
	}()

	kind := getFileKind(doc.Path)
	if kind == kindUnknown {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, doc.Name)
	}

	pages, err := extractText(doc.Path, kind)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return 0, err
	}
	log.Debug("extracted pages", "count", len(pages))

	records, err := PrepareRecords(pages, doc)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		log.Warn("document produced no text")
		return 0, nil
	}

	if err = w.AddBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("writing chunks: %w", err)
	}

	log.Info("document ingested", "chunks", len(records))
	return len(records), nil
}
