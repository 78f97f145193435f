// Package edlsSource reads EDLS reports from their flat JSON file.
package edlsSource

import (
	"context"
	"fmt"

	"github.com/akolanti/ragsearch/internal/data/fileStore"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

type FileSource struct {
	path   string
	logger *logger_i.Logger
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, logger: logger_i.NewLogger("edls_source")}
}

// Load reads the whole file. A missing file is created empty.
func (f *FileSource) Load(ctx context.Context) ([]docModel.EDLSItem, error) {
	var items []docModel.EDLSItem
	err := fileStore.ReadJSON(f.path, &items)
	if err == nil {
		return items, nil
	}
	if !fileStore.IsMissing(err) {
		return nil, fmt.Errorf("loading EDLS data: %w", err)
	}

	f.logger.WithTrace(ctx).Warn("EDLS data file not found, creating it", "path", f.path)
	if err = fileStore.WriteJSON(f.path, []docModel.EDLSItem{}); err != nil {
		return nil, err
	}
	return []docModel.EDLSItem{}, nil
}
