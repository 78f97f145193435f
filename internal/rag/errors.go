package rag

import (
	"errors"
	"fmt"
)

var (
	ErrEmbedding = errors.New("embedding failed")
	ErrIndex     = errors.New("index operation failed")
)

// IngestionError is returned by every write path. Stage is ErrEmbedding or ErrIndex.
type IngestionError struct {
	DocId string
	Stage error
	Cause error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %q: %v: %v", e.DocId, e.Stage, e.Cause)
}

func (e *IngestionError) Unwrap() []error {
	return []error{e.Stage, e.Cause}
}

func embeddingError(docId string, cause error) error {
	return &IngestionError{DocId: docId, Stage: ErrEmbedding, Cause: cause}
}

func indexError(docId string, cause error) error {
	return &IngestionError{DocId: docId, Stage: ErrIndex, Cause: cause}
}
