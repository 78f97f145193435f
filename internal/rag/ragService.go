package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/internal/rag/embedding"
	"github.com/akolanti/ragsearch/internal/rag/normalize"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

/*
Service is the public contract of the retrieval engine; service is the private
implementation holding the embedder and index handles. Both handles are safe for
concurrent use so the engine itself carries no locks. Callers own timeouts and
cancellation through ctx; nothing here retries or spawns background work.
*/
type Service interface {
	Add(ctx context.Context, record docModel.Record) error
	AddBatch(ctx context.Context, records []docModel.Record) error
	AddDocument(ctx context.Context, docId string, text string, metadata map[string]any) error
	AddEDLS(ctx context.Context, item docModel.EDLSItem) docModel.IngestResult
	AddForces(ctx context.Context, item forcesModel.StrengthWeakness, partyName string) docModel.IngestResult
	Remove(ctx context.Context, ids ...string) error

	Search(ctx context.Context, query string, k int, filter *docModel.Filter) docModel.SearchResult
	AnswerQuestion(ctx context.Context, question string, k int, filter *docModel.Filter) docModel.ContextBundle

	EnsureCollection(ctx context.Context) error
	Count(ctx context.Context) (uint64, error)
}

type service struct {
	index    vectorDB.Index
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func NewService(index vectorDB.Index, em embedding.Embedder) Service {
	return &service{
		index:    index,
		embedder: em,
		logger:   logger_i.NewLogger("rag_service"),
	}
}

func (s *service) EnsureCollection(ctx context.Context) error {
	return s.index.EnsureCollection(ctx)
}

func (s *service) Count(ctx context.Context) (uint64, error) {
	return s.index.Count(ctx)
}

func (s *service) Add(ctx context.Context, record docModel.Record) error {
	log := s.logger.WithTrace(ctx).With("docId", record.Id)
	docType := record.Metadata[docModel.KeyDocType]

	vector, err := s.embed(ctx, record.Text)
	if err != nil {
		log.Error("embedding failed", "error", err)
		metrics.DocumentIngested(docType, false)
		return embeddingError(record.Id, err)
	}

	if err = s.upsert(ctx, []vectorDB.Point{toPoint(record, vector)}); err != nil {
		log.Error("upsert failed", "error", err)
		metrics.DocumentIngested(docType, false)
		return indexError(record.Id, err)
	}

	metrics.DocumentIngested(docType, true)
	log.Debug("document added", "docType", docType)
	return nil
}

// AddBatch embeds all texts in one call and upserts in slices of config.UpsertBatch.
func (s *service) AddBatch(ctx context.Context, records []docModel.Record) error {
	if len(records) == 0 {
		return nil
	}
	log := s.logger.WithTrace(ctx)

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	start := time.Now()
	vectors, err := s.embedder.BatchEmbedding(ctx, texts)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		log.Error("batch embedding failed", "count", len(records), "error", err)
		return embeddingError(records[0].Id, err)
	}
	if len(vectors) != len(records) {
		return embeddingError(records[0].Id, fmt.Errorf("got %d vectors for %d records", len(vectors), len(records)))
	}

	for i := 0; i < len(records); i += config.UpsertBatch {
		end := min(i+config.UpsertBatch, len(records))
		points := make([]vectorDB.Point, 0, end-i)
		for j := i; j < end; j++ {
			points = append(points, toPoint(records[j], vectors[j]))
		}
		if err = s.upsert(ctx, points); err != nil {
			log.Error("batch upsert failed", "offset", i, "error", err)
			return indexError(records[i].Id, err)
		}
	}

	for _, r := range records {
		metrics.DocumentIngested(r.Metadata[docModel.KeyDocType], true)
	}
	log.Info("batch added", "count", len(records))
	return nil
}

func (s *service) AddDocument(ctx context.Context, docId string, text string, metadata map[string]any) error {
	record, err := normalize.Generic(docId, text, metadata)
	if err != nil {
		return err
	}
	return s.Add(ctx, record)
}

func (s *service) AddEDLS(ctx context.Context, item docModel.EDLSItem) docModel.IngestResult {
	record, err := normalize.EDLS(item)
	if err != nil {
		return failed(err)
	}
	if err = s.Add(ctx, record); err != nil {
		return failed(err)
	}
	return docModel.IngestResult{Status: docModel.IngestStatusSuccess, DocId: record.Id}
}

func (s *service) AddForces(ctx context.Context, item forcesModel.StrengthWeakness, partyName string) docModel.IngestResult {
	record, err := normalize.Forces(item, partyName)
	if err != nil {
		return failed(err)
	}
	if err = s.Add(ctx, record); err != nil {
		return failed(err)
	}
	return docModel.IngestResult{Status: docModel.IngestStatusSuccess, DocId: record.Id}
}

func (s *service) Remove(ctx context.Context, ids ...string) error {
	if err := s.index.Delete(ctx, ids...); err != nil {
		s.logger.WithTrace(ctx).Error("delete failed", "ids", ids, "error", err)
		return indexError(firstOr(ids, ""), err)
	}
	return nil
}

func (s *service) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()
	return s.embedder.GetEmbedding(ctx, text)
}

func (s *service) upsert(ctx context.Context, points []vectorDB.Point) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()
	return s.index.Upsert(ctx, points)
}

func toPoint(r docModel.Record, vector []float32) vectorDB.Point {
	return vectorDB.Point{Id: r.Id, Vector: vector, Document: r.Text, Metadata: r.Metadata}
}

func failed(err error) docModel.IngestResult {
	return docModel.IngestResult{Status: docModel.IngestStatusError, Error: err.Error()}
}

func firstOr(ids []string, fallback string) string {
	if len(ids) == 0 {
		return fallback
	}
	return ids[0]
}
