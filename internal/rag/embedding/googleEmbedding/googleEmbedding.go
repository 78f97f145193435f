package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/customHttpClient"
	"github.com/akolanti/ragsearch/internal/rag/embedding"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const taskType = "RETRIEVAL_DOCUMENT"

var logger = logger_i.NewLogger("google_embedding")
var once sync.Once
var embeddingClient *client

type embedFunc func(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error)

type client struct {
	genAi      *genai.Client
	model      string
	dimension  int32
	batchLimit int
	embed      embedFunc
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string, dimension int32) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi:      c,
		model:      modelName,
		dimension:  dimension,
		batchLimit: config.EmbedBatchLimit,
	}
	logger.Info("Google Embedding client created", "model", modelName, "dimension", dimension)
}

// GetGoogleEmbeddingClient returns nil when the client could not be created.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimension int32) embedding.Embedder {
	once.Do(func() {
		newGoogleEmbedder(ctx, modelName, apikey, dimension)
	})

	if embeddingClient == nil {
		return nil
	}
	shared := *embeddingClient
	shared.embed = shared.doCall
	return &shared
}

func (c *client) Dimension() int {
	return int(c.dimension)
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding sends texts in requests of at most batchLimit items and returns
// the vectors in input order.
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))
	for _, batch := range splitBatches(texts, c.batchLimit) {
		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.WithTrace(ctx)

	res, err := c.embed(ctx, getContent(texts))
	if err != nil && isRateLimited(err) {
		log.Warn("Rate limit hit, retrying once", "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
		res, err = c.embed(ctx, getContent(texts))
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err, "batch", len(texts))
		return nil, err
	}
	if res == nil || len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("google embedding: expected %d vectors", len(texts))
	}

	results := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		if e == nil {
			return nil, errors.New("google embedding: empty vector in response")
		}
		results = append(results, e.Values)
	}
	return results, nil
}

// splitBatches cuts texts into consecutive slices of at most limit items.
func splitBatches(texts []string, limit int) [][]string {
	if limit <= 0 {
		limit = config.EmbedBatchLimit
	}
	batches := make([][]string, 0, (len(texts)+limit-1)/limit)
	for start := 0; start < len(texts); start += limit {
		batches = append(batches, texts[start:min(start+limit, len(texts))])
	}
	return batches
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
}

func getContent(texts []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: t}},
		})
	}
	return contents
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429")
}
