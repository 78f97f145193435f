package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/ragsearch/internal/customHttpClient"
	"github.com/akolanti/ragsearch/internal/rag/embedding"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api       openai.Client
	model     openai.EmbeddingModel
	dimension int
	logger    *logger_i.Logger
}

func NewOpenAIEmbedder(apiKey string, model string, dimension int) embedding.Embedder {
	return &client{
		api:       openai.NewClient(option.WithAPIKey(apiKey), option.WithHTTPClient(customHttpClient.GetClient())),
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
		logger:    logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) Dimension() int {
	return c.dimension
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      c.model,
		Dimensions: openai.Int(int64(c.dimension)),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("openai embedding: expected %d vectors, got %d", len(texts), len(res.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("openai embedding: index %d out of range", d.Index)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
