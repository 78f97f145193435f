// Package hashEmbedding is a deterministic feature-hashing embedder. It needs no model or
// network and is what the test suite and offline deployments run on.
package hashEmbedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/akolanti/ragsearch/internal/rag/embedding"
)

type client struct {
	dimension int
}

func NewHashEmbedder(dimension int) embedding.Embedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &client{dimension: dimension}
}

func (c *client) Dimension() int {
	return c.dimension
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.embed(text), nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := c.GetEmbedding(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *client) embed(text string) []float32 {
	vec := make([]float64, c.dimension)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		tokens = []string{""}
	}
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(c.dimension))
		// top bit picks the sign so collisions partly cancel
		if sum>>63 == 1 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, c.dimension)
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
