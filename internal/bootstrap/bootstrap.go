// Package bootstrap builds the engine and its stores from the environment. Both the
// API server and the indexing CLI start from here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/edlsSource"
	"github.com/akolanti/ragsearch/internal/data/forcesStore"
	"github.com/akolanti/ragsearch/internal/data/redisStore"
	"github.com/akolanti/ragsearch/internal/data/store"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/indexer"
	"github.com/akolanti/ragsearch/internal/rag"
	"github.com/akolanti/ragsearch/internal/rag/embedding"
	"github.com/akolanti/ragsearch/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ragsearch/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/ragsearch/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

var logger = logger_i.NewLogger("bootstrap")

var (
	ErrEmbedderUnavailable = errors.New("embedding provider unavailable")
	ErrIndexUnavailable    = errors.New("vector index unavailable")
)

// NewEmbedder picks the provider named by env.EmbeddingProvider.
func NewEmbedder(ctx context.Context, env config.Env) (embedding.Embedder, error) {
	switch env.EmbeddingProvider {
	case config.EmbeddingProviderGoogle:
		if env.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is not set", ErrEmbedderUnavailable)
		}
		em := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, env.GoogleAPIKey, config.GoogleEmbeddingDimensionality)
		if em == nil {
			return nil, fmt.Errorf("%w: google client could not be created", ErrEmbedderUnavailable)
		}
		return em, nil
	case config.EmbeddingProviderOpenAI:
		if env.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrEmbedderUnavailable)
		}
		return openaiEmbedding.NewOpenAIEmbedder(env.OpenAIAPIKey, config.OpenAIEmbeddingModel, int(config.OpenAIEmbeddingDimensionality)), nil
	case config.EmbeddingProviderHash:
		return hashEmbedding.NewHashEmbedder(int(config.HashEmbeddingDimensionality)), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrEmbedderUnavailable, env.EmbeddingProvider)
	}
}

// NewIndex connects to the backend named by env.VectorBackend. The collection is
// sized to the embedder's dimension.
func NewIndex(ctx context.Context, env config.Env, dimension int) (vectorDB.Index, error) {
	switch env.VectorBackend {
	case config.VectorBackendQdrant:
		db := qdrantDB.GetQdrantClient(ctx, qdrantDB.Options{
			Host:       env.QdrantHost,
			Port:       env.QdrantPort,
			APIKey:     env.QdrantAPIKey,
			UseTLS:     env.QdrantUseTLS,
			Collection: config.CollectionName,
			Dimension:  uint64(dimension),
		})
		if db == nil {
			return nil, fmt.Errorf("%w: qdrant at %s:%d", ErrIndexUnavailable, env.QdrantHost, env.QdrantPort)
		}
		return db, nil
	case config.VectorBackendMemory:
		logger.Warn("using the in-memory vector index, nothing survives a restart")
		return memoryDB.NewMemoryIndex(dimension), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrIndexUnavailable, env.VectorBackend)
	}
}

// NewEngine wires embedder and index and makes sure the collection exists.
func NewEngine(ctx context.Context, env config.Env) (rag.Service, error) {
	em, err := NewEmbedder(ctx, env)
	if err != nil {
		return nil, err
	}
	index, err := NewIndex(ctx, env, em.Dimension())
	if err != nil {
		return nil, err
	}
	engine := rag.NewService(index, em)
	if err = engine.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensuring collection %s: %w", config.CollectionName, err)
	}
	logger.Info("engine ready", "provider", env.EmbeddingProvider, "backend", env.VectorBackend, "dimension", em.Dimension())
	return engine, nil
}

// NewTrackerStore prefers Redis and falls back to the JSON file under DATA_DIR.
func NewTrackerStore(ctx context.Context, env config.Env) indexModel.TrackerStore {
	if rs := redisStore.GetRedisStore(ctx, redisOptions(env), config.RedisTrackerStore); rs != nil {
		return store.NewRedisTrackerStore(rs, config.TrackerRedisKey)
	}
	logger.Warn("Redis is offline, tracker state goes to file", "path", env.DataPath(config.TrackerFileName))
	return store.NewFileTrackerStore(env.DataPath(config.TrackerFileName))
}

// NewJobStore prefers Redis and falls back to process memory.
func NewJobStore(ctx context.Context, env config.Env) jobModel.JobStore {
	if rs := redisStore.GetRedisStore(ctx, redisOptions(env), config.RedisJobStore); rs != nil {
		return store.NewRedisJobStore(rs)
	}
	logger.Warn("Redis is offline, job state is kept in memory")
	return store.InitInMemoryJobStore()
}

// NewIndexer builds the indexing driver over the EDLS file and the forces store.
func NewIndexer(ctx context.Context, env config.Env, engine rag.Service, forces *forcesStore.Store) *indexer.Indexer {
	edls := edlsSource.NewFileSource(env.DataPath(config.EDLSFileName))
	return indexer.New(engine, edls, forces, NewTrackerStore(ctx, env))
}

func redisOptions(env config.Env) redisStore.Options {
	return redisStore.Options{Addr: env.RedisAddr, Password: env.RedisPassword}
}
