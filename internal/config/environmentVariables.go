package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10

	//per-client buckets idle this long are dropped
	RateLimiterIdleTTL = 10 * time.Minute

	//collection that holds every document kind
	CollectionName = "docs"

	//embedding dimensions per provider
	//all-MiniLM-L6-v2 sized, the hash embedder mirrors it
	HashEmbeddingDimensionality   int32 = 384
	GoogleEmbeddingDimensionality int32 = 768
	OpenAIEmbeddingDimensionality int32 = 1536

	//max items per embedding request, the Gemini batch endpoint rejects more
	EmbedBatchLimit = 100

	EmbeddingProviderGoogle = "google"
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderHash   = "hash"

	VectorBackendQdrant = "qdrant"
	VectorBackendMemory = "memory"

	GoogleEmbeddingModel = "text-embedding-004"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//search defaults, mirror the HTTP contract defaults
	DefaultSearchResults  = 5
	DefaultContextResults = 3
	MaxSearchResults      = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 5
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobTimeout                      = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	RequestTimeout         = 30 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	//job requests buffer limit
	BufferLimit = 100

	//outbound http pooling for embedding providers
	MaxIdleConns         = 50
	MaxIdleConnsPerHost  = 25
	IdleConnTimeout      = 60 * time.Second
	EmbeddingHTTPTimeout = 60 * time.Second

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantPoolSize          = 1

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisTrackerStore = 2

	RedisJobStoreTTL = 24 * time.Hour
	RedisPingTimeout = 3 * time.Second

	//upload limit for file ingestion
	MaxUploadSize = 32 << 20

	//file chunking for uploaded documents
	MaxChunkSize = 1000
	ChunkOverlap = 150
	UpsertBatch  = 100

	//flat file stores, relative to DATA_DIR
	DefaultDataDir    = "data"
	EDLSFileName      = "edls.json"
	TrackerFileName   = "indexing_tracker.json"
	PartiesFileName   = "parties.json"
	ElementsFileName  = "strengths_weaknesses.json"
	MediaFileName     = "media_files.json"
	UploadsDirName    = "uploads"
	TemporaryDataDir  = "temporary_data"
	TrackerRedisKey   = "indexing_tracker"
	JWTSigningMethod  = "HS256"
	DefaultCORSOrigin = "http://localhost:5173"
)
