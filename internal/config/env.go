package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Env holds the settings that can be overridden from the environment or a .env file.
type Env struct {
	IsProd       bool
	NoAuthBypass bool
	ListenAddr   string

	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	QdrantUseTLS bool

	RedisAddr     string
	RedisPassword string

	VectorBackend     string
	EmbeddingProvider string
	GoogleAPIKey      string
	OpenAIAPIKey      string

	AuthToken string
	JWTSecret string

	DataDir     string
	CORSOrigins []string
}

var (
	loaded Env
	once   sync.Once
)

// Load reads .env (if present) once and returns the resolved settings.
func Load() Env {
	once.Do(func() {
		_ = godotenv.Load(".env")
		loaded = fromEnvironment()
	})
	return loaded
}

func fromEnvironment() Env {
	return Env{
		IsProd:            getBool("IS_PROD", false),
		NoAuthBypass:      getBool("NO_AUTH_BYPASS", false),
		ListenAddr:        getString("LISTEN_ADDR", ServerListenAddr),
		QdrantHost:        getString("QDRANT_HOST", QdrantHost),
		QdrantPort:        getInt("QDRANT_PORT", QdrantGrpcPort),
		QdrantAPIKey:      os.Getenv("QDRANT_API_KEY"),
		QdrantUseTLS:      getBool("QDRANT_USE_TLS", false),
		RedisAddr:         getString("REDIS_ADDR", RedisAddr),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		VectorBackend:     strings.ToLower(getString("VECTOR_BACKEND", VectorBackendQdrant)),
		EmbeddingProvider: strings.ToLower(getString("EMBEDDING_PROVIDER", EmbeddingProviderGoogle)),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AuthToken:         os.Getenv("AUTH_TOKEN"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		DataDir:           getString("DATA_DIR", DefaultDataDir),
		CORSOrigins:       getList("CORS_ALLOWED_ORIGINS", []string{DefaultCORSOrigin}),
	}
}

// DataPath joins name onto the configured data directory.
func (e Env) DataPath(name string) string {
	return filepath.Join(e.DataDir, name)
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
