package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/ragsearch/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// GetClient returns the process-wide client used by the embedding providers so
// that batches of embedding calls reuse connections.
func GetClient() *http.Client {
	once.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = config.MaxIdleConns
		transport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		transport.IdleConnTimeout = config.IdleConnTimeout

		client = &http.Client{
			Transport: transport,
			Timeout:   config.EmbeddingHTTPTimeout,
		}
	})
	return client
}
