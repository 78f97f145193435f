package customHttpClient

import (
	"net/http"
	"testing"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClient(t *testing.T) {
	c := GetClient()
	require.NotNil(t, c)
	assert.Same(t, c, GetClient())
	assert.Equal(t, config.EmbeddingHTTPTimeout, c.Timeout)

	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, config.MaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	assert.Equal(t, config.IdleConnTimeout, transport.IdleConnTimeout)
}
