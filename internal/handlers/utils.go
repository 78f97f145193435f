package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/akolanti/ragsearch/internal/adapter"
	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/config"
)

const maxJSONBody = 1 << 20

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out, nothing left to report to the client
		logRH.Error("Error encoding response", "error", err)
	}
}

// decodeRequest reads a JSON body into dst and runs the struct validation.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return api.Validate(dst)
}

func traceId(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, traceId string, detail string) {
	writeJsonResponse(w, httpCode, adapter.ToErrorResponse(detail, traceId))
}

func writeError(w http.ResponseWriter, r *http.Request, httpCode int, detail string) {
	WriteErrorResponse(w, httpCode, traceId(r.Context()), detail)
}

func ensureDirectory(dir string) error {
	return os.MkdirAll(dir, 0750)
}
