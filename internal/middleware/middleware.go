package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Guard runs every request through trace injection, then authentication and rate
// limiting for protected routes, and records the response status.
type Guard struct {
	auth    *Authenticator
	limiter *IPRateLimiter
}

func NewGuard(auth *Authenticator, limiter *IPRateLimiter) *Guard {
	if limiter == nil {
		limiter = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
	}
	return &Guard{auth: auth, limiter: limiter}
}

// Protected requires a valid bearer credential.
func (g *Guard) Protected(next http.Handler) http.Handler {
	return g.wrap(next, true)
}

// Public only injects the trace id and records metrics.
func (g *Guard) Public(next http.Handler) http.Handler {
	return g.wrap(next, false)
}

func (g *Guard) wrap(next http.Handler, protected bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := g.processRequest(requestResponseStruct{req: r, writer: rec}, protected)

		if !re.badRequest.isBadRequest {
			next.ServeHTTP(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routeLabel(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	})
}

func (g *Guard) processRequest(re requestResponseStruct, protected bool) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	if !protected {
		return re
	}

	re = g.rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}
	re = g.authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	return re
}

// routeLabel prefers the chi route pattern so ids in the path do not explode the label set.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
