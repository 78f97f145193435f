package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/ragsearch/internal/adapter/utils"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/handlers"
)

const TraceHeader = "X-Trace-Id"

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	trace := req.Header.Get(TraceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	re.writer.Header().Set(TraceHeader, trace)
	re.req = req.WithContext(ctx)
	return re
}

func (g *Guard) authenticate(re requestResponseStruct) requestResponseStruct {
	subject, ok := g.auth.Verify(re.req.Header.Get("Authorization"), re.logger)
	if !ok {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusUnauthorized,
			errorMessage: "Unauthorized",
		}
		return re
	}
	re.logger.Debug("Authorized", "subject", subject)
	return re
}

func (g *Guard) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !g.limiter.Allow(ip) {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
		return re
	}
	return re
}

func handleBadRequest(re requestResponseStruct) {
	trace, _ := re.req.Context().Value(config.TRACE_ID_KEY).(string)
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	if re.badRequest.httpCode == http.StatusUnauthorized {
		re.writer.Header().Set("WWW-Authenticate", "Bearer")
	}
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, trace, re.badRequest.errorMessage)
}
