package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/ragsearch/internal/adapter/utils"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/handlers"
	"github.com/akolanti/ragsearch/internal/middleware"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// RegisterRoutes mounts every endpoint on r. /healthz stays public next to /metrics
// and /swagger, everything else sits behind the guard.
func RegisterRoutes(r chi.Router, h *handlers.Handler, guard *middleware.Guard, mcpHandler http.Handler) {
	r.With(guard.Public).Get("/healthz", h.HealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(guard.Protected)

		r.Post("/add-document", h.AddDocumentHandler)
		r.Post("/add-edls", h.AddEDLSHandler)
		r.Post("/add-forces", h.AddForcesHandler)
		r.Post("/search", h.SearchHandler)
		r.Post("/answer-question", h.AnswerQuestionHandler)

		r.Post("/index-all-edls", h.IndexAllEDLSHandler)
		r.Post("/index-all-forces", h.IndexAllForcesHandler)
		r.Post("/index-all", h.IndexAllHandler)
		r.Get("/index-state", h.IndexStateHandler)
		r.Post("/index-reset", h.IndexResetHandler)
		r.Get("/status/{id}", h.GetStatusHandler)
		r.Post("/ingest", h.PostIngestHandler)

		r.Get("/document-types", h.DocumentTypesHandler)
		r.Get("/source-types", h.SourceTypesHandler)

		r.Post("/parties", h.CreatePartyHandler)
		r.Get("/parties", h.ListPartiesHandler)
		r.Get("/parties/{id}", h.GetPartyHandler)
		r.Put("/parties/{id}", h.UpdatePartyHandler)
		r.Delete("/parties/{id}", h.DeletePartyHandler)
		r.Post("/forces-faiblesses", h.CreateElementHandler)
		r.Get("/forces-faiblesses/{id}", h.ListElementsHandler)
		r.Delete("/forces-faiblesses/{id}", h.DeleteElementHandler)
		r.Get("/elements-types", h.ElementTypesHandler)
		r.Post("/media-files", h.AddMediaHandler)
		r.Get("/media-files/{id}", h.ListMediaHandler)
		r.Delete("/media-files/{id}", h.DeleteMediaHandler)
		r.Get("/dashboard-summary", h.DashboardSummaryHandler)

		if mcpHandler != nil {
			r.Handle("/mcp", mcpHandler)
		}
	})
}

func CreateServer(listenAddr string, corsOrigins []string, h *handlers.Handler, guard *middleware.Guard, mcpHandler http.Handler) {
	r := utils.GetRouter(corsOrigins)
	RegisterRoutes(r.Router, h, guard, mcpHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
		close(shutdownParams.StopExecution)
	case <-ctx.Done():
		_logger.Error("Force shut down")
		os.Exit(1)
	}
}
