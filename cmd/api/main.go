// @title           RAG Search API
// @version         1.0
// @description     Semantic search and context retrieval over EDLS reports, party strengths/weaknesses and uploaded documents
// @termsOfService  http://swagger.io/terms/

// @contact.name    akolanti
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ragsearch/internal/bootstrap"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/forcesStore"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/handlers"
	"github.com/akolanti/ragsearch/internal/job"
	"github.com/akolanti/ragsearch/internal/mcpserver"
	"github.com/akolanti/ragsearch/internal/middleware"
	"github.com/akolanti/ragsearch/internal/server"
	"github.com/akolanti/ragsearch/internal/worker"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	env := config.Load()

	logger_i.Init(env.IsProd)
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", env.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	engine, err := bootstrap.NewEngine(serviceContext, env)
	if err != nil {
		logger.Error("Engine failed to initialize. Shutting down.", "error", err)
		return
	}

	forces, err := forcesStore.New(env.DataDir)
	if err != nil {
		logger.Error("Forces store failed to initialize. Shutting down.", "error", err, "dir", env.DataDir)
		return
	}
	indexer := bootstrap.NewIndexer(serviceContext, env, engine, forces)

	//init buffered job channel
	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          bootstrap.NewJobStore(serviceContext, env),
	})

	//init worker pool
	pool := worker.NewPool(service, indexer, engine)
	pool.Start(stopWorkerChannel, &workerWaitGroup)

	handler := handlers.New(handlers.Dependencies{
		Engine:    engine,
		Jobs:      service,
		Forces:    forces,
		Indexer:   indexer,
		UploadDir: env.DataPath(config.TemporaryDataDir),
	})
	if env.NoAuthBypass {
		logger.Warn("Authentication is bypassed, every protected route is open")
	}
	guard := middleware.NewGuard(middleware.NewAuthenticator(env.AuthToken, env.JWTSecret, env.NoAuthBypass), nil)
	mcpHandler := mcpserver.NewServer(engine).Handler()

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, env.CORSOrigins, handler, guard, mcpHandler)

	<-stopExecution
	logger.Info("Server stopped")
}
