package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of indexing jobs waiting for a worker",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Documents written to the collection, by doc_type and outcome",
}, []string{"doc_type", "outcome"})

var postFilterDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "search_post_filter_dropped_total",
	Help: "Results removed by the created_at date post-filter",
})

var filterParseWarnings = promauto.NewCounter(prometheus.CounterOpts{
	Name: "search_filter_parse_warnings_total",
	Help: "Results kept because created_at could not be parsed",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func DocumentIngested(docType string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	documentsIngested.WithLabelValues(docType, outcome).Inc()
}

func PostFilterDropped(n int) {
	postFilterDropped.Add(float64(n))
}

func FilterParseWarning() {
	filterParseWarnings.Inc()
}

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_duration_seconds",
	Help:    "Time spent running a background job, by kind.",
	Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
}, []string{"kind"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(kind string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(kind).Observe(timeElapsed.Seconds())
}
