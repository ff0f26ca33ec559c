package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookwise_tool_calls_total",
		Help: "Total number of tool invocations",
	}, []string{"tool", "status"})

	ToolCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookwise_tool_call_duration_seconds",
		Help:    "Duration of tool invocations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})

	ToolResultSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookwise_tool_result_records",
		Help:    "Number of records returned by a tool call",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 1000},
	}, []string{"tool"})

	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookwise_dataset_loads_total",
		Help: "Total number of dataset loads",
	}, []string{"status"})

	DatasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookwise_dataset_records",
		Help: "Number of records in the last loaded dataset",
	})
)

// ObserveToolCall records the outcome of one tool invocation.
func ObserveToolCall(tool string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
	ToolCallDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// ObserveDatasetLoad records a dataset load.
func ObserveDatasetLoad(records int, err error) {
	if err != nil {
		DatasetLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	DatasetLoadsTotal.WithLabelValues("ok").Inc()
	DatasetRecords.Set(float64(records))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
