// Package metrics exposes Prometheus instruments for the HTTP surface and the
// model calls behind it.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

const namespace = "chat_server"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Model completion calls by model and outcome (ok, error).",
		},
		[]string{"model", "outcome"},
	)

	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "Model completion latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"model"},
	)

	relationshipScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relationship_score",
			Help:      "Evaluator score deltas by parameter.",
			Buckets:   []float64{-3, -2, -1, 0, 1, 2, 3},
		},
		[]string{"param"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by the mux route
// template, so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

// ObserveScore records one evaluator delta for param.
func ObserveScore(param string, score int) {
	relationshipScores.WithLabelValues(param).Observe(float64(score))
}

// instrumentedClient counts and times every completion call.
type instrumentedClient struct {
	next llm.Client
}

// InstrumentLLM wraps c so each Complete call is counted and timed.
func InstrumentLLM(c llm.Client) llm.Client { return &instrumentedClient{next: c} }

func (c *instrumentedClient) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	start := time.Now()
	out, err := c.next.Complete(ctx, req)
	llmCallDuration.WithLabelValues(req.Model).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	llmCallsTotal.WithLabelValues(req.Model, outcome).Inc()
	return out, err
}
