package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	followsCreate prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yatube",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yatube",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yatube",
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by result.",
		}, []string{"result"}),
		followsCreate: f.NewCounter(prometheus.CounterOpts{
			Namespace: "yatube",
			Name:      "follows_created_total",
			Help:      "Follow edges written.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records every request under its route template, so
// /posts/1/ and /posts/2/ share a series. Use it with mux.Router.Use.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(snoop.Duration.Seconds())
	})
}

func (m *Metrics) CacheHit()  { m.cacheLookups.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.cacheLookups.WithLabelValues("miss").Inc() }

func (m *Metrics) FollowCreated() { m.followsCreate.Inc() }
