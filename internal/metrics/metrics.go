package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AttemptsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studyhall", Name: "attempts_submitted_total", Help: "Scored test submissions",
	})
	AttemptsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studyhall", Name: "attempts_rejected_total", Help: "Submissions rejected by the attempt cap",
	})
	RenderFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studyhall", Name: "render_fallbacks_total", Help: "Lecture renders degraded to the fallback message",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "studyhall", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(AttemptsSubmitted, AttemptsRejected, RenderFallbacks, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
