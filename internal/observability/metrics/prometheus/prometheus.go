package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var requestMetrics = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "request_duration_seconds",
		Help:    "Request durations by status and operation",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"status", "op"},
)

var probeMetrics = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "probe_duration_seconds",
		Help:    "Reachability probe durations by outcome",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(requestMetrics, probeMetrics)
}

func ObserveRequest(d time.Duration, status int, op string) {
	requestMetrics.With(
		prometheus.Labels{
			"status": fmt.Sprintf("%d", status),
			"op":     op,
		},
	).Observe(d.Seconds())
}

func ObserveProbe(d time.Duration, outcome string) {
	probeMetrics.With(prometheus.Labels{"outcome": outcome}).Observe(d.Seconds())
}

type Srv struct {
	srv *http.Server
}

func New(port int) *Srv {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Srv{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%v", port),
			Handler: mux,
		},
	}
}

func (s *Srv) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("Error shutting down metrics server", zap.Error(err))
		}
	}()

	zap.L().Info("Starting metrics server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Error("Metrics server error", zap.Error(err))
	}
}
