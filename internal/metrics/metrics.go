package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "analyses_total", Help: "Symbol analyses completed, by outcome"},
		[]string{"analysis"},
	)
	AnalysisFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "analysis_failures_total", Help: "Symbol analyses aborted by an error"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted to the brokerage"},
		[]string{"symbol", "side"},
	)
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_failures_total", Help: "Orders rejected by the brokerage"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(AnalysesTotal, AnalysisFailures, OrdersTotal, OrderFailures)
}

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
