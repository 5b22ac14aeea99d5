package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/dns-failover/internal/handler"
	"github.com/angeloszaimis/dns-failover/internal/metrics"
)

func setupRouter(log *slog.Logger, collector *metrics.Collector, staleAfter time.Duration) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/status", handler.NewStatusHandler(log, collector))
	mux.Handle("/healthz", handler.NewHealthzHandler(collector, staleAfter))

	return mux
}
