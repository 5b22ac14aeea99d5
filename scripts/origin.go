// Origin is a demo HTTP origin for exercising DNS failover locally. Its
// health can be flipped at runtime so web checks start failing on demand.
//
// Usage:
//
//	go run origin.go -port 8081
//	go run origin.go -port 8081 -flap 45s
//	curl -X POST localhost:8081/toggle
//
// GET /health answers 200 "healthy" while up and 503 "unhealthy" while
// down. Every response carries the instance ID in X-Origin-Id.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

type origin struct {
	id      string
	healthy atomic.Bool
	logger  *slog.Logger
}

func (o *origin) toggle() bool {
	for {
		cur := o.healthy.Load()
		if o.healthy.CompareAndSwap(cur, !cur) {
			o.logger.Info("health toggled", slog.Bool("healthy", !cur))
			return !cur
		}
	}
}

func (o *origin) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Origin-Id", o.id)
		if !o.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	mux.HandleFunc("/toggle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("X-Origin-Id", o.id)
		fmt.Fprintf(w, "healthy=%t\n", o.toggle())
	})

	return mux
}

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	flap := flag.Duration("flap", 0, "toggle health on this period (0 disables)")
	flag.Parse()

	o := &origin{
		id:     uuid.NewString(),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	o.healthy.Store(true)
	o.logger = o.logger.With(slog.String("origin", o.id))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *flap > 0 {
		go func() {
			ticker := time.NewTicker(*flap)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					o.toggle()
				}
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           o.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	o.logger.Info("starting origin", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		o.logger.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
