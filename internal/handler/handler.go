package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/dns-failover/internal/metrics"
)

// SnapshotSource is satisfied by *metrics.Collector.
type SnapshotSource interface {
	Snapshot() metrics.Snapshot
}

type StatusHandler struct {
	logger *slog.Logger
	source SnapshotSource
}

type recordView struct {
	Name string `json:"name"`
	metrics.RecordStatus
}

type statusResponse struct {
	UptimeSeconds float64      `json:"uptime_seconds"`
	Cycles        int64        `json:"cycles"`
	LastCycle     *time.Time   `json:"last_cycle,omitempty"`
	Records       []recordView `json:"records"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Debug("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	snap := h.source.Snapshot()

	resp := statusResponse{
		UptimeSeconds: snap.Uptime.Seconds(),
		Cycles:        snap.Cycles,
		Records:       make([]recordView, 0, len(snap.Names)),
	}
	if !snap.LastCycle.IsZero() {
		last := snap.LastCycle
		resp.LastCycle = &last
	}
	for _, name := range snap.Names {
		resp.Records = append(resp.Records, recordView{Name: name, RecordStatus: snap.Records[name]})
	}

	writeJSON(w, http.StatusOK, resp)
}

func NewStatusHandler(logger *slog.Logger, source SnapshotSource) *StatusHandler {
	return &StatusHandler{
		logger: logger,
		source: source,
	}
}

// HealthzHandler reports liveness of the failover loop. It turns
// unhealthy once a cycle has run and none has completed within maxAge.
type HealthzHandler struct {
	source SnapshotSource
	maxAge time.Duration
}

func (h *HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()

	if h.maxAge > 0 && !snap.LastCycle.IsZero() {
		if age := time.Since(snap.LastCycle); age > h.maxAge {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "stale",
				"since":  age.Round(time.Second).String(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func NewHealthzHandler(source SnapshotSource, maxAge time.Duration) *HealthzHandler {
	return &HealthzHandler{
		source: source,
		maxAge: maxAge,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
