// Package metrics carries failover observability events from the engine to
// Prometheus collectors and a per-record status snapshot.
//
// Producers depend only on the Sink interface. The Collector is the
// production sink: events are sent over a buffered channel with
// non-blocking semantics and processed on a dedicated goroutine, so a slow
// scrape never stalls a failover cycle.
//
// Example usage:
//
//	collector := metrics.NewCollector(256, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.Event{
//		Type:  metrics.EventFailureCounted,
//		Name:  "www.example.com",
//		Count: 2,
//	})
//
//	snapshot := collector.Snapshot()
//
// On shutdown the collector drains buffered events before returning.
package metrics
