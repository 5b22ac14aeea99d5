// Package hysteresis counts consecutive failed evaluation cycles per name
// and decides when a failover attempt is due.
//
// A passing cycle resets the count to zero. A failing cycle increments it
// without an upper bound, so a name whose failover is blocked stays above
// the threshold and is retried every cycle.
//
// Usage:
//
//	tracker := hysteresis.NewTracker(hysteresis.DefaultThreshold)
//	tracker.Record("www.example.com", healthy)
//	if tracker.ThresholdReached("www.example.com") {
//	    // attempt failover, then on success:
//	    tracker.Reset("www.example.com")
//	}
package hysteresis
