package hysteresis

// DefaultThreshold is the number of consecutive failed cycles that triggers
// a failover attempt.
const DefaultThreshold = 3

// Tracker is not safe for concurrent use. It belongs to the single
// goroutine that drives the failover cycles.
type Tracker struct {
	counts    map[string]int
	threshold int
}

func NewTracker(threshold int) *Tracker {
	if threshold < 1 {
		threshold = DefaultThreshold
	}

	return &Tracker{
		counts:    make(map[string]int),
		threshold: threshold,
	}
}

// Record folds one cycle's verdict into the count for name and returns the
// new count. Entries are created on a name's first failure.
func (t *Tracker) Record(name string, healthy bool) int {
	if healthy {
		if _, ok := t.counts[name]; ok {
			t.counts[name] = 0
		}
		return 0
	}

	t.counts[name]++
	return t.counts[name]
}

func (t *Tracker) ThresholdReached(name string) bool {
	return t.counts[name] >= t.threshold
}

func (t *Tracker) Reset(name string) {
	if _, ok := t.counts[name]; ok {
		t.counts[name] = 0
	}
}

func (t *Tracker) Count(name string) int {
	return t.counts[name]
}

func (t *Tracker) Threshold() int {
	return t.threshold
}

func (t *Tracker) Snapshot() map[string]int {
	stats := make(map[string]int, len(t.counts))
	for name, count := range t.counts {
		stats[name] = count
	}
	return stats
}
