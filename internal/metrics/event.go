package metrics

import "time"

type EventType string

const (
	EventCheckFailed    EventType = "check_failed"
	EventFailureCounted EventType = "failure_counted"
	EventNoZone         EventType = "no_zone"
	EventNoLiveRecord   EventType = "no_live_record"
	EventNoCandidate    EventType = "no_candidate"
	EventRecordSwitched EventType = "record_switched"
	EventCycleError     EventType = "cycle_error"
	EventCycleCompleted EventType = "cycle_completed"
)

// Event is one observable step of a failover cycle. Only the fields
// relevant to Type are set.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Name      string
	Check     string
	Target    string
	Kind      string
	Reason    string
	Count     int
	From      string
	To        string
	Err       error
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(event Event)
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard is a Sink that drops every event.
var Discard Sink = discard{}
