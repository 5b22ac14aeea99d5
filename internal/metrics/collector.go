package metrics

import (
	"context"
	"log/slog"
	"time"
)

type Collector struct {
	eventCh chan Event
	done    chan struct{}
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		done:    make(chan struct{}),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit queues an event without blocking. Events are dropped when the
// buffer is full.
func (c *Collector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the collector has drained and stopped.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventCheckFailed:
		c.metrics.RecordCheckFailure(event.Name, event.Check, event.Kind, event.Reason)

	case EventFailureCounted:
		c.metrics.SetConsecutiveFailures(event.Name, event.Count)

	case EventNoZone:
		c.metrics.RecordSkip(event.Name, SkipNoZone)

	case EventNoLiveRecord:
		c.metrics.RecordSkip(event.Name, SkipNoLiveRecord)

	case EventNoCandidate:
		c.metrics.RecordSkip(event.Name, SkipNoCandidate)

	case EventRecordSwitched:
		c.metrics.RecordSwitch(event.Name, event.From, event.To, event.Timestamp)

	case EventCycleError:
		c.metrics.RecordError(event.Name, event.Err)

	case EventCycleCompleted:
		c.metrics.RecordCycle(event.Timestamp)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
