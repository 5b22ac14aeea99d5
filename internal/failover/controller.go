package failover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/dns-failover/internal/healthcheck"
	"github.com/angeloszaimis/dns-failover/internal/hysteresis"
	"github.com/angeloszaimis/dns-failover/internal/metrics"
	"github.com/angeloszaimis/dns-failover/internal/record"
	"github.com/angeloszaimis/dns-failover/internal/strategy"
)

// Evaluator reduces a record's checks to a verdict.
type Evaluator interface {
	Evaluate(ctx context.Context, name string, checks []healthcheck.Check) healthcheck.Verdict
}

type Controller struct {
	logger    *slog.Logger
	evaluator Evaluator
	tracker   *hysteresis.Tracker
	strategy  strategy.Strategy
	directory Directory
	sink      metrics.Sink
}

func NewController(
	logger *slog.Logger,
	evaluator Evaluator,
	tracker *hysteresis.Tracker,
	strat strategy.Strategy,
	directory Directory,
	sink metrics.Sink,
) *Controller {
	if sink == nil {
		sink = metrics.Discard
	}

	return &Controller{
		logger:    logger,
		evaluator: evaluator,
		tracker:   tracker,
		strategy:  strat,
		directory: directory,
		sink:      sink,
	}
}

// Tracker exposes the failure counts owned by this controller.
func (c *Controller) Tracker() *hysteresis.Tracker {
	return c.tracker
}

// Run executes a cycle, waits interval, and repeats until ctx is done. The
// wait starts after a cycle returns, so cycles never overlap.
func (c *Controller) Run(ctx context.Context, specs []record.Spec, interval time.Duration) {
	for {
		c.RunCycle(ctx, specs)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("Failover loop stopped")
			return
		case <-timer.C:
		}
	}
}

// RunCycle processes every record once. Errors are logged and emitted per
// record; they never stop the remaining records.
func (c *Controller) RunCycle(ctx context.Context, specs []record.Spec) {
	log := c.logger.With(slog.String("cycle", uuid.NewString()))
	start := time.Now()

	for _, spec := range specs {
		if ctx.Err() != nil {
			log.Info("Cycle interrupted", slog.Any("err", ctx.Err()))
			return
		}

		if err := c.processIsolated(ctx, log, spec); err != nil {
			log.Error("Record processing failed",
				slog.String("name", spec.Name()),
				slog.Any("err", err))

			c.sink.Emit(metrics.Event{
				Type: metrics.EventCycleError,
				Name: spec.Name(),
				Err:  err,
			})
		}
	}

	log.Debug("Cycle completed",
		slog.Int("records", len(specs)),
		slog.Duration("took", time.Since(start)))
	c.sink.Emit(metrics.Event{Type: metrics.EventCycleCompleted})
}

// ProcessRecord runs one record's cycle: evaluate, count, and fail over
// when the threshold is reached.
func (c *Controller) ProcessRecord(ctx context.Context, spec record.Spec) error {
	return c.process(ctx, c.logger, spec)
}

func (c *Controller) processIsolated(ctx context.Context, log *slog.Logger, spec record.Spec) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing %s: %v", spec.Name(), r)
		}
	}()

	return c.process(ctx, log, spec)
}

func (c *Controller) process(ctx context.Context, log *slog.Logger, spec record.Spec) error {
	name := spec.Name()

	verdict := c.evaluator.Evaluate(ctx, name, spec.Checks)
	count := c.tracker.Record(name, verdict.Healthy)

	c.sink.Emit(metrics.Event{
		Type:  metrics.EventFailureCounted,
		Name:  name,
		Count: count,
	})

	if !verdict.Healthy {
		log.Debug("Check failed, counting",
			slog.String("name", name),
			slog.Int("count", count),
			slog.Int("threshold", c.tracker.Threshold()))
	}

	if !c.tracker.ThresholdReached(name) {
		return nil
	}

	return c.failover(ctx, log, spec)
}

func (c *Controller) failover(ctx context.Context, log *slog.Logger, spec record.Spec) error {
	name := spec.Name()

	zoneID, found, err := c.directory.LookupZone(ctx, spec.Zone())
	if err != nil {
		return &ProviderError{Op: "lookup zone", Name: name, Err: err}
	}
	if !found {
		log.Warn("Zone not found", slog.String("name", name), slog.String("zone", spec.Zone()))
		c.sink.Emit(metrics.Event{Type: metrics.EventNoZone, Name: name})
		return nil
	}

	current, found, err := c.currentRecord(ctx, zoneID, name)
	if err != nil {
		return err
	}
	if !found {
		log.Warn("No A/AAAA/CNAME DNS records found", slog.String("name", name))
		c.sink.Emit(metrics.Event{Type: metrics.EventNoLiveRecord, Name: name})
		return nil
	}

	chosen, ok := c.strategy.Choose(spec.Pool, current.Type, current.Content)
	if !ok {
		log.Warn("No available pool entry",
			slog.String("name", name),
			slog.String("current", current.String()))
		c.sink.Emit(metrics.Event{
			Type: metrics.EventNoCandidate,
			Name: name,
			From: current.String(),
		})
		return nil
	}

	update := record.Update{
		RecordID: current.ID,
		Type:     chosen.Type,
		Name:     name,
		Content:  chosen.Content,
		Proxied:  chosen.Proxied,
		TTL:      record.MinTTL,
	}

	if err := c.directory.UpdateRecord(ctx, zoneID, update); err != nil {
		return &ProviderError{Op: "update record", Name: name, Err: err}
	}

	c.tracker.Reset(name)

	log.Info("Changed DNS record",
		slog.String("name", name),
		slog.String("from", current.String()),
		slog.String("to", chosen.String()))

	c.sink.Emit(metrics.Event{
		Type: metrics.EventRecordSwitched,
		Name: name,
		From: current.String(),
		To:   chosen.String(),
	})

	return nil
}

// currentRecord returns the first live record for name, trying types in
// record.LookupOrder.
func (c *Controller) currentRecord(ctx context.Context, zoneID, name string) (record.Live, bool, error) {
	for _, recordType := range record.LookupOrder {
		records, err := c.directory.ListRecords(ctx, zoneID, recordType, name)
		if err != nil {
			return record.Live{}, false, &ProviderError{Op: "list " + recordType + " records", Name: name, Err: err}
		}

		if len(records) > 0 {
			live := records[0]
			live.Type = strings.ToUpper(live.Type)
			return live, true, nil
		}
	}

	return record.Live{}, false, nil
}
