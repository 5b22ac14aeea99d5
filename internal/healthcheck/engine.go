package healthcheck

import (
	"context"
	"log/slog"

	"github.com/angeloszaimis/dns-failover/internal/metrics"
)

// Verdict is the outcome of one evaluation. Failure is the first failing
// check, nil when Healthy.
type Verdict struct {
	Healthy bool
	Failure *Failure
}

type Engine struct {
	logger *slog.Logger
	sink   metrics.Sink
}

func NewEngine(logger *slog.Logger, sink metrics.Sink) *Engine {
	if sink == nil {
		sink = metrics.Discard
	}

	return &Engine{
		logger: logger,
		sink:   sink,
	}
}

// Evaluate runs the checks in order and stops at the first failure.
// An empty check list is healthy.
func (e *Engine) Evaluate(ctx context.Context, name string, checks []Check) Verdict {
	for _, check := range checks {
		failure := check.Run(ctx, name, e.logger)
		if failure != nil {
			e.logger.Info("Check failed",
				slog.String("name", name),
				slog.String("check", string(failure.Check)),
				slog.String("target", failure.Target),
				slog.String("kind", string(failure.Kind)),
				slog.String("reason", failure.Reason))

			e.sink.Emit(metrics.Event{
				Type:   metrics.EventCheckFailed,
				Name:   name,
				Check:  string(failure.Check),
				Target: failure.Target,
				Kind:   string(failure.Kind),
				Reason: failure.Reason,
			})

			return Verdict{Failure: failure}
		}

		e.logger.Debug("Check passed",
			slog.String("name", name),
			slog.String("check", string(check.Type())))
	}

	return Verdict{Healthy: true}
}
