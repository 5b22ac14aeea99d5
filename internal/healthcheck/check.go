package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
)

type Type string

const (
	TypeWeb  Type = "web"
	TypePing Type = "ping"
	TypeTCP  Type = "tcp"
)

// Kind classifies why a check failed.
type Kind string

const (
	KindTransport  Kind = "transport"
	KindStatus     Kind = "status"
	KindContent    Kind = "content"
	KindPacketLoss Kind = "packet_loss"
	KindConnect    Kind = "connect"
)

// Check is one configured health check. Run returns nil when the check
// passes.
type Check interface {
	Type() Type
	Run(ctx context.Context, name string, logger *slog.Logger) *Failure

	sealed()
}

// Failure describes a failed check.
type Failure struct {
	Check  Type
	Target string
	Kind   Kind
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s check on %s failed (%s): %s", f.Check, f.Target, f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func transportFailure(check Type, target string, err error) *Failure {
	return &Failure{
		Check:  check,
		Target: target,
		Kind:   KindTransport,
		Reason: err.Error(),
		Err:    err,
	}
}
