package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

const (
	DefaultLossThreshold = 0.8
	DefaultPingCount     = 5
	pingInterval         = time.Second
)

// Pinger sends count echo requests to host and reports the packet loss
// ratio in [0, 1].
type Pinger interface {
	Ping(ctx context.Context, host string, count int, privileged bool) (float64, error)
}

// Ping fails when packets were lost and the loss ratio meets or exceeds
// LossThreshold.
type Ping struct {
	Target        string
	LossThreshold float64
	Count         int
	Privileged    bool

	pinger Pinger
}

// NewPing uses lossThreshold as given. Zero fails on any lost packet.
func NewPing(target string, lossThreshold float64, privileged bool) *Ping {
	return &Ping{
		Target:        target,
		LossThreshold: lossThreshold,
		Count:         DefaultPingCount,
		Privileged:    privileged,
		pinger:        ICMPPinger{},
	}
}

// WithPinger swaps the echo implementation.
func (p *Ping) WithPinger(pinger Pinger) *Ping {
	p.pinger = pinger
	return p
}

func (p *Ping) Type() Type { return TypePing }

func (p *Ping) sealed() {}

func (p *Ping) Run(ctx context.Context, name string, logger *slog.Logger) *Failure {
	host := p.Target
	if host == "" {
		host = name
	}

	pinger := p.pinger
	if pinger == nil {
		pinger = ICMPPinger{}
	}
	count := p.Count
	if count <= 0 {
		count = DefaultPingCount
	}

	loss, err := pinger.Ping(ctx, host, count, p.Privileged)
	if err != nil {
		return transportFailure(TypePing, host, err)
	}

	logger.Debug("Ping finished",
		slog.String("target", host),
		slog.Float64("loss", loss))

	if loss > 0 && loss >= p.LossThreshold {
		return &Failure{
			Check:  TypePing,
			Target: host,
			Kind:   KindPacketLoss,
			Reason: fmt.Sprintf("%.0f%% packet loss (threshold %.0f%%)", loss*100, p.LossThreshold*100),
		}
	}

	return nil
}

// ICMPPinger is the production Pinger.
type ICMPPinger struct{}

func (ICMPPinger) Ping(ctx context.Context, host string, count int, privileged bool) (float64, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return 0, err
	}

	pinger.Count = count
	pinger.Interval = pingInterval
	pinger.Timeout = time.Duration(count)*pingInterval + 2*time.Second
	pinger.SetPrivileged(privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, err
	}

	stats := pinger.Statistics()
	return stats.PacketLoss / 100, nil
}
