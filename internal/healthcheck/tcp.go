package healthcheck

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"
)

const (
	DefaultTCPPort    = 80
	DefaultTCPTimeout = 2 * time.Second
)

// TCPConnect passes when a TCP handshake to Target:Port completes within
// Timeout.
type TCPConnect struct {
	Target  string
	Port    int
	Timeout time.Duration
}

func NewTCPConnect(target string, port int, timeout time.Duration) *TCPConnect {
	if port <= 0 {
		port = DefaultTCPPort
	}
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}

	return &TCPConnect{
		Target:  target,
		Port:    port,
		Timeout: timeout,
	}
}

func (t *TCPConnect) Type() Type { return TypeTCP }

func (t *TCPConnect) sealed() {}

func (t *TCPConnect) Run(ctx context.Context, name string, logger *slog.Logger) *Failure {
	host := t.Target
	if host == "" {
		host = name
	}
	addr := net.JoinHostPort(host, strconv.Itoa(t.Port))

	dialer := net.Dialer{Timeout: t.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &Failure{
			Check:  TypeTCP,
			Target: addr,
			Kind:   KindConnect,
			Reason: err.Error(),
			Err:    err,
		}
	}
	conn.Close()

	logger.Debug("TCP connect succeeded", slog.String("target", addr))
	return nil
}
