package healthcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"
)

const (
	DefaultWebTimeout = 10 * time.Second
	maxBodySize       = 10 << 20
)

// Web checks an HTTP endpoint. A HEAD request is sent unless body patterns
// are configured, in which case the body is fetched with GET.
type Web struct {
	Target  string
	Timeout time.Duration
	Status  string
	Regex   []*regexp.Regexp

	client *http.Client
}

// NewWeb builds a web check, applying defaults for zero values. Patterns
// are compiled here so a bad expression fails at load time.
func NewWeb(target string, timeout time.Duration, status string, patterns []string) (*Web, error) {
	if timeout <= 0 {
		timeout = DefaultWebTimeout
	}
	if status == "" {
		status = DefaultStatus
	}

	regex := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile regex %q: %w", p, err)
		}
		regex = append(regex, re)
	}

	return &Web{
		Target:  target,
		Timeout: timeout,
		Status:  status,
		Regex:   regex,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (w *Web) Type() Type { return TypeWeb }

func (w *Web) sealed() {}

// httpClient tolerates a Web built as a literal rather than through NewWeb.
func (w *Web) httpClient() *http.Client {
	if w.client != nil {
		return w.client
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultWebTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (w *Web) target(name string) string {
	if w.Target != "" {
		return w.Target
	}
	return "http://" + name
}

func (w *Web) Run(ctx context.Context, name string, logger *slog.Logger) *Failure {
	target := w.target(name)

	method := http.MethodHead
	if len(w.Regex) > 0 {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return transportFailure(TypeWeb, target, err)
	}

	res, err := w.httpClient().Do(req)
	if err != nil {
		return transportFailure(TypeWeb, target, err)
	}
	defer res.Body.Close()

	status := w.Status
	if status == "" {
		status = DefaultStatus
	}

	ranges, errs := ParseStatus(status)
	for _, err := range errs {
		logger.Warn("Skipping malformed status clause",
			slog.String("target", target),
			slog.Any("err", err))
	}

	if !anyContains(ranges, res.StatusCode) {
		return &Failure{
			Check:  TypeWeb,
			Target: target,
			Kind:   KindStatus,
			Reason: fmt.Sprintf("status %d not in %q", res.StatusCode, status),
		}
	}

	if len(w.Regex) == 0 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return transportFailure(TypeWeb, target, err)
	}

	for _, re := range w.Regex {
		if re.Match(body) {
			return nil
		}
	}

	return &Failure{
		Check:  TypeWeb,
		Target: target,
		Kind:   KindContent,
		Reason: "body matched none of the configured patterns",
	}
}
