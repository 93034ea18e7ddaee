// Package marketdata talks to the external price, market-cap and asset-list
// feeds. Every request is throttled by a token bucket and guarded by a
// per-provider circuit breaker.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/MikeSquared-Agency/Allocator/internal/metrics"
)

var (
	// ErrUpstreamUnavailable wraps every failure to get a usable answer
	// from a provider: transport errors, 4xx/5xx, open breakers.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound is returned when a provider answers 404 or a ticker
	// cannot be resolved to a coin.
	ErrNotFound = errors.New("not found")
)

const maxBodyBytes = 16 << 20

type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Logger            *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Burst <= 0 {
		o.Burst = 10
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type upstream struct {
	name       string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

func newUpstream(name, baseURL string, headers map[string]string, opts Options) *upstream {
	opts = opts.withDefaults()
	logger := opts.Logger.With("provider", name)

	st := gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
		},
	}

	return &upstream{
		name:       name,
		baseURL:    baseURL,
		headers:    headers,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker:    gobreaker.NewCircuitBreaker(st),
		logger:     logger,
	}
}

// get returns the raw body of a successful GET.
func (u *upstream) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequests.WithLabelValues(u.name, "throttled").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, u.name, err)
	}

	out, err := u.breaker.Execute(func() (interface{}, error) {
		return u.do(ctx, path, query)
	})
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = "open"
			err = fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, u.name, err)
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		}
		metrics.UpstreamRequests.WithLabelValues(u.name, outcome).Inc()
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(u.name, "ok").Inc()
	return out.([]byte), nil
}

func (u *upstream) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := u.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", u.name, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range u.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s GET %s: %v", ErrUpstreamUnavailable, u.name, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s GET %s: read body: %v", ErrUpstreamUnavailable, u.name, path, err)
	}
	u.logger.Debug("upstream request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s GET %s: %w", u.name, path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s GET %s: %d %s", ErrUpstreamUnavailable, u.name, path, resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
