package bridge

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/logging"
)

// DefaultMaxBodySize is the default limit for decoded request bodies (1 MiB).
const DefaultMaxBodySize int64 = 1 << 20

// DefaultRequestIDHeader carries the request ID in both directions.
const DefaultRequestIDHeader = "X-Request-Id"

// Option is a functional option for configuring a Bridge.
type Option func(*config) error

type config struct {
	logger          logging.Logger
	maxBodySize     int64
	requestIDHeader string
	handlerTimeout  time.Duration

	limiter    *rate.Limiter
	registerer prometheus.Registerer
	namespace  string

	notFound http.Handler
}

func defaultConfig() *config {
	return &config{
		logger:          logging.NopLogger{},
		maxBodySize:     DefaultMaxBodySize,
		requestIDHeader: DefaultRequestIDHeader,
		namespace:       "apicontract",
	}
}

// WithLogger sets the logger. Default is logging.NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("bridge: logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// WithMaxBodySize limits the size of JSON request bodies. Default is
// DefaultMaxBodySize.
func WithMaxBodySize(size int64) Option {
	return func(c *config) error {
		if size <= 0 {
			return &contracterrors.ConfigError{Option: "maxBodySize", Value: size, Message: "must be positive"}
		}
		c.maxBodySize = size
		return nil
	}
}

// WithRateLimit limits accepted requests to rps per second with the given
// burst. Requests above the limit get 429 Too Many Requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) error {
		if rps <= 0 {
			return &contracterrors.ConfigError{Option: "rateLimit", Value: rps, Message: "must be positive"}
		}
		if burst <= 0 {
			return &contracterrors.ConfigError{Option: "rateBurst", Value: burst, Message: "must be positive"}
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) error {
		if reg == nil {
			return fmt.Errorf("bridge: metrics registerer cannot be nil")
		}
		c.registerer = reg
		return nil
	}
}

// WithMetricsNamespace sets the namespace of the request metrics.
// Default is "apicontract".
func WithMetricsNamespace(ns string) Option {
	return func(c *config) error {
		c.namespace = ns
		return nil
	}
}

// WithRequestIDHeader sets the header used to read and echo request IDs.
// Default is DefaultRequestIDHeader.
func WithRequestIDHeader(name string) Option {
	return func(c *config) error {
		if name == "" {
			return fmt.Errorf("bridge: request ID header cannot be empty")
		}
		c.requestIDHeader = http.CanonicalHeaderKey(name)
		return nil
	}
}

// WithHandlerTimeout bounds each handler invocation. Zero disables the
// timeout, which is the default.
func WithHandlerTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return &contracterrors.ConfigError{Option: "handlerTimeout", Value: d, Message: "cannot be negative"}
		}
		c.handlerTimeout = d
		return nil
	}
}

// WithNotFoundHandler serves requests that match no mounted contract.
// By default a JSON 404 error is written.
func WithNotFoundHandler(h http.Handler) Option {
	return func(c *config) error {
		c.notFound = h
		return nil
	}
}
