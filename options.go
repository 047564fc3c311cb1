package tabprep

import (
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	addrs         []string
	password      string
	keyPrefix     string
	reportTTL     time.Duration
	nullThreshold float64
	corrThreshold float64
	logger        *zap.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithValkey connects to a Valkey deployment.
func WithValkey(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithRedis connects to a Redis deployment. Valkey and Redis share the
// same client; the two options exist for call-site clarity.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithKeyPrefix overrides the storage key prefix (default "tabprep:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithReportTTL sets an expiry on stored reports (default: never expire).
func WithReportTTL(ttl time.Duration) Option {
	return func(c *clientConfig) { c.reportTTL = ttl }
}

// WithThresholds overrides the default null and correlation thresholds.
func WithThresholds(null, corr float64) Option {
	return func(c *clientConfig) {
		c.nullThreshold = null
		c.corrThreshold = corr
	}
}

// WithLogger sets the logger (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
