package client

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/kroma-labs/zswag-go/httpconf"
)

// internalConfig holds the assembled client options.
type internalConfig struct {
	transport      Transport
	settings       *httpconf.Settings
	base           httpconf.Config
	secrets        httpconf.SecretLoader
	logger         zerolog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	debug          bool
}

func defaultInternalConfig() *internalConfig {
	return &internalConfig{
		transport:      NewHTTPTransport(DefaultConfig()),
		logger:         zerolog.Nop(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
}

// Option configures a Client.
type Option func(*internalConfig)

// WithTransport replaces the HTTP transport. Tests pass a MockTransport.
func WithTransport(t Transport) Option {
	return func(cfg *internalConfig) {
		cfg.transport = t
	}
}

// WithTransportConfig tunes the default HTTP transport.
func WithTransportConfig(tc Config) Option {
	return func(cfg *internalConfig) {
		cfg.transport = NewHTTPTransport(tc)
	}
}

// WithSettings attaches a per-destination settings store. Every call
// looks up its endpoint URL and applies the matching configuration.
func WithSettings(s *httpconf.Settings) Option {
	return func(cfg *internalConfig) {
		cfg.settings = s
	}
}

// WithHTTPConfig sets a base destination configuration applied to every
// call, before any settings-store match.
func WithHTTPConfig(conf httpconf.Config) Option {
	return func(cfg *internalConfig) {
		cfg.base = conf
	}
}

// WithSecrets attaches the loader resolving keychain references in
// destination configuration. Without one, configurations carrying
// keychain references fail the call.
func WithSecrets(secrets httpconf.SecretLoader) Option {
	return func(cfg *internalConfig) {
		cfg.secrets = secrets
	}
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.logger = l
	}
}

// WithTracerProvider enables tracing of calls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.tracerProvider = tp
	}
}

// WithMeterProvider enables call metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.meterProvider = mp
	}
}

// WithDebug logs a redacted dump of every assembled request at debug
// level before dispatch.
func WithDebug() Option {
	return func(cfg *internalConfig) {
		cfg.debug = true
	}
}
