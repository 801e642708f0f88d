package client

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/kroma-labs/zswag-go/httpconf"
	"github.com/kroma-labs/zswag-go/openapi"
)

const (
	tracerName = "github.com/kroma-labs/zswag-go/client"
	meterName  = "github.com/kroma-labs/zswag-go/client"
)

// Client turns service method invocations into HTTP requests according
// to an openapi.Config binding.
//
// Example:
//
//	conf := openapi.Config{
//		BaseURL: "https://api.example.com/v1",
//		Methods: map[string]openapi.Operation{
//			"getTile": {
//				Method: http.MethodGet,
//				Path:   "/tiles/{tileId}",
//				Parameters: map[string]openapi.Parameter{
//					"tileId": {Location: openapi.LocationPath, Ident: "tileId", Field: "tileId"},
//				},
//			},
//		},
//	}
//
//	c, err := client.New(conf,
//		client.WithSettings(httpconf.NewSettingsFromEnv()),
//		client.WithSecrets(secret.New()),
//	)
//	if err != nil {
//		return err
//	}
//	respData, err := c.Call(ctx, "getTile", req, reqData)
type Client struct {
	conf      openapi.Config
	transport Transport
	settings  *httpconf.Settings
	base      httpconf.Config
	secrets   httpconf.SecretLoader
	logger    zerolog.Logger
	tracer    trace.Tracer
	metrics   *callMetrics
	debug     bool
}

// New creates a Client for the given service binding.
func New(conf openapi.Config, opts ...Option) (*Client, error) {
	cfg := defaultInternalConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	m, err := newCallMetrics(cfg.meterProvider.Meter(meterName))
	if err != nil {
		return nil, err
	}

	return &Client{
		conf:      conf,
		transport: cfg.transport,
		settings:  cfg.settings,
		base:      cfg.base,
		secrets:   cfg.secrets,
		logger:    cfg.logger,
		tracer:    cfg.tracerProvider.Tracer(tracerName),
		metrics:   m,
		debug:     cfg.debug,
	}, nil
}

// Operations returns the names of the service methods the binding
// declares, in no particular order.
func (c *Client) Operations() []string {
	out := make([]string, 0, len(c.conf.Methods))
	for name := range c.conf.Methods {
		out = append(out, name)
	}
	return out
}

// destinationConfig returns the effective configuration for an endpoint
// URL: the client's base configuration merged with every matching
// settings rule.
func (c *Client) destinationConfig(endpoint string) httpconf.Config {
	if c.settings == nil {
		return c.base
	}
	return httpconf.Merge(c.base, c.settings.Lookup(endpoint))
}
