package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/kroma-labs/zswag-go/httpconf"
)

// Request is the transport-ready description of one outgoing call.
type Request struct {
	// Method is the HTTP method.
	Method string

	// URL is the complete request URL, query string included.
	URL string

	// Header holds the request headers.
	Header http.Header

	// Body is the request body; nil for body-less requests.
	Body []byte

	// ProxyURL routes the request through a proxy when non-nil,
	// carrying proxy basic-auth credentials in its user info.
	ProxyURL *url.URL
}

// Request satisfies httpconf.RequestBuilder so destination configuration
// applies directly onto it.
var _ httpconf.RequestBuilder = (*Request)(nil)

// SetHeader sets a header, replacing any request-local value of the name.
func (r *Request) SetHeader(name, value string) {
	r.Header.Set(name, value)
}

// SetProxy routes the request through the given proxy with optional
// basic-auth credentials.
func (r *Request) SetProxy(host string, port int, user, password string) {
	u := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	r.ProxyURL = u
}

// Response is the transport's view of an HTTP response, with the body
// fully read.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status line text.
	Status string

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte
}

// Transport dispatches transport-ready requests. The default
// implementation is HTTPTransport; tests use MockTransport.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Config holds the HTTP transport tuning parameters.
// Use DefaultConfig() as a starting point and adjust as needed.
type Config struct {
	// Timeout limits the entire request lifecycle including connection
	// establishment and body download. Zero means no timeout.
	//
	// Default: 15s
	Timeout time.Duration

	// MaxIdleConns caps idle keep-alive connections across all hosts.
	//
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections per host.
	//
	// Default: 20
	MaxIdleConnsPerHost int

	// MaxConnsPerHost caps total connections per host; zero means
	// unlimited.
	//
	// Default: 100
	MaxConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays pooled.
	//
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake.
	//
	// Default: 10s
	TLSHandshakeTimeout time.Duration

	// DialTimeout bounds TCP connection establishment.
	//
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive is the TCP keep-alive probe interval.
	//
	// Default: 30s
	KeepAlive time.Duration

	// DisableCompression leaves response decompression to the caller.
	// Zserio payloads are binary and rarely benefit from gzip.
	//
	// Default: true
	DisableCompression bool

	// TLSConfig overrides the TLS configuration, e.g. for custom roots
	// or client certificates. Nil uses the defaults.
	TLSConfig *tls.Config
}

// DefaultConfig returns balanced transport settings suitable for typical
// service communication.
func DefaultConfig() Config {
	return Config{
		Timeout:             15 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		DisableCompression:  true,
	}
}

// HTTPTransport dispatches requests over net/http. Requests without a
// proxy use a shared pooled transport reading proxy settings from the
// environment; per-destination proxies get a derived transport, cached
// per proxy URL.
type HTTPTransport struct {
	config Config
	base   *http.Transport

	mu      sync.Mutex
	proxied map[string]*http.Transport
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates an HTTPTransport from the given tuning.
func NewHTTPTransport(cfg Config) *HTTPTransport {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		DisableCompression:  cfg.DisableCompression,
		TLSClientConfig:     cfg.TLSConfig,
	}

	return &HTTPTransport{
		config:  cfg,
		base:    base,
		proxied: make(map[string]*http.Transport),
	}
}

// Do sends the request and reads the whole response body.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for name, values := range req.Header {
		httpReq.Header[name] = values
	}

	httpClient := &http.Client{
		Transport: t.transportFor(req.ProxyURL),
		Timeout:   t.config.Timeout,
	}

	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// transportFor returns the shared transport, or a cached clone wired to
// the request's proxy.
func (t *HTTPTransport) transportFor(proxyURL *url.URL) *http.Transport {
	if proxyURL == nil {
		return t.base
	}

	key := proxyURL.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if cached, ok := t.proxied[key]; ok {
		return cached
	}

	derived := t.base.Clone()
	derived.Proxy = http.ProxyURL(proxyURL)
	t.proxied[key] = derived
	return derived
}
