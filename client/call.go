package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kroma-labs/zswag-go/httpconf"
	"github.com/kroma-labs/zswag-go/openapi"
)

// Call invokes the named service method.
//
// request is the method's request object graph, from which declared
// parameters draw their values; requestData is its zserio serialization,
// used for whole-object parameters and as the request body when the
// operation declares one. The response body is returned raw; callers
// deserialize it into the method's response type.
//
// Call fails with ErrUnknownOperation for an undeclared method, with
// *ParameterError when a parameter cannot be resolved or encoded, with
// *SecurityError when no security alternative is satisfied (nothing is
// sent in that case), and with *HTTPError on an error status.
func (c *Client) Call(
	ctx context.Context,
	method string,
	request Object,
	requestData []byte,
) ([]byte, error) {
	op, ok := c.conf.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, method)
	}

	path := op.Path
	query := url.Values{}
	req := &Request{
		Method: op.HTTPMethod(),
		Header: make(http.Header),
	}

	for _, name := range sortedParameterNames(op.Parameters) {
		param := op.Parameters[name]

		value, err := c.resolveParameter(param, request, requestData)
		if err != nil {
			return nil, &ParameterError{
				Operation: method, Parameter: name, Field: param.Field, Err: err,
			}
		}

		pairs, err := param.Encode(value)
		if err != nil {
			return nil, &ParameterError{
				Operation: method, Parameter: name, Field: param.Field, Err: err,
			}
		}

		switch param.Location {
		case openapi.LocationPath:
			path = substitutePath(path, param.Ident, pairs[0].Value)
		case openapi.LocationHeader:
			req.Header.Set(param.Ident, pairs[0].Value)
		default:
			for _, pair := range pairs {
				query.Add(pair.Name, pair.Value)
			}
		}
	}

	// The endpoint URL rules match on excludes the query string.
	endpoint := joinURL(c.conf.BaseURL, path)
	conf := c.destinationConfig(endpoint)

	chosen, ok := openapi.Choose(c.operationSecurity(op), c.conf.SecuritySchemes, conf)
	if !ok {
		return nil, &SecurityError{Operation: method, Alternatives: c.operationSecurity(op)}
	}
	path = c.placeCredentials(chosen, conf, req, query, path)
	endpoint = joinURL(c.conf.BaseURL, path)

	// Configured query entries are defaults; parameters win.
	for name, value := range conf.Query {
		if !query.Has(name) {
			query.Set(name, value)
		}
	}

	req.URL = endpoint
	if len(query) > 0 {
		req.URL += "?" + query.Encode()
	}

	if op.BodyRequestObject && req.Method != http.MethodGet {
		req.Body = requestData
		req.Header.Set("Content-Type", openapi.ZserioObjectContentType)
	}

	// Destination configuration applies last so it overrides
	// request-local headers.
	if err := conf.Apply(req, c.secrets); err != nil {
		return nil, fmt.Errorf("operation %q: %w", method, err)
	}

	if c.debug {
		c.logRequest(method, req)
	}

	return c.dispatch(ctx, method, req)
}

// resolveParameter produces the parameter's value from the request
// object graph. The whole-object sentinel yields the serialized request.
// A failed field walk yields the absent value when the parameter has a
// default to fall back to.
func (c *Client) resolveParameter(
	param openapi.Parameter,
	request Object,
	requestData []byte,
) (openapi.Value, error) {
	if param.Field == "" || param.Field == openapi.RequestPartWhole {
		return openapi.Binary(requestData), nil
	}

	raw, err := resolveFieldPath(request, param.Field)
	if err != nil {
		if param.Default != "" {
			return openapi.Absent(), nil
		}
		return openapi.Value{}, err
	}
	return toValue(raw)
}

// operationSecurity returns the operation's requirement, falling back to
// the service-wide default.
func (c *Client) operationSecurity(op openapi.Operation) openapi.SecurityAlternatives {
	if op.Security != nil {
		return *op.Security
	}
	return c.conf.DefaultSecurity
}

// placeCredentials delivers the API key and bearer token demanded by the
// chosen schemes. Basic auth and cookies are carried by the destination
// configuration itself when it applies to the request.
func (c *Client) placeCredentials(
	chosen []openapi.SecurityScheme,
	conf httpconf.Config,
	req *Request,
	query url.Values,
	path string,
) string {
	for _, scheme := range chosen {
		switch scheme.Kind {
		case openapi.SchemeAPIKey:
			switch scheme.In {
			case openapi.LocationPath:
				// The key bypasses the encoder, so escape it here.
				path = substitutePath(path, scheme.Name, url.PathEscape(conf.APIKey))
			case openapi.LocationHeader:
				req.Header.Set(scheme.Name, conf.APIKey)
			default:
				query.Set(scheme.Name, conf.APIKey)
			}

		case openapi.SchemeBearer:
			// A configured Authorization header wins when the
			// destination configuration applies.
			if conf.APIKey != "" {
				req.Header.Set("Authorization", "Bearer "+conf.APIKey)
			}
		}
	}
	return path
}

// dispatch sends the assembled request with tracing and metrics around
// the transport.
func (c *Client) dispatch(ctx context.Context, method string, req *Request) ([]byte, error) {
	attrs := []attribute.KeyValue{
		attribute.String("rpc.method", method),
		attribute.String("http.request.method", req.Method),
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("url.full", req.URL))...),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	c.metrics.recordCallDuration(ctx, time.Since(start), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.recordCallError(ctx, "transport", attrs)
		return nil, fmt.Errorf("operation %q: %w", method, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.Body,
		}
		span.SetStatus(codes.Error, httpErr.Error())
		c.metrics.recordCallError(ctx, fmt.Sprintf("%d", resp.StatusCode), attrs)
		return nil, httpErr
	}

	c.metrics.recordResponseSize(ctx, int64(len(resp.Body)), attrs)
	return resp.Body, nil
}

// substitutePath replaces the named template slot with the composed
// fragment. The encoder percent-escapes path items before composition,
// so the fragment splices in verbatim with its style separators intact.
func substitutePath(path, name, fragment string) string {
	return strings.ReplaceAll(path, "{"+name+"}", fragment)
}

// joinURL appends the operation path to the service base with exactly
// one separating slash.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func sortedParameterNames(params map[string]openapi.Parameter) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
