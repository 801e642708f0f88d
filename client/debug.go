package client

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// sensitiveHeaders never appear verbatim in debug dumps.
var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Proxy-Authorization",
}

// requestDump is the debug-log form of an assembled request.
type requestDump struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	BodySize int               `json:"bodySize,omitempty"`
	Proxy    string            `json:"proxy,omitempty"`
}

// logRequest logs a redacted dump of the assembled request.
func (c *Client) logRequest(method string, req *Request) {
	dump := requestDump{
		Method:   req.Method,
		URL:      req.URL,
		Headers:  redactHeaders(req.Header),
		BodySize: len(req.Body),
	}
	if req.ProxyURL != nil {
		proxy := *req.ProxyURL
		proxy.User = nil
		dump.Proxy = proxy.String()
	}

	raw, err := json.Marshal(dump)
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", method).
			Msg("failed to serialize request dump")
		return
	}

	c.logger.Debug().Str("operation", method).
		RawJSON("request", raw).
		Msg("assembled request")
}

func redactHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSensitiveHeader(name) {
			out[name] = "<redacted>"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isSensitiveHeader(name string) bool {
	for _, s := range sensitiveHeaders {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
