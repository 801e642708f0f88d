package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// MockTransport is a configurable Transport for testing. It allows
// stubbing responses and capturing the requests a client assembles.
type MockTransport struct {
	mu          sync.RWMutex
	stubs       []mockStub
	defaultResp *Response
	defaultErr  error
	requests    []*Request
}

type mockStub struct {
	matcher  func(*Request) bool
	response *Response
	err      error
}

// NewMockTransport creates a MockTransport for testing.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// StubResponse stubs all requests to return the given response.
func (m *MockTransport) StubResponse(statusCode int, body []byte) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = mockResponse(statusCode, body)
	return m
}

// StubError stubs all requests to return the given error.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
	return m
}

// StubFunc stubs requests matching the predicate to return the given
// response. Stubs match in order; first match wins.
func (m *MockTransport) StubFunc(
	matcher func(*Request) bool,
	statusCode int,
	body []byte,
) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{
		matcher:  matcher,
		response: mockResponse(statusCode, body),
	})
	return m
}

// Do records the request and returns the first matching stub.
func (m *MockTransport) Do(_ context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stubs {
		if s.matcher(req) {
			if s.err != nil {
				return nil, s.err
			}
			return s.response, nil
		}
	}

	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	if m.defaultResp != nil {
		return m.defaultResp, nil
	}

	return nil, errors.New("no stub found for request: " + req.Method + " " + req.URL)
}

// Requests returns all requests made through this transport.
func (m *MockTransport) Requests() []*Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Request{}, m.requests...)
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockTransport) LastRequest() *Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Reset clears all recorded requests and stubs.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.stubs = nil
	m.defaultResp = nil
	m.defaultErr = nil
}

func mockResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Header:     make(http.Header),
		Body:       body,
	}
}
