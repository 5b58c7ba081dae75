// Package breezetest runs a fake Breeze instance for tests.
//
// The server listens on a local TLS port but is reachable through Client as
// https://demo.breezechms.com, so code under test can use a real-looking
// base URL that passes client validation.
package breezetest

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

const (
	// URL is the base URL to pass to breeze.New.
	URL = "https://demo.breezechms.com"
	// APIKey is the only key the server accepts.
	APIKey = "breezetest-key"

	invalidKeyBody = `{"errorCode":"401","errorMessage":"Invalid API key"}`
)

// Request is a request the server received.
type Request struct {
	Path   string
	Query  url.Values
	APIKey string
	// RequestID is the X-Request-Id header.
	RequestID string
}

// Server is a fake Breeze instance. Unregistered paths answer 404.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

// NewServer starts a server and stops it when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]http.HandlerFunc)}
	s.srv = httptest.NewTLSServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	return s
}

// Client returns an HTTP client that sends every request to this server,
// whatever host the URL names.
func (s *Server) Client() *http.Client {
	base := s.srv.Client().Transport.(*http.Transport).Clone()
	addr := s.srv.Listener.Addr().String()
	base.DialContext = func(ctx context.Context, network, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, addr)
	}
	// The test certificate is issued for example.com.
	base.TLSClientConfig = base.TLSClientConfig.Clone()
	if base.TLSClientConfig == nil {
		base.TLSClientConfig = &tls.Config{}
	}
	base.TLSClientConfig.ServerName = "example.com"
	return &http.Client{Transport: base}
}

// Handle registers h for path, replacing any earlier handler.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// HandleJSON answers path with body and status 200.
func (s *Server) HandleJSON(path, body string) {
	s.Handle(path, JSON(http.StatusOK, body))
}

// JSON returns a handler writing body with the given status.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// Sequence answers with each handler in turn, repeating the last one.
func Sequence(hs ...http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	n := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := hs[min(n, len(hs)-1)]
		n++
		mu.Unlock()
		h(w, r)
	}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests received for path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Api-Key")
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		APIKey:    key,
		RequestID: r.Header.Get("X-Request-Id"),
	})
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if key != APIKey {
		JSON(http.StatusOK, invalidKeyBody)(w, r)
		return
	}
	if !ok {
		JSON(http.StatusNotFound, `{"errors":["not found"]}`)(w, r)
		return
	}
	h(w, r)
}
