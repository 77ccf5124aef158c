// Package testutil provides helpers for answer API client tests.
package testutil

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

// Server is a local HTTP server that client tests point their baseURL
// at, so request shape and payload mapping can be asserted without
// touching a real API.
type Server struct {
	URL       string
	listener  net.Listener
	server    *http.Server
	closeOnce sync.Once
}

// Close shuts the server down. Safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if s.server != nil {
			_ = s.server.Close()
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
}

// NewIPv4Server starts a server on a 127.0.0.1 loopback port and
// registers cleanup with t. Tests skip when the runtime cannot bind
// local sockets.
func NewIPv4Server(t testing.TB, handler http.Handler) *Server {
	t.Helper()

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping: cannot bind local tcp4 listener: %v", err)
		return nil
	}

	s := &Server{
		URL: "http://" + listener.Addr().String(),
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
	}

	go func() {
		_ = s.server.Serve(listener)
	}()

	t.Cleanup(s.Close)
	return s
}
