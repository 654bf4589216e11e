// Package rpctest provides an in-process entitlement service for tests.
package rpctest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/ezrevenue/internal/rpc"
)

// Handler answers one verified call. A non-nil error becomes a 500 response.
type Handler func(method string, params json.RawMessage) (any, error)

// Call is a request the server accepted.
type Call struct {
	Method string
	Params json.RawMessage
	Nonce  string
}

// Server is a signed entitlement service running on httptest.
type Server struct {
	*httptest.Server

	codec   *rpc.Codec
	handler Handler

	mu    sync.Mutex
	calls []Call
}

// NewServer starts a server that verifies request tokens with codec, hands
// them to h and signs the result with codec. It is closed on test cleanup.
func NewServer(t testing.TB, codec *rpc.Codec, h Handler) *Server {
	t.Helper()
	s := &Server{codec: codec, handler: h}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims, err := s.codec.DecodeRequest(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/"+claims.Method) {
		http.Error(w, "method does not match path", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: claims.Method, Params: claims.Params, Nonce: claims.Nonce})
	s.mu.Unlock()

	result, err := s.handler(claims.Method, claims.Params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := s.codec.EncodeResponse(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, token)
}

// Calls returns a copy of the accepted calls in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts accepted calls of method.
func (s *Server) CallCount(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}
