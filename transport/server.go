// Package transport is the line-oriented TCP front of the chat server. It
// accepts connections, runs the per-connection handshake and command loop,
// and feeds parsed commands into the router and registries. Everything here
// is I/O glue; the delivery semantics live in services and runtime.
package transport

import (
	"chat-server/contract"
	"chat-server/domain"
	"chat-server/services"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Server is the accept-loop worker: one goroutine per connection, no global
// coordination beyond the registries. It implements contract.Worker so the
// supervisor owns its lifecycle and restarts it if the loop ever panics.
type Server struct {
	log         *slog.Logger
	addr        string
	maxSessions int

	auth     services.IAuthService
	sessions contract.ISessionRegistry
	groups   contract.IGroupRegistry
	router   contract.IRouter

	mu  sync.Mutex
	lis net.Listener
}

func NewServer(log *slog.Logger, addr string, maxSessions int,
	auth services.IAuthService, sessions contract.ISessionRegistry,
	groups contract.IGroupRegistry, router contract.IRouter) *Server {
	return &Server{
		log:         log,
		addr:        addr,
		maxSessions: maxSessions,
		auth:        auth,
		sessions:    sessions,
		groups:      groups,
		router:      router,
	}
}

// Addr reports the bound listen address, or nil before Run has bound it.
// Tests listen on ":0" and discover the port through this.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

func (s *Server) setListener(lis net.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lis = lis
}

func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.setListener(lis)

	// Closing the listener is the only way to interrupt Accept.
	go func() {
		<-ctx.Done()
		_ = lis.Close()
	}()

	s.log.Info("Chat server listening", "address", lis.Addr().String())

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}

		if s.maxSessions > 0 && s.sessions.Count() >= s.maxSessions {
			_, _ = io.WriteString(conn, domain.ServerFullLine)
			_ = conn.Close()
			s.log.Warn("Connection refused, session limit reached",
				"remote", conn.RemoteAddr().String(), "limit", s.maxSessions)
			continue
		}

		session := NewClientSession(s.log, conn, s.auth, s.sessions, s.groups, s.router)
		go session.Run()
	}
}
