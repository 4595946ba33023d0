// Package server runs the raw TCP accept loop for Eirserver.
//
// Connections are served one at a time: accept, a single bounded read, hand
// the bytes to the Handler, write the reply, close. There is no keep-alive.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/eir"
)

// DefaultRecvBufferSize is the largest request read from a connection.
const DefaultRecvBufferSize = 4096

const (
	// drainTimeout bounds the wait for the client to finish sending an
	// oversized request after the reply went out.
	drainTimeout = 500 * time.Millisecond
	drainLimit   = 1 << 20
)

// Handler turns one raw request into a result.
type Handler interface {
	Handle(ctx context.Context, raw []byte, client string) eir.Result
}

type Config struct {
	Addr           string
	RecvBufferSize int
	// ReadTimeout bounds the wait for request bytes. Zero waits forever.
	ReadTimeout time.Duration
}

// Server is a sequential request/response loop over a TCP listener.
type Server struct {
	cfg     Config
	handler Handler
	log     *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

func New(cfg Config, handler Handler, log *slog.Logger) *Server {
	if cfg.RecvBufferSize <= 0 {
		cfg.RecvBufferSize = DefaultRecvBufferSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, handler: handler, log: log}
}

// Listen binds the configured address. Serve calls it when needed.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is canceled or a request asks for
// shutdown. Both end the loop with a nil error. A request already being
// handled always completes.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer func() { _ = ln.Close() }()

	s.log.Info("listening", "addr", ln.Addr().String())

	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			s.log.Error("accept connection", "error", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if s.serveConn(ctx, conn) {
			s.log.Info("shutdown requested")
			return nil
		}
	}
}

// serveConn handles one connection and reports whether shutdown was requested.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) bool {
	defer func() { _ = conn.Close() }()

	client := clientIP(conn.RemoteAddr())
	log := s.log.With("conn_id", uuid.NewString(), "client", client)

	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	buf := make([]byte, s.cfg.RecvBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil {
			log.Warn("read request", "error", err)
		} else {
			log.Warn("empty request")
		}
		return false
	}

	res := s.handler.Handle(context.WithoutCancel(ctx), buf[:n], client)
	if res.Shutdown {
		return true
	}

	if _, err := conn.Write(res.Response); err != nil {
		log.Error("send response", "error", err, "status", res.Status.Code)
		return false
	}

	// Unread input at close makes the kernel reset the connection, which can
	// discard the reply before the client reads it.
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	if n == len(buf) {
		drain(conn)
	}
	return false
}

// drain discards what is left of the request, up to drainLimit bytes or
// until drainTimeout passes.
func drain(conn net.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, drainLimit))
}

func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
