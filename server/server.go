// Package server exposes a router over the Redis serialization protocol.
package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/redcon"
	"go.uber.org/atomic"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
)

var ErrServerClosed = errors.New("server closed")

// Handler answers one command. The reply is written with redcon's WriteAny
// rules; a non-nil error is written as an error reply.
type Handler interface {
	Handle(connID string, args [][]byte) (interface{}, error)
}

type connContext struct {
	id string
}

type Server struct {
	addr    string
	handler Handler
	mon     *monitor.Monitor

	mu       sync.Mutex
	ln       net.Listener
	srv      *redcon.Server
	closed   bool
	clients  atomic.Int64
	accepted atomic.Int64
}

// New returns a server for addr. mon may be nil.
func New(addr string, h Handler, mon *monitor.Monitor) *Server {
	s := &Server{addr: addr, handler: h, mon: mon}
	s.srv = redcon.NewServerNetwork("tcp", addr, s.handle, s.accept, s.closedConn)
	return s
}

// Listen binds the listening socket without serving it yet.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Run listens, reports the outcome on errSignal and serves until ctx is done
// or Close is called.
func (s *Server) Run(ctx context.Context, errSignal chan error) {
	if err := s.Listen(); err != nil {
		errSignal <- err
		return
	}
	errSignal <- nil

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	logrus.Infof("listen on %s", s.Addr())
	if err := s.srv.Serve(s.ln); err != nil && !s.isClosed() {
		logrus.Errorf("serve: %v", err)
	}
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

func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.ln
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	if err := s.srv.Close(); err != nil {
		// Serve has not picked the listener up yet.
		return ln.Close()
	}
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Clients returns the number of open connections.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

// TotalConnections returns the number of connections accepted so far.
func (s *Server) TotalConnections() int64 {
	return s.accepted.Load()
}

func (s *Server) accept(conn redcon.Conn) bool {
	conn.SetContext(&connContext{id: uuid.NewV4().String()})
	n := s.clients.Inc()
	s.accepted.Inc()
	if s.mon != nil {
		s.mon.SetConnections(n)
	}
	return true
}

func (s *Server) closedConn(conn redcon.Conn, err error) {
	n := s.clients.Dec()
	if s.mon != nil {
		s.mon.SetConnections(n)
	}
	if err != nil {
		logrus.Debugf("connection %s closed: %v", conn.RemoteAddr(), err)
	}
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) > 0 && strings.EqualFold(string(cmd.Args[0]), "QUIT") {
		conn.WriteString("OK")
		conn.Close()
		return
	}

	var connID string
	if cc, ok := conn.Context().(*connContext); ok {
		connID = cc.id
	}

	reply, err := s.handler.Handle(connID, cmd.Args)
	if err != nil {
		conn.WriteError("ERR " + err.Error())
		return
	}
	conn.WriteAny(reply)
}
