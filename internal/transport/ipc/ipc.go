/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package ipc serves the line-oriented control socket used by slotctl.
//
// Read-only verbs (PING, ABOUT, WHOAMI, STATUS) are open to every
// connection. Lines starting with '/' are control messages: the first
// connection to send one owns the deck until it disconnects, and receives
// telemetry as EVENT lines.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"slotdeck/internal/protocol"
	"slotdeck/pkg/spec"

	"github.com/rs/zerolog"
)

const (
	writeTimeout = time.Second
	maxLine      = 64 * 1024
	outQueue     = 64
)

// ErrOwnerBacklog is returned by Send when the owner is not reading its
// events fast enough. The event is dropped.
var ErrOwnerBacklog = errors.New("ipc: owner backlog full")

// StatusFunc returns the value encoded as JSON for STATUS.
type StatusFunc func() any

type Server struct {
	ln     net.Listener
	inbox  *protocol.Inbox
	status StatusFunc
	logger zerolog.Logger

	mu    sync.Mutex
	owner *conn
	conns map[*conn]struct{}
}

// conn is one client. Its writer goroutine is the only one writing to c.
type conn struct {
	c    net.Conn
	out  chan string
	quit chan struct{} // closed when the reader is done
	done chan struct{} // closed when the writer is done
}

func newConn(c net.Conn) *conn {
	return &conn{
		c:    c,
		out:  make(chan string, outQueue),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Listen binds the unix socket at path, replacing a stale socket file.
func Listen(path string, inbox *protocol.Inbox, status StatusFunc, logger zerolog.Logger) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc listen %s: %w", path, err)
	}
	return &Server{
		ln:     ln,
		inbox:  inbox,
		status: status,
		logger: logger,
		conns:  make(map[*conn]struct{}),
	}, nil
}

func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts connections until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	s.logger.Info().Str("socket", s.ln.Addr().String()).Msg("ipc server started")
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn().Err(err).Msg("ipc accept")
			continue
		}
		cn := newConn(c)
		s.track(cn, true)
		go s.writeLoop(cn)
		go s.handleConn(cn)
	}
}

// Close stops accepting and drops every open connection.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	for cn := range s.conns {
		cn.c.Close()
	}
	s.mu.Unlock()
	return err
}

// Send queues telemetry for the owner, if any. It never waits on the
// socket: when the owner's queue is full the event is dropped.
func (s *Server) Send(m protocol.Message) error {
	s.mu.Lock()
	owner := s.owner
	s.mu.Unlock()
	if owner == nil {
		return nil
	}

	select {
	case owner.out <- "EVENT " + protocol.FormatLine(m):
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrOwnerBacklog, m.Address)
	}
}

func (s *Server) track(cn *conn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[cn] = struct{}{}
	} else {
		delete(s.conns, cn)
	}
}

// writeLoop drains cn.out. A failed write closes the socket, which ends
// the reader and releases ownership.
func (s *Server) writeLoop(cn *conn) {
	defer close(cn.done)
	for {
		select {
		case <-cn.quit:
			return
		case line := <-cn.out:
			cn.c.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := cn.c.Write([]byte(line + "\n")); err != nil {
				s.logger.Debug().Err(err).Str("peer", peer(cn.c)).Msg("ipc write")
				cn.c.Close()
				return
			}
		}
	}
}

func (s *Server) isOwner(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner == c
}

func (s *Server) claimOwner(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == nil {
		s.owner = c
		s.logger.Info().Str("peer", peer(c.c)).Msg("control claimed")
		return true
	}
	return s.owner == c
}

func (s *Server) release(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == c {
		s.owner = nil
		s.logger.Info().Str("peer", peer(c.c)).Msg("control released")
	}
}

func (s *Server) handleConn(c *conn) {
	defer func() {
		s.release(c)
		s.track(c, false)
		close(c.quit)
		c.c.Close()
	}()

	sc := bufio.NewScanner(c.c)
	sc.Buffer(make([]byte, 4096), maxLine)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.reply(c, s.handleLine(c, line))
	}
}

func (s *Server) handleLine(c *conn, line string) string {
	if strings.HasPrefix(line, "/") {
		return s.control(c, line)
	}

	switch strings.ToUpper(strings.Fields(line)[0]) {
	case "ABOUT":
		return fmt.Sprintf("%s V.%d.%d", spec.AppName, spec.VersionMajor, spec.VersionMinor)
	case "PING":
		return "PONG"
	case "WHOAMI":
		if s.isOwner(c) {
			return "OWNER"
		}
		return "OBSERVER"
	case "STATUS":
		if s.status == nil {
			return "ERR UNAVAILABLE"
		}
		j, err := json.Marshal(s.status())
		if err != nil {
			return "ERR " + err.Error()
		}
		return string(j)
	default:
		return "ERR UNKNOWN"
	}
}

func (s *Server) control(c *conn, line string) string {
	if !s.claimOwner(c) {
		return "ERR CONTROL_LOCKED"
	}

	m, err := protocol.ParseLine(line)
	if err != nil {
		return "ERR " + err.Error()
	}
	if _, err := protocol.Parse(m); err != nil {
		return "ERR " + err.Error()
	}
	if !s.inbox.Push(m) {
		s.logger.Warn().Str("addr", m.Address).Uint64("drops", s.inbox.Drops()).Msg("inbox full, message dropped")
		return "ERR INBOX_FULL"
	}
	s.logger.Debug().Str("msg", m.String()).Msg("ipc in")
	return "OK"
}

// reply waits for room in the queue; only the connection's own reader
// calls it.
func (s *Server) reply(c *conn, msg string) {
	select {
	case c.out <- msg:
	case <-c.done:
	}
}

func peer(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil && a.String() != "" {
		return a.String()
	}
	return fmt.Sprintf("%p", c)
}
