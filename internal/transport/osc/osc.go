/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package osc receives control messages over OSC/UDP and sends telemetry
// back the same way.
package osc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"slotdeck/internal/protocol"

	goosc "github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog"
)

// Receiver reads OSC packets and queues their messages in arrival order.
type Receiver struct {
	conn   net.PacketConn
	inbox  *protocol.Inbox
	logger zerolog.Logger
}

func Listen(addr string, inbox *protocol.Inbox, logger zerolog.Logger) (*Receiver, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("osc listen %s: %w", addr, err)
	}
	return &Receiver{conn: conn, inbox: inbox, logger: logger}, nil
}

func (r *Receiver) Addr() net.Addr { return r.conn.LocalAddr() }

// Serve blocks until ctx is done or the socket fails.
func (r *Receiver) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		r.conn.Close()
	}()

	r.logger.Info().Str("addr", r.conn.LocalAddr().String()).Msg("osc receiver started")
	buf := make([]byte, 65535)
	for {
		n, from, err := r.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("osc read: %w", err)
		}
		pkt, err := goosc.ParsePacket(string(buf[:n]))
		if err != nil {
			r.logger.Warn().Err(err).Str("from", from.String()).Msg("bad osc packet")
			continue
		}
		r.Dispatch(pkt)
	}
}

func (r *Receiver) Close() error { return r.conn.Close() }

// Dispatch queues every message of a packet. Bundles are flattened and
// delivered at once; time tags are ignored.
func (r *Receiver) Dispatch(pkt goosc.Packet) {
	switch p := pkt.(type) {
	case *goosc.Message:
		m := FromOSC(p)
		if !r.inbox.Push(m) {
			r.logger.Warn().Str("addr", m.Address).Uint64("drops", r.inbox.Drops()).Msg("inbox full, message dropped")
			return
		}
		r.logger.Debug().Str("msg", m.String()).Msg("osc in")
	case *goosc.Bundle:
		for _, m := range p.Messages {
			r.Dispatch(m)
		}
		for _, b := range p.Bundles {
			r.Dispatch(b)
		}
	}
}

// Sender sends telemetry to one OSC host.
type Sender struct {
	client *goosc.Client
}

func NewSender(host string, port int) *Sender {
	return &Sender{client: goosc.NewClient(host, port)}
}

func (s *Sender) Send(m protocol.Message) error {
	return s.client.Send(ToOSC(m))
}

// FromOSC converts the OSC argument types into their canonical form.
func FromOSC(m *goosc.Message) protocol.Message {
	return protocol.NewMessage(m.Address, m.Arguments...)
}

// ToOSC narrows canonical arguments to the OSC 1.0 types i, f and s.
func ToOSC(m protocol.Message) *goosc.Message {
	out := goosc.NewMessage(m.Address)
	for _, a := range m.Args {
		switch x := a.(type) {
		case int:
			out.Append(int32(x))
		case float64:
			out.Append(float32(x))
		default:
			out.Append(x)
		}
	}
	return out
}
