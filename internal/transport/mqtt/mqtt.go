/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package mqtt bridges the deck to an MQTT broker: control messages arrive
// on one topic, telemetry is published on another.
//
// Payloads are JSON objects of the form
//
//	{"address": "/play", "args": [3, 1.5]}
//
// A payload that starts with '/' is read as a text line instead.
package mqtt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"slotdeck/internal/protocol"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const connectTimeout = 5 * time.Second

var ErrNotConnected = errors.New("mqtt not connected")

type Config struct {
	Broker         string // host:port or a full tcp:// URL
	ClientID       string
	ControlTopic   string
	TelemetryTopic string
	QoS            byte
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

type Bridge struct {
	cfg    Config
	inbox  *protocol.Inbox
	logger zerolog.Logger

	client paho.Client
	pub    publisher

	mu        sync.RWMutex
	connected bool
	published uint64
	errors    uint64
}

func New(cfg Config, inbox *protocol.Inbox, logger zerolog.Logger) *Bridge {
	return &Bridge{cfg: cfg, inbox: inbox, logger: logger}
}

// Connect dials the broker and subscribes to the control topic. The
// subscription is renewed on every reconnect.
func (b *Bridge) Connect(ctx context.Context) error {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL(b.cfg.Broker))
	opts.SetClientID(b.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c paho.Client) {
		b.setConnected(true)
		b.logger.Info().Str("broker", b.cfg.Broker).Str("client_id", b.cfg.ClientID).Msg("mqtt connected")
		if b.cfg.ControlTopic == "" {
			return
		}
		token := c.Subscribe(b.cfg.ControlTopic, b.cfg.QoS, b.handle)
		if !token.WaitTimeout(connectTimeout) {
			b.logger.Error().Str("topic", b.cfg.ControlTopic).Msg("mqtt subscribe timeout")
			return
		}
		if err := token.Error(); err != nil {
			b.logger.Error().Err(err).Str("topic", b.cfg.ControlTopic).Msg("mqtt subscribe failed")
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		b.setConnected(false)
		b.logger.Warn().Err(err).Str("broker", b.cfg.Broker).Msg("mqtt connection lost, will auto-reconnect")
	}

	b.client = paho.NewClient(opts)
	b.pub = b.client

	b.logger.Info().Str("broker", b.cfg.Broker).Msg("connecting to mqtt broker")
	token := b.client.Connect()
	select {
	case <-token.Done():
	case <-time.After(connectTimeout):
		return b.abort(fmt.Errorf("mqtt connect %s: timeout", b.cfg.Broker))
	case <-ctx.Done():
		return b.abort(ctx.Err())
	}
	if err := token.Error(); err != nil {
		return b.abort(fmt.Errorf("mqtt connect %s: %w", b.cfg.Broker, err))
	}
	b.setConnected(true)
	return nil
}

// abort stops the client's connect retries after a failed Connect.
func (b *Bridge) abort(err error) error {
	b.client.Disconnect(0)
	b.client = nil
	b.pub = nil
	b.setConnected(false)
	return err
}

// Send publishes telemetry without waiting for the broker. Only errors the
// client reports straight away are returned.
func (b *Bridge) Send(m protocol.Message) error {
	if b.cfg.TelemetryTopic == "" {
		return nil
	}
	if !b.isConnected() || b.pub == nil {
		b.countError()
		return ErrNotConnected
	}
	payload, err := Encode(m)
	if err != nil {
		b.countError()
		return err
	}

	token := b.pub.Publish(b.cfg.TelemetryTopic, b.cfg.QoS, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			b.countError()
			return fmt.Errorf("mqtt publish: %w", err)
		}
	default:
	}

	b.mu.Lock()
	b.published++
	b.mu.Unlock()
	return nil
}

func (b *Bridge) Close() error {
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
		b.logger.Info().Msg("mqtt disconnected")
	}
	b.setConnected(false)
	return nil
}

type Stats struct {
	Connected bool
	Published uint64
	Errors    uint64
}

func (b *Bridge) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{Connected: b.connected, Published: b.published, Errors: b.errors}
}

func (b *Bridge) handle(_ paho.Client, msg paho.Message) {
	m, err := Decode(msg.Payload())
	if err != nil {
		b.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("bad control payload")
		return
	}
	if _, err := protocol.Parse(m); err != nil {
		b.logger.Error().Err(err).Str("addr", m.Address).Msg("control message rejected")
		return
	}
	if !b.inbox.Push(m) {
		b.logger.Warn().Str("addr", m.Address).Uint64("drops", b.inbox.Drops()).Msg("inbox full, message dropped")
		return
	}
	b.logger.Debug().Str("msg", m.String()).Msg("mqtt in")
}

func (b *Bridge) setConnected(v bool) {
	b.mu.Lock()
	b.connected = v
	b.mu.Unlock()
}

func (b *Bridge) isConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

func (b *Bridge) countError() {
	b.mu.Lock()
	b.errors++
	b.mu.Unlock()
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Decode reads a control payload. JSON numbers written with a fraction or
// exponent become floats, other numbers ints; booleans become 1 or 0.
func Decode(payload []byte) (protocol.Message, error) {
	payload = bytes.TrimSpace(payload)
	if bytes.HasPrefix(payload, []byte("/")) {
		return protocol.ParseLine(string(payload))
	}
	if !gjson.ValidBytes(payload) {
		return protocol.Message{}, fmt.Errorf("payload is neither JSON nor a text line")
	}

	addr := gjson.GetBytes(payload, "address")
	if addr.Type != gjson.String || !strings.HasPrefix(addr.Str, "/") {
		return protocol.Message{}, fmt.Errorf("address must be a string starting with '/'")
	}

	m := protocol.Message{Address: addr.Str, Args: []any{}}
	for i, a := range gjson.GetBytes(payload, "args").Array() {
		switch a.Type {
		case gjson.Number:
			if strings.ContainsAny(a.Raw, ".eE") {
				m.Args = append(m.Args, a.Float())
			} else {
				m.Args = append(m.Args, int(a.Int()))
			}
		case gjson.String:
			m.Args = append(m.Args, a.Str)
		case gjson.True:
			m.Args = append(m.Args, 1)
		case gjson.False:
			m.Args = append(m.Args, 0)
		default:
			return protocol.Message{}, fmt.Errorf("argument %d: unsupported JSON value %s", i, a.Raw)
		}
	}
	return m, nil
}

// Encode renders a message as a JSON payload. Floats always carry a
// fraction so Decode reads them back as floats.
func Encode(m protocol.Message) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "address", m.Address)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "args", []byte(`[]`))
	if err != nil {
		return nil, err
	}
	for _, a := range m.Args {
		if f, ok := a.(float64); ok {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%s: %g has no JSON form", m.Address, f)
			}
			s := strconv.FormatFloat(f, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			out, err = sjson.SetRawBytes(out, "args.-1", []byte(s))
		} else {
			out, err = sjson.SetBytes(out, "args.-1", a)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
