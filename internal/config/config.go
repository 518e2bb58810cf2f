/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package config merges command-line flags with the optional YAML file.
// Precedence is CLI, then file, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"slotdeck/pkg/spec"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeInvalid means a file or flag value could not be used.
	ErrCodeInvalid = "config_invalid"
	// ErrCodeNotFound means an explicitly named config file does not exist.
	ErrCodeNotFound = "config_not_found"
)

const DefaultFile = "~/.slotdeck.yaml"

// CLIArgs keeps whether each flag was given so that an explicit value
// (even a zero) overrides the file.
type CLIArgs struct {
	ConfigPath string
	ConfigSet  bool

	Slots    int
	SlotsSet bool

	Folder    string
	FolderSet bool

	Port    int
	PortSet bool

	Debug    bool
	DebugSet bool

	Out    string
	OutSet bool

	FrameRate    int
	FrameRateSet bool

	Socket    string
	SocketSet bool
}

type FileConfig struct {
	Slots     *int            `yaml:"slots"`
	Folder    string          `yaml:"folder"`
	Port      *int            `yaml:"port"`
	Debug     *bool           `yaml:"debug"`
	Out       string          `yaml:"out"`
	FrameRate *int            `yaml:"frame_rate"`
	Socket    string          `yaml:"socket"`
	Viewport  *ViewportConfig `yaml:"viewport"`
	MQTT      *MQTTConfig     `yaml:"mqtt"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type MQTTConfig struct {
	Broker         string `yaml:"broker"`
	ClientID       string `yaml:"client_id"`
	ControlTopic   string `yaml:"control_topic"`
	TelemetryTopic string `yaml:"telemetry_topic"`
	QoS            int    `yaml:"qos"`
}

// Endpoint is an OSC destination.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) String() string { return net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) }

type EffectiveConfig struct {
	File string // empty when no file was read

	Slots     int
	Folder    string
	Port      int
	Debug     bool
	Out       *Endpoint // nil disables telemetry over OSC
	FrameRate int       // 0 means the default tick rate
	Socket    string
	Width     int
	Height    int

	MQTT MQTTConfig // empty Broker disables the bridge
}

type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Path)
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code, or "" when err is not a *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load reads the config file and merges it with cli. The default file is
// optional; a file named with -config must exist.
func Load(cli CLIArgs) (EffectiveConfig, error) {
	name := DefaultFile
	if cli.ConfigSet {
		name = cli.ConfigPath
	}
	path, err := homedir.Expand(name)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: name, Err: err}
	}

	fc, exists, err := readFileConfig(path)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if !exists {
		if cli.ConfigSet {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: path, Err: os.ErrNotExist}
		}
		path = ""
	}
	return merge(cli, fc, path)
}

func merge(cli CLIArgs, fc FileConfig, path string) (EffectiveConfig, error) {
	invalid := func(format string, args ...any) error {
		return &Error{Code: ErrCodeInvalid, Path: path, Err: fmt.Errorf(format, args...)}
	}

	eff := EffectiveConfig{
		File:   path,
		Slots:  spec.DefaultSlots,
		Port:   spec.DefaultOSCPort,
		Socket: spec.DefaultSocket,
		Width:  spec.DefaultWidth,
		Height: spec.DefaultHeight,
	}

	pickInt(&eff.Slots, fc.Slots, cli.Slots, cli.SlotsSet)
	pickInt(&eff.Port, fc.Port, cli.Port, cli.PortSet)
	pickInt(&eff.FrameRate, fc.FrameRate, cli.FrameRate, cli.FrameRateSet)
	pickString(&eff.Folder, fc.Folder, cli.Folder, cli.FolderSet)
	pickString(&eff.Socket, fc.Socket, cli.Socket, cli.SocketSet)
	if cli.DebugSet {
		eff.Debug = cli.Debug
	} else if fc.Debug != nil {
		eff.Debug = *fc.Debug
	}

	if eff.Slots < 1 {
		return EffectiveConfig{}, invalid("slots must be at least 1, got %d", eff.Slots)
	}
	if eff.Port < 0 || eff.Port > 65535 {
		return EffectiveConfig{}, invalid("port %d out of range", eff.Port)
	}
	if eff.FrameRate < 0 {
		return EffectiveConfig{}, invalid("frame rate must not be negative, got %d", eff.FrameRate)
	}
	if eff.Folder != "" {
		folder, err := homedir.Expand(eff.Folder)
		if err != nil {
			return EffectiveConfig{}, invalid("folder: %v", err)
		}
		eff.Folder = folder
	}

	out := fc.Out
	if cli.OutSet {
		out = cli.Out
	}
	if strings.TrimSpace(out) != "" {
		ep, err := ParseOutAddress(out)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
		}
		eff.Out = &ep
	}

	if v := fc.Viewport; v != nil {
		if v.Width <= 0 || v.Height <= 0 {
			return EffectiveConfig{}, invalid("viewport %dx%d is not positive", v.Width, v.Height)
		}
		eff.Width, eff.Height = v.Width, v.Height
	}

	if m := fc.MQTT; m != nil && strings.TrimSpace(m.Broker) != "" {
		eff.MQTT = *m
		if m.QoS < 0 || m.QoS > 2 {
			return EffectiveConfig{}, invalid("mqtt qos must be 0, 1 or 2, got %d", m.QoS)
		}
		if eff.MQTT.ClientID == "" {
			eff.MQTT.ClientID = "slotdeck-" + uuid.NewString()
		}
		if eff.MQTT.ControlTopic == "" {
			eff.MQTT.ControlTopic = "slotdeck/control"
		}
		if eff.MQTT.TelemetryTopic == "" {
			eff.MQTT.TelemetryTopic = "slotdeck/telemetry"
		}
	}
	return eff, nil
}

// ParseOutAddress reads "[host:]port". A bare port sends to 127.0.0.1.
func ParseOutAddress(addr string) (Endpoint, error) {
	addr = strings.TrimSpace(addr)
	host, portStr := spec.DefaultOutHost, addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host, portStr = addr[:i], addr[i+1:]
		if host == "" {
			host = spec.DefaultOutHost
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("osc out %q: bad port", addr)
	}
	if port < 1024 || port >= 65535 {
		return Endpoint{}, fmt.Errorf("osc out %q: port out of range: %d", addr, port)
	}
	return Endpoint{Host: host, Port: port}, nil
}

func pickInt(dst *int, file *int, cli int, cliSet bool) {
	switch {
	case cliSet:
		*dst = cli
	case file != nil:
		*dst = *file
	}
}

func pickString(dst *string, file, cli string, cliSet bool) {
	switch {
	case cliSet:
		*dst = cli
	case strings.TrimSpace(file) != "":
		*dst = file
	}
}

func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
