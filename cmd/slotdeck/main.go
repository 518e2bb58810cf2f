/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"slotdeck/internal/config"
	"slotdeck/internal/deck"
	"slotdeck/internal/logging"
	"slotdeck/internal/media"
	"slotdeck/internal/protocol"
	"slotdeck/internal/transport/ipc"
	"slotdeck/internal/transport/mqtt"
	"slotdeck/internal/transport/osc"
	"slotdeck/pkg/audioengine"
	"slotdeck/pkg/spec"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cli, manual, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if manual {
		fmt.Print(spec.Manual)
		return
	}

	cfg, err := config.Load(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(cfg.Debug, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("slotdeck stopped")
		os.Exit(1)
	}
}

// parseFlags reads the command line and records which flags were given.
func parseFlags(args []string, stderr io.Writer) (config.CLIArgs, bool, error) {
	var (
		cli    config.CLIArgs
		manual bool
	)
	fs := flag.NewFlagSet("slotdeck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cli.Slots, "n", spec.DefaultSlots, "number of slots")
	fs.StringVar(&cli.Folder, "f", "", "load NNN_descr.ext clips from this folder at startup")
	fs.IntVar(&cli.Port, "p", spec.DefaultOSCPort, "OSC port to listen to")
	fs.BoolVar(&cli.Debug, "d", false, "debug logging")
	fs.BoolVar(&manual, "m", false, "print the message reference and exit")
	fs.StringVar(&cli.Out, "o", "", "send telemetry to [host:]port, e.g. 127.0.0.1:9998 or 9998")
	fs.IntVar(&cli.FrameRate, "r", 0, "engine frame rate, 0 for "+strconv.Itoa(spec.DefaultFrameRate))
	fs.StringVar(&cli.ConfigPath, "config", config.DefaultFile, "YAML config file")
	fs.StringVar(&cli.Socket, "socket", spec.DefaultSocket, "control socket path")
	if err := fs.Parse(args); err != nil {
		return config.CLIArgs{}, false, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(stderr, err)
		return config.CLIArgs{}, false, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cli.SlotsSet = true
		case "f":
			cli.FolderSet = true
		case "p":
			cli.PortSet = true
		case "d":
			cli.DebugSet = true
		case "o":
			cli.OutSet = true
		case "r":
			cli.FrameRateSet = true
		case "config":
			cli.ConfigSet = true
		case "socket":
			cli.SocketSet = true
		}
	})
	return cli, manual, nil
}

func run(ctx context.Context, cfg config.EffectiveConfig, logger zerolog.Logger) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	if cfg.File != "" {
		logger.Info().Str("file", cfg.File).Msg("config loaded")
	}
	inbox := protocol.NewInbox(spec.InboxLimit)
	state := &published{}

	var sinks deck.MultiSink
	if cfg.Out != nil {
		sinks = append(sinks, osc.NewSender(cfg.Out.Host, cfg.Out.Port))
		logger.Info().Str("out", cfg.Out.String()).Msg("osc telemetry enabled")
	}

	receiver, err := osc.Listen(fmt.Sprintf(":%d", cfg.Port), inbox, logger.With().Str("component", "osc").Logger())
	if err != nil {
		return err
	}
	defer receiver.Close()

	ctl, err := ipc.Listen(cfg.Socket, inbox, state.status, logger.With().Str("component", "ipc").Logger())
	if err != nil {
		return err
	}
	defer func() {
		ctl.Close()
		os.Remove(cfg.Socket)
	}()
	sinks = append(sinks, ctl)

	if cfg.MQTT.Broker != "" {
		bridge := mqtt.New(mqtt.Config{
			Broker:         cfg.MQTT.Broker,
			ClientID:       cfg.MQTT.ClientID,
			ControlTopic:   cfg.MQTT.ControlTopic,
			TelemetryTopic: cfg.MQTT.TelemetryTopic,
			QoS:            byte(cfg.MQTT.QoS),
		}, inbox, logger.With().Str("component", "mqtt").Logger())
		if err := bridge.Connect(ctx); err != nil {
			return err
		}
		defer bridge.Close()
		sinks = append(sinks, bridge)
	}

	lib := &media.Library{Audio: audioengine.NewSpeaker(spec.AudioDeviceRate)}
	d, err := deck.New(deck.Options{
		Slots:  cfg.Slots,
		Open:   lib.Open,
		Sink:   sinks,
		Width:  cfg.Width,
		Height: cfg.Height,
		Logger: logger.With().Str("component", "deck").Logger(),
		OnQuit: quit,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing clips")
		}
	}()

	eng := &engine{
		deck:   d,
		inbox:  inbox,
		state:  state,
		period: tickPeriod(cfg.FrameRate),
		folder: cfg.Folder,
		logger: logger.With().Str("component", "engine").Logger(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return receiver.Serve(gctx) })
	g.Go(func() error { return ctl.Serve(gctx) })
	g.Go(func() error { return eng.run(gctx) })

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
