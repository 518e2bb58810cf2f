/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"time"

	"slotdeck/internal/deck"
	"slotdeck/internal/protocol"
	"slotdeck/pkg/spec"

	"github.com/rs/zerolog"
)

// engine is the single authority over the deck. Transports only queue
// messages; everything else happens on the engine goroutine.
type engine struct {
	deck   *deck.Deck
	inbox  *protocol.Inbox
	state  *published
	period time.Duration
	folder string
	logger zerolog.Logger
}

func tickPeriod(rate int) time.Duration {
	if rate <= 0 {
		rate = spec.DefaultFrameRate
	}
	return time.Second / time.Duration(rate)
}

func (e *engine) run(ctx context.Context) error {
	if e.folder != "" {
		if err := e.deck.LoadFolder(e.folder); err != nil {
			e.logger.Error().Err(err).Str("folder", e.folder).Msg("startup folder load aborted")
		}
	}
	e.publish()

	e.logger.Info().Dur("period", e.period).Int("slots", e.deck.NumSlots()).Msg("engine started")
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("engine stopped")
			return nil
		case <-ticker.C:
			e.step()
		}
	}
}

// step drains the inbox, advances every stacked clip and publishes the
// result.
func (e *engine) step() {
	e.deck.Drain(e.inbox.Drain())
	e.deck.Tick()
	e.publish()
}

func (e *engine) publish() {
	e.state.set(e.deck.Snapshot(), e.inbox.Drops())
}
