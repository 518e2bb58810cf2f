/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package deck is the slot bank and playback state machine. A Deck is owned
// by a single goroutine: it is never locked and must not be shared.
package deck

import (
	"errors"

	"slotdeck/internal/protocol"
)

var (
	ErrInvalidSlot          = errors.New("invalid slot")
	ErrSlotNotLoaded        = errors.New("slot not loaded")
	ErrNoCurrentSlot        = errors.New("no current slot")
	ErrClipTooShort         = errors.New("clip too short")
	ErrSeekOutOfBounds      = errors.New("seek out of bounds")
	ErrMalformedFolderEntry = errors.New("malformed folder entry")
	ErrInvalidViewport      = errors.New("invalid viewport")
)

// Clip is one opened media resource. Frame numbers run from 0 to
// TotalFrames()-1.
type Clip interface {
	Path() string
	Duration() float64 // seconds
	TotalFrames() int
	Size() (width, height int)

	SeekFrame(frame int)
	SetSpeed(speed float64)
	SetPaused(paused bool)

	// Position is the playhead as a fraction of the clip, in [0,1].
	Position() float64
	Finished() bool
	// Update advances playback by one tick.
	Update()

	Close() error
}

type Opener func(path string) (Clip, error)

// Sink receives outbound telemetry.
type Sink interface {
	Send(m protocol.Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m protocol.Message) error

func (f SinkFunc) Send(m protocol.Message) error { return f(m) }

// MultiSink fans a message out to every sink and returns the first error.
type MultiSink []Sink

func (ms MultiSink) Send(m protocol.Message) error {
	var first error
	for _, s := range ms {
		if err := s.Send(m); err != nil && first == nil {
			first = err
		}
	}
	return first
}
