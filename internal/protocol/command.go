/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package protocol

import "slotdeck/pkg/spec"

// Command is one validated control request. Every variant maps to exactly
// one address.
type Command interface {
	Address() string
}

// OptionalSlot is a slot argument that may have been omitted, in which case
// the command targets the current slot.
type OptionalSlot struct {
	Index int
	Valid bool
}

func SlotOf(i int) OptionalSlot { return OptionalSlot{Index: i, Valid: true} }

type Load struct {
	Slot int
	Path string
}

type LoadFolder struct {
	Path string
}

type Play struct {
	Slot             int
	Speed            float64
	Skip             float64 // seconds
	Paused           bool
	StopWhenFinished bool
	StopPrevious     bool
}

// DefaultPlay returns a Play with the defaults of the optional arguments.
func DefaultPlay(slot int) Play {
	return Play{Slot: slot, Speed: 1, StopWhenFinished: true}
}

type Stop struct {
	Slot OptionalSlot
}

type Pause struct {
	Paused bool
}

type SetSpeed struct {
	Speed float64
}

type Scrub struct {
	Pos  float64
	Slot OptionalSlot
}

type ScrubAbs struct {
	Time float64
	Slot OptionalSlot
}

type SetPos struct {
	Pos float64
}

type SetTime struct {
	Time float64
}

type Dump struct{}

type Quit struct{}

type Resize struct {
	Width  int
	Height int
}

func (Load) Address() string       { return spec.AddrLoad }
func (LoadFolder) Address() string { return spec.AddrLoadFolder }
func (Play) Address() string       { return spec.AddrPlay }
func (Stop) Address() string       { return spec.AddrStop }
func (Pause) Address() string      { return spec.AddrPause }
func (SetSpeed) Address() string   { return spec.AddrSetSpeed }
func (Scrub) Address() string      { return spec.AddrScrub }
func (ScrubAbs) Address() string   { return spec.AddrScrubAbs }
func (SetPos) Address() string     { return spec.AddrSetPos }
func (SetTime) Address() string    { return spec.AddrSetTime }
func (Dump) Address() string       { return spec.AddrDump }
func (Quit) Address() string       { return spec.AddrQuit }
func (Resize) Address() string     { return spec.AddrResize }
