/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output mixes streams. Lock must be held while touching a stream that is
// being played.
type Output interface {
	sync.Locker
	SampleRate() beep.SampleRate
	Play(s beep.Streamer) error
}

// Speaker is the system audio device. It is opened on the first Play.
type Speaker struct {
	rate beep.SampleRate
	once sync.Once
	err  error
}

func NewSpeaker(rate beep.SampleRate) *Speaker {
	return &Speaker{rate: rate}
}

func (s *Speaker) SampleRate() beep.SampleRate { return s.rate }

func (s *Speaker) Play(st beep.Streamer) error {
	s.once.Do(func() {
		s.err = speaker.Init(s.rate, s.rate.N(time.Millisecond*100))
	})
	if s.err != nil {
		return s.err
	}
	speaker.Play(st)
	return nil
}

func (s *Speaker) Lock()   { speaker.Lock() }
func (s *Speaker) Unlock() { speaker.Unlock() }

// Null keeps played streams without a device. Pull drives them by hand.
type Null struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	streams []beep.Streamer
}

func NewNull(rate beep.SampleRate) *Null {
	return &Null{rate: rate}
}

func (n *Null) SampleRate() beep.SampleRate { return n.rate }

func (n *Null) Play(s beep.Streamer) error {
	n.mu.Lock()
	n.streams = append(n.streams, s)
	n.mu.Unlock()
	return nil
}

func (n *Null) Lock()   { n.mu.Lock() }
func (n *Null) Unlock() { n.mu.Unlock() }

// Pull streams count samples through every played stream, as the speaker
// would.
func (n *Null) Pull(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	buf := make([][2]float64, count)
	for _, s := range n.streams {
		s.Stream(buf)
	}
}
