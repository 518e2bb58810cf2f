/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */
package main

import (
	"sync"

	"slotdeck/internal/deck"
)

// status is what the IPC STATUS verb returns.
type status struct {
	deck.Snapshot
	Ticks uint64 `json:"ticks"`
	Drops uint64 `json:"drops"`
}

// published holds the last snapshot taken by the engine so other
// goroutines can read it without touching the deck.
type published struct {
	mu   sync.Mutex
	last status
}

func (p *published) set(s deck.Snapshot, drops uint64) {
	p.mu.Lock()
	p.last.Snapshot = s
	p.last.Ticks++
	p.last.Drops = drops
	p.mu.Unlock()
}

func (p *published) status() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
