/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import "slices"

// Stack orders the live slots. The top is the current slot. A slot appears
// at most once: pushing a stacked slot moves it to the top.
type Stack struct {
	items []int
}

func (s *Stack) Push(slot int) {
	s.Remove(slot)
	s.items = append(s.items, slot)
}

// Remove pops slot if it is on top, otherwise deletes it in place keeping
// the order of the rest. It reports whether slot was stacked.
func (s *Stack) Remove(slot int) bool {
	n := len(s.items)
	if n > 0 && s.items[n-1] == slot {
		s.items = s.items[:n-1]
		return true
	}
	i := slices.Index(s.items, slot)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *Stack) Current() (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack) Contains(slot int) bool { return slices.Contains(s.items, slot) }

func (s *Stack) Len() int { return len(s.items) }

// Items returns a copy, bottom first.
func (s *Stack) Items() []int { return slices.Clone(s.items) }
