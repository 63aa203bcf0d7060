// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

// Index tracking: the compressor remembers line indices across its escape
// recursion while the very same recursion inserts lines below them. Every
// registered index at or above an insertion position is shifted along, so
// a remembered line keeps pointing at the same logical line.

// Track registers p for shifting on line insertions. Registrations form a
// stack, Untrack releases the most recent one.
func (g *Graph) Track(p *int32) {
	g.tracked.PushBack(p)
}

// Untrack releases the most recently registered index.
func (g *Graph) Untrack() {
	if g.tracked.Len() > 0 {
		g.tracked.PopBack()
	}
}

// shiftTracked moves all registered indices at or above pos up by one.
func (g *Graph) shiftTracked(pos int32) {
	for i := range g.tracked.Len() {
		if p := g.tracked.At(i); *p >= pos {
			*p++
		}
	}
}
