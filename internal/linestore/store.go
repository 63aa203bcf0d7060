// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package linestore implements the multi-vector line store of the de Bruijn
// graph: the last-edge bit vector L, the edge symbol vector W kept as one
// rank/select plane per symbol class plus a flavor plane, and the parallel
// frequency and common-suffix-length side arrays. All vectors move in
// lockstep under insert-at-position, so one line index addresses one
// coherent record across all of them.
package linestore

import (
	"errors"

	"github.com/gaissmai/debruijn/internal/bitvec"
)

// SymbolCount is the number of base symbols, the terminator class comes
// on top as class SymbolCount.
const SymbolCount = 4

// ErrOutOfRange is returned by mutating operations when the line index
// lies beyond the current store.
var ErrOutOfRange = errors.New("linestore: line index out of range")

// CSLMode selects how common-suffix lengths are kept.
type CSLMode uint8

const (
	// CSLLabel keeps nothing, lengths are recomputed from labels on demand.
	CSLLabel CSLMode = iota
	// CSLInt keeps one integer per line.
	CSLInt
	// CSLBits keeps the lengths binary-encoded across rank/select planes.
	CSLBits
)

// Line is one record of the store, a value copy detached from the arenas.
type Line struct {
	Last   bool
	Class  uint8 // 0..SymbolCount, SymbolCount is the terminator
	Flavor bool
	Freq   uint32
}

// Store is the bundled line storage. Not safe for concurrent use.
type Store struct {
	last   *bitvec.Vector
	w      [SymbolCount + 1]*bitvec.Vector
	flavor *bitvec.Vector

	freq []uint32

	mode    CSLMode
	csl     []int32          // CSLInt
	cslBits []*bitvec.Vector // CSLBits, binary planes, LSB first
}

// New returns an empty store. ctxLen bounds the common-suffix lengths and
// sizes the bit planes of the CSLBits strategy.
func New(mode CSLMode, ctxLen int) *Store {
	s := &Store{
		last:   bitvec.New(),
		flavor: bitvec.New(),
		mode:   mode,
	}
	for i := range s.w {
		s.w[i] = bitvec.New()
	}
	if mode == CSLBits {
		planes := 1
		for 1<<planes <= ctxLen {
			planes++
		}
		s.cslBits = make([]*bitvec.Vector, planes)
		for i := range s.cslBits {
			s.cslBits[i] = bitvec.New()
		}
	}
	return s
}

// Mode returns the common-suffix-length strategy of the store.
func (s *Store) Mode() CSLMode { return s.mode }

// Size returns the number of lines.
func (s *Store) Size() int {
	return s.last.Size()
}

// Insert places ln at line index i, shifting later lines up by one. The
// new line's common-suffix length starts at zero, callers recompute it.
func (s *Store) Insert(i int, ln Line) error {
	if i < 0 || i > s.Size() || ln.Class > SymbolCount {
		return ErrOutOfRange
	}

	mustInsert(s.last, i, ln.Last)
	for c := range s.w {
		mustInsert(s.w[c], i, uint8(c) == ln.Class)
	}
	mustInsert(s.flavor, i, ln.Flavor)

	s.freq = insertAt(s.freq, i, ln.Freq)

	switch s.mode {
	case CSLInt:
		s.csl = insertAt(s.csl, i, 0)
	case CSLBits:
		for _, plane := range s.cslBits {
			mustInsert(plane, i, false)
		}
	}
	return nil
}

// Get returns a value copy of line i.
func (s *Store) Get(i int) (Line, bool) {
	if i < 0 || i >= s.Size() {
		return Line{}, false
	}
	ln := Line{
		Last:   s.last.Get(i),
		Class:  SymbolCount,
		Flavor: s.flavor.Get(i),
		Freq:   s.freq[i],
	}
	for c := range s.w {
		if s.w[c].Get(i) {
			ln.Class = uint8(c)
			break
		}
	}
	return ln, true
}

// Last returns the last-edge flag of line i.
func (s *Store) Last(i int) bool {
	return s.last.Get(i)
}

// Class returns the symbol class of line i, SymbolCount when no plane
// claims the line.
func (s *Store) Class(i int) uint8 {
	for c := range s.w {
		if s.w[c].Get(i) {
			return uint8(c)
		}
	}
	return SymbolCount
}

// RankL counts lines with L == one in [0, i).
func (s *Store) RankL(i int, one bool) int {
	if one {
		return s.last.Rank1(i)
	}
	return s.last.Rank0(i)
}

// SelectL returns the 1-based position of the k-th line with L == one,
// zero for k == 0 and the store size when fewer such lines exist.
func (s *Store) SelectL(k int, one bool) int {
	if k <= 0 {
		return 0
	}
	var pos int
	if one {
		if k > s.last.Ones() {
			return s.Size()
		}
		pos = s.last.Select1(k)
	} else {
		if k > s.Size()-s.last.Ones() {
			return s.Size()
		}
		pos = s.last.Select0(k)
	}
	return pos + 1
}

// RankW counts lines of the given symbol class in [0, i), the flavor bit
// never participates.
func (s *Store) RankW(i int, class uint8) int {
	return s.w[class].Rank1(i)
}

// SelectW returns the 1-based position of the k-th line of the given
// symbol class, zero for k == 0 and the store size when fewer exist.
func (s *Store) SelectW(k int, class uint8) int {
	if k <= 0 {
		return 0
	}
	if k > s.w[class].Ones() {
		return s.Size()
	}
	return s.w[class].Select1(k) + 1
}

// ChangeSymbol rewrites the symbol of line i across the W planes.
func (s *Store) ChangeSymbol(i int, class uint8, flavor bool) error {
	if i < 0 || i >= s.Size() || class > SymbolCount {
		return ErrOutOfRange
	}
	for c := range s.w {
		mustSet(s.w[c], i, uint8(c) == class)
	}
	mustSet(s.flavor, i, flavor)
	return nil
}

// IncFreq raises the frequency of line i by amount.
func (s *Store) IncFreq(i int, amount uint32) error {
	if i < 0 || i >= s.Size() {
		return ErrOutOfRange
	}
	s.freq[i] += amount
	return nil
}

// Freq returns the frequency of line i.
func (s *Store) Freq(i int) uint32 {
	if i < 0 || i >= s.Size() {
		return 0
	}
	return s.freq[i]
}

// SetCSL stores the common-suffix length of line i. In the CSLLabel
// strategy there is nothing to store and the call is a no-op.
func (s *Store) SetCSL(i int, csl int32) error {
	if i < 0 || i >= s.Size() {
		return ErrOutOfRange
	}
	switch s.mode {
	case CSLInt:
		s.csl[i] = csl
	case CSLBits:
		for b, plane := range s.cslBits {
			mustSet(plane, i, csl>>b&1 != 0)
		}
	}
	return nil
}

// CSL returns the stored common-suffix length of line i. Callers in the
// CSLLabel strategy recompute instead of calling this.
func (s *Store) CSL(i int) int32 {
	if i < 0 || i >= s.Size() {
		return 0
	}
	switch s.mode {
	case CSLInt:
		return s.csl[i]
	case CSLBits:
		var csl int32
		for b, plane := range s.cslBits {
			if plane.Get(i) {
				csl |= 1 << b
			}
		}
		return csl
	}
	panic("linestore: logic error, no stored csl in label mode")
}

func mustInsert(v *bitvec.Vector, i int, b bool) {
	if err := v.Insert(i, b); err != nil {
		panic("linestore: logic error, vectors out of lockstep")
	}
}

func mustSet(v *bitvec.Vector, i int, b bool) {
	if err := v.Set(i, b); err != nil {
		panic("linestore: logic error, vectors out of lockstep")
	}
}

// insertAt inserts item at index i, shifting the rest one position right.
func insertAt[T any](items []T, i int, item T) []T {
	if len(items) < cap(items) {
		items = items[:len(items)+1] // fast resize, no alloc
	} else {
		var zero T
		items = append(items, zero)
	}
	copy(items[i+1:], items[i:])
	items[i] = item
	return items
}
