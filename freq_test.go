// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

import "testing"

func TestSymbolFrequencyRange(t *testing.T) {
	t.Parallel()

	g := staticGraph(t)

	// lines 0..2 carry A, C and G with frequency one each
	freq := g.SymbolFrequencyRange(0, 2)
	want := Freq{Count: [4]uint32{1, 1, 1, 0}, Escape: 3, Total: 6}
	if freq != want {
		t.Fatalf("SymbolFrequencyRange(0, 2) = %+v, want %+v", freq, want)
	}

	// lines 6..9 are terminator edges only
	freq = g.SymbolFrequencyRange(6, 9)
	want = Freq{Escape: 4, Total: 4}
	if freq != want {
		t.Fatalf("SymbolFrequencyRange(6, 9) = %+v, want %+v", freq, want)
	}

	// out of bounds ranges clamp
	freq = g.SymbolFrequencyRange(-3, 100)
	if freq.Escape != 15 {
		t.Fatalf("clamped escape = %d, want 15", freq.Escape)
	}
}

func TestSymbolFrequencyCountOnce(t *testing.T) {
	t.Parallel()

	g := staticGraph(t, WithEscapeCountOnce())

	freq := g.SymbolFrequencyRange(0, 2)
	want := Freq{Count: [4]uint32{1, 1, 1, 0}, Escape: 3, Total: 6}
	if freq != want {
		t.Fatalf("SymbolFrequencyRange(0, 2) = %+v, want %+v", freq, want)
	}

	// no symbols at all, so no escape either
	freq = g.SymbolFrequencyRange(6, 9)
	if freq != (Freq{}) {
		t.Fatalf("SymbolFrequencyRange(6, 9) = %+v, want zero", freq)
	}
}

func TestSymbolFrequencyNode(t *testing.T) {
	t.Parallel()

	g := staticGraph(t)

	// node of line 0 spans lines 0..2, any member line gives the same table
	want := g.SymbolFrequencyRange(0, 2)
	for _, i := range []int{0, 1, 2} {
		if got := g.SymbolFrequency(i); got != want {
			t.Fatalf("SymbolFrequency(%d) = %+v, want %+v", i, got, want)
		}
	}

	// single-line node
	got := g.SymbolFrequency(5)
	want = Freq{Count: [4]uint32{0, 1, 0, 0}, Escape: 1, Total: 2}
	if got != want {
		t.Fatalf("SymbolFrequency(5) = %+v, want %+v", got, want)
	}
}

func TestFrequencyWeights(t *testing.T) {
	t.Parallel()

	p := make([]uint32, 15)
	for i := range p {
		p[i] = uint32(i + 1)
	}
	g := New()
	g.InsertTestData(staticL, staticW, p, staticF)

	freq := g.SymbolFrequencyRange(0, 2)
	want := Freq{Count: [4]uint32{1, 2, 3, 0}, Escape: 3, Total: 9}
	if freq != want {
		t.Fatalf("weighted SymbolFrequencyRange(0, 2) = %+v, want %+v", freq, want)
	}
}
