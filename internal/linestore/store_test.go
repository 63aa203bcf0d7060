// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package linestore

import "testing"

// classes of the small fixture, 4 is the terminator
var fixture = []Line{
	{Last: true, Class: 0, Freq: 1},
	{Last: false, Class: 1, Flavor: true, Freq: 2},
	{Last: true, Class: 1, Freq: 3},
	{Last: true, Class: 4, Freq: 0},
	{Last: false, Class: 2, Freq: 5},
	{Last: true, Class: 2, Flavor: true, Freq: 7},
}

func fill(t *testing.T, mode CSLMode) *Store {
	t.Helper()
	s := New(mode, 4)
	for i, ln := range fixture {
		if err := s.Insert(i, ln); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	return s
}

func TestInsertGetRoundTrip(t *testing.T) {
	t.Parallel()
	s := fill(t, CSLInt)

	if s.Size() != len(fixture) {
		t.Fatalf("Size() = %d, want %d", s.Size(), len(fixture))
	}
	for i, want := range fixture {
		got, ok := s.Get(i)
		if !ok || got != want {
			t.Fatalf("Get(%d) = %+v, %v, want %+v", i, got, ok, want)
		}
	}
	if _, ok := s.Get(len(fixture)); ok {
		t.Fatal("Get beyond size reported ok")
	}
}

func TestInsertShifts(t *testing.T) {
	t.Parallel()
	s := fill(t, CSLInt)

	ln := Line{Last: true, Class: 3, Freq: 9}
	if err := s.Insert(2, ln); err != nil {
		t.Fatalf("Insert(2): %v", err)
	}
	got, _ := s.Get(2)
	if got != ln {
		t.Fatalf("Get(2) = %+v, want %+v", got, ln)
	}
	shifted, _ := s.Get(3)
	if shifted != fixture[2] {
		t.Fatalf("Get(3) = %+v, want former line 2 %+v", shifted, fixture[2])
	}

	if err := s.Insert(100, ln); err != ErrOutOfRange {
		t.Fatalf("Insert(100) = %v, want ErrOutOfRange", err)
	}
}

func TestRankSelect(t *testing.T) {
	t.Parallel()
	s := fill(t, CSLInt)

	// L: 1 0 1 1 0 1
	if got := s.RankL(6, true); got != 4 {
		t.Fatalf("RankL(6, true) = %d, want 4", got)
	}
	if got := s.RankL(6, false); got != 2 {
		t.Fatalf("RankL(6, false) = %d, want 2", got)
	}
	if got := s.SelectL(0, true); got != 0 {
		t.Fatalf("SelectL(0, true) = %d, want 0", got)
	}
	if got := s.SelectL(2, true); got != 3 {
		t.Fatalf("SelectL(2, true) = %d, want 3", got)
	}
	if got := s.SelectL(5, true); got != s.Size() {
		t.Fatalf("SelectL(5, true) = %d, want saturation %d", got, s.Size())
	}

	// class 1 at lines 1 and 2, flavor must not matter
	if got := s.RankW(3, 1); got != 2 {
		t.Fatalf("RankW(3, 1) = %d, want 2", got)
	}
	if got := s.SelectW(2, 1); got != 3 {
		t.Fatalf("SelectW(2, 1) = %d, want 3", got)
	}
	if got := s.SelectW(3, 1); got != s.Size() {
		t.Fatalf("SelectW(3, 1) = %d, want saturation", got)
	}
}

func TestChangeSymbol(t *testing.T) {
	t.Parallel()
	s := fill(t, CSLInt)

	if err := s.ChangeSymbol(3, 0, true); err != nil {
		t.Fatalf("ChangeSymbol: %v", err)
	}
	got, _ := s.Get(3)
	if got.Class != 0 || !got.Flavor {
		t.Fatalf("Get(3) after change = %+v", got)
	}
	// the old terminator plane must be clear again
	if got := s.RankW(s.Size(), 4); got != 0 {
		t.Fatalf("terminator rank after change = %d, want 0", got)
	}
	if got := s.RankW(s.Size(), 0); got != 2 {
		t.Fatalf("class 0 rank after change = %d, want 2", got)
	}
}

func TestIncFreq(t *testing.T) {
	t.Parallel()
	s := fill(t, CSLInt)

	if err := s.IncFreq(1, 5); err != nil {
		t.Fatalf("IncFreq: %v", err)
	}
	if got := s.Freq(1); got != 7 {
		t.Fatalf("Freq(1) = %d, want 7", got)
	}
	if err := s.IncFreq(42, 1); err != ErrOutOfRange {
		t.Fatalf("IncFreq(42) = %v, want ErrOutOfRange", err)
	}
}

func TestCSLStorage(t *testing.T) {
	t.Parallel()

	for _, mode := range []CSLMode{CSLInt, CSLBits} {
		s := fill(t, mode)
		for i := range fixture {
			want := int32(i % 5)
			if err := s.SetCSL(i, want); err != nil {
				t.Fatalf("SetCSL(%d): %v", i, err)
			}
			if got := s.CSL(i); got != want {
				t.Fatalf("mode %d: CSL(%d) = %d, want %d", mode, i, got, want)
			}
		}

		// inserting shifts stored lengths along with the lines
		if err := s.Insert(1, Line{Class: 4}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if got := s.CSL(1); got != 0 {
			t.Fatalf("mode %d: CSL of fresh line = %d, want 0", mode, got)
		}
		if got := s.CSL(2); got != 1 {
			t.Fatalf("mode %d: CSL(2) after shift = %d, want 1", mode, got)
		}
	}
}
