// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rangecoder

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

// skewed static model over four symbols
var model = []uint32{50, 20, 9, 1}

func cumulative(sym int) (start, size, total uint32) {
	for _, f := range model {
		total += f
	}
	for s := range sym {
		start += model[s]
	}
	return start, model[sym], total
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(1, 1))
	syms := make([]int, 10_000)
	for i := range syms {
		syms[i] = prng.IntN(len(model))
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, sym := range syms {
		start, size, total := cumulative(sym)
		if err := enc.Encode(start, size, total); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec, err := NewDecoder(&buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	_, _, total := cumulative(0)
	for i, want := range syms {
		v := dec.DecodeFreq(total)

		var sym int
		var start uint32
		for s, f := range model {
			if v < start+f {
				sym = s
				break
			}
			start += f
		}
		if err := dec.Decode(start, model[sym]); err != nil {
			t.Fatalf("Decode at %d: %v", i, err)
		}
		if sym != want {
			t.Fatalf("symbol %d = %d, want %d", i, sym, want)
		}
	}
}

func TestEmptyStream(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != initLen {
		t.Fatalf("flushed %d bytes, want %d", buf.Len(), initLen)
	}
	if _, err := NewDecoder(&buf); err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(&bytes.Buffer{})
	if err := enc.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := enc.Close(); err == nil {
		t.Fatal("second Close did not fail")
	}
}
