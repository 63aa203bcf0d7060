// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

import "github.com/gaissmai/debruijn/internal/linestore"

// symbolCount is the number of base symbols, the terminator is not one.
const symbolCount = linestore.SymbolCount

// Value is one entry of the W vector. The low bit is the flavor, it marks
// a repeated occurrence of the edge label within its rank class and is
// ignored by all symbol rank/select queries. The terminator Dollar has no
// flavored variant and doubles as the escape symbol of the coder.
type Value uint8

const (
	A Value = iota
	Ax
	C
	Cx
	G
	Gx
	T
	Tx
	Dollar

	// Esc is the escape symbol, an alias of the terminator.
	Esc = Dollar
)

// Class returns the symbol class of v with the flavor stripped,
// 0..3 for the bases and 4 for the terminator.
func (v Value) Class() uint8 {
	return uint8(v >> 1)
}

// Flavored reports whether v is a repeat-occurrence variant.
func (v Value) Flavored() bool {
	return v != Dollar && v&1 == 1
}

// Byte returns the symbol letter of v, the flavor is not rendered.
func (v Value) Byte() byte {
	return "AACCGGTT$"[v]
}

func (v Value) String() string {
	if v.Flavored() {
		return string(v.Byte()) + "x"
	}
	return string(v.Byte())
}

// ValueOf maps a symbol letter to its plain Value.
func ValueOf(b byte) (Value, bool) {
	switch b {
	case 'A':
		return A, true
	case 'C':
		return C, true
	case 'G':
		return G, true
	case 'T':
		return T, true
	case '$':
		return Dollar, true
	}
	return 0, false
}

// valueFor rebuilds a Value from a store class and flavor bit.
func valueFor(class uint8, flavor bool) Value {
	if class >= symbolCount {
		return Dollar
	}
	v := Value(class << 1)
	if flavor {
		v |= 1
	}
	return v
}
