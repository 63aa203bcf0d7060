// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

import (
	"fmt"
	"io"
	"strings"
)

// String renders the graph table with labels.
// Useful during development and debugging.
//
//	 Output:
//
//	      F  L  Label  W   P
//	--------------------
//	   0: $  1  $$$$$  A   1
//	   1: A  1  $$$$A  C   1
//	...
func (g *Graph) String() string {
	w := new(strings.Builder)
	if err := g.Fprint(w); err != nil {
		panic(err)
	}
	return w.String()
}

// Fprint dumps the graph table to w, one line per graph line with the F
// region symbol, the last-edge flag, the node label, the edge symbol with
// its flavor mark and the frequency.
func (g *Graph) Fprint(w io.Writer) error {
	pad := strings.Repeat(" ", max(g.k-4, 0))
	if _, err := fmt.Fprintf(w, "      F  L  Label%s  W   P\n", pad); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "--------------------%s\n", strings.Repeat("-", max(g.k-4, 0))); err != nil {
		return err
	}

	size := g.Size()
	for i := range size {
		region := " "
		if sym := g.valueFromIdx(i); i == 0 || g.valueFromIdx(i-1) != sym {
			region = string(sym.Byte())
		}

		ln, err := g.LineGet(i)
		if err != nil {
			return err
		}

		flavor := " "
		if ln.W.Flavored() {
			flavor = "x"
		}

		last := 0
		if ln.Last {
			last = 1
		}

		_, err = fmt.Fprintf(w, "%4d: %s  %d  %s  %c%s  %d\n",
			i, region, last, g.LabelString(i), ln.W.Byte(), flavor, ln.P)
		if err != nil {
			return err
		}
	}
	return nil
}
