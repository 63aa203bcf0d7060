// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

// Context shortening: a node label is the context of the PPM model, and a
// shorter context maps to the contiguous run of lines whose labels share
// the last k' symbols. The run boundaries are found through the
// common-suffix lengths between neighbouring lines, kept per line or
// recomputed from labels depending on the CSL strategy.

// commonSuffixLen returns the length of the longest common label suffix
// of lines i and j, at most k. Terminators are not context.
func (g *Graph) commonSuffixLen(i, j int) int {
	common := 0
	for common < g.k {
		s1 := g.valueFromIdx(i)
		s2 := g.valueFromIdx(j)

		if s1 == Dollar || s1 != s2 {
			break
		}

		i = g.Backward(i)
		j = g.Backward(j)
		common++

		if i == -1 || j == -1 {
			break
		}
	}
	return common
}

// cslAt returns the common-suffix length between line i and line i-1.
func (g *Graph) cslAt(i int) int32 {
	if g.cslMode == CSLLabel {
		return int32(g.commonSuffixLen(i, i-1))
	}
	return g.store.CSL(i)
}

// updateCSL recomputes the suffix lengths at both boundaries of line
// target after an insertion there. The F array must be consistent before
// the call, suffix lengths derive from labels.
func (g *Graph) updateCSL(target int) {
	if g.cslMode == CSLLabel {
		return
	}

	size := g.Size()
	if target <= 0 || target >= size {
		return
	}

	g.mustSetCSL(target, int32(g.commonSuffixLen(target, target-1)))

	// a tail insertion has only one boundary
	if target == size-1 {
		return
	}
	g.mustSetCSL(target+1, int32(g.commonSuffixLen(target+1, target)))
}

// SetCSL stores the common-suffix length of line i, a no-op under the
// label-recompute strategy.
func (g *Graph) SetCSL(i int, csl int32) error {
	if i < 0 || i >= g.Size() {
		return ErrOutOfRange
	}
	if g.cslMode == CSLLabel {
		return nil
	}
	return g.store.SetCSL(i, csl)
}

// GetCSL returns the common-suffix length between line i and line i-1,
// zero for the first line.
func (g *Graph) GetCSL(i int) int32 {
	if i <= 0 || i >= g.Size() {
		return 0
	}
	return g.cslAt(i)
}

func (g *Graph) mustSetCSL(i int, csl int32) {
	if err := g.store.SetCSL(i, csl); err != nil {
		panic("debruijn: logic error, csl update out of range")
	}
}

// ShortenLower returns the first line of the run sharing the last ctxLen
// label symbols with line i, or -1 when no line above i belongs to the
// run. Root lines have no context to shorten and always return -1.
func (g *Graph) ShortenLower(i, ctxLen int) int {
	if i < 0 || i >= g.Size() {
		return -1
	}
	if int32(i) < g.f[0] || ctxLen == 0 {
		return -1
	}

	lo := g.shortenLowerRaw(i, ctxLen)
	if lo == i {
		return -1
	}
	return lo
}

// shortenLowerRaw walks upwards to the first broken suffix boundary,
// whole-graph semantics for root lines and zero-length contexts.
func (g *Graph) shortenLowerRaw(i, ctxLen int) int {
	if int32(i) < g.f[0] || ctxLen == 0 {
		return 0
	}
	for i > 0 {
		if g.cslAt(i) < int32(ctxLen) {
			return i
		}
		i--
	}
	return 0
}

// ShortenUpper returns the last line of the run sharing the last ctxLen
// label symbols with line i. Root lines and zero-length contexts extend
// to the last line of the graph.
func (g *Graph) ShortenUpper(i, ctxLen int) int {
	size := g.Size()
	if i < 0 || i >= size {
		return size - 1
	}
	if int32(i) < g.f[0] || ctxLen == 0 {
		return size - 1
	}

	for i++; i < size; i++ {
		if g.cslAt(i) < int32(ctxLen) {
			return i - 1
		}
	}
	return size - 1
}

// contextRange returns the closed line range of the context of length
// ctxLen around line i.
func (g *Graph) contextRange(i, ctxLen int) (lo, hi int) {
	return g.shortenLowerRaw(i, ctxLen), g.ShortenUpper(i, ctxLen)
}

// nodeRange returns the closed line range of the node containing line i.
func (g *Graph) nodeRange(i int) (lo, hi int) {
	nid := g.RankL(i, true)
	return g.SelectL(nid, true), g.SelectL(nid+1, true) - 1
}
