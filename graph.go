// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

import (
	"errors"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"

	"github.com/gaissmai/debruijn/internal/linestore"
)

// DefaultContextLength is the maximum node label length when no
// WithContextLength option is given.
const DefaultContextLength = 4

var (
	// ErrOutOfRange is returned by mutating operations when the line
	// index lies beyond the current graph.
	ErrOutOfRange = errors.New("debruijn: line index out of range")

	// ErrNotImplemented is returned by the indegree operations, they are
	// not needed for compression.
	ErrNotImplemented = errors.New("debruijn: not implemented")

	// ErrInvalidSymbol is returned when a byte or Value outside the
	// alphabet reaches the API.
	ErrInvalidSymbol = errors.New("debruijn: invalid symbol")
)

// CSLMode selects the common-suffix-length strategy, see the With*CSL
// options. All strategies behave identically, they trade insert cost
// against query cost.
type CSLMode = linestore.CSLMode

const (
	CSLLabel = linestore.CSLLabel
	CSLInt   = linestore.CSLInt
	CSLBits  = linestore.CSLBits
)

// Line is one graph line: the last-edge flag, the edge symbol and its
// frequency. Lines returned by LineGet are value copies.
type Line struct {
	Last bool
	W    Value
	P    uint32
}

// Graph is a dynamic succinct de Bruijn graph. Not safe for concurrent
// use, a graph instance belongs to a single goroutine.
type Graph struct {
	f     [symbolCount]int32
	store *linestore.Store

	k            int
	cslMode      CSLMode
	escCountOnce bool

	tracked deque.Deque[*int32]

	log zerolog.Logger
}

// Option configures a Graph under construction.
type Option func(*Graph)

// WithContextLength bounds node labels to k symbols, k >= 1.
func WithContextLength(k int) Option {
	return func(g *Graph) {
		if k >= 1 {
			g.k = k
		}
	}
}

// WithLabelCSL recomputes common-suffix lengths from labels on demand.
func WithLabelCSL() Option {
	return func(g *Graph) { g.cslMode = CSLLabel }
}

// WithIntegerCSL stores one common-suffix length per line, the default.
func WithIntegerCSL() Option {
	return func(g *Graph) { g.cslMode = CSLInt }
}

// WithBitvecCSL stores common-suffix lengths across rank/select planes.
func WithBitvecCSL() Option {
	return func(g *Graph) { g.cslMode = CSLBits }
}

// WithEscapeCountOnce counts each distinct symbol once for the escape
// slot of frequency tables instead of counting scanned lines.
func WithEscapeCountOnce() Option {
	return func(g *Graph) { g.escCountOnce = true }
}

// WithLogger attaches a logger for debug events, default is a no-op.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Graph) { g.log = log }
}

// New returns a graph holding the initial bootstrap lines: one line per
// base symbol plus the terminator line, F = {1,2,3,4}.
func New(opts ...Option) *Graph {
	g := &Graph{
		k:       DefaultContextLength,
		cslMode: CSLInt,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.store = linestore.New(g.cslMode, g.k)

	seed := []Line{
		{Last: true, W: A, P: 1},
		{Last: true, W: C, P: 1},
		{Last: true, W: G, P: 1},
		{Last: true, W: T, P: 1},
		{Last: true, W: Dollar, P: 0},
	}
	for i, ln := range seed {
		mustStoreInsert(g.store, i, ln)
	}
	g.f = [symbolCount]int32{1, 2, 3, 4}

	g.updateCSL(0)
	g.updateCSL(2)
	g.updateCSL(4)

	g.log.Debug().Int("context_length", g.k).Msg("graph initialized")
	return g
}

// Size returns the number of graph lines.
func (g *Graph) Size() int {
	return g.store.Size()
}

// ContextLength returns the maximum node label length k.
func (g *Graph) ContextLength() int {
	return g.k
}

// F returns the cumulative symbol count array.
func (g *Graph) F() [symbolCount]int32 {
	return g.f
}

// LineGet returns a value copy of line i.
func (g *Graph) LineGet(i int) (Line, error) {
	ln, ok := g.store.Get(i)
	if !ok {
		return Line{}, ErrOutOfRange
	}
	return Line{Last: ln.Last, W: valueFor(ln.Class, ln.Flavor), P: ln.Freq}, nil
}

// LineInsert places ln at line index i, shifting later lines, registered
// tracked indices and the F boundaries at or above i up by one.
func (g *Graph) LineInsert(i int, ln Line) error {
	if i < 0 || i > g.Size() {
		return ErrOutOfRange
	}
	if ln.W > Dollar {
		return ErrInvalidSymbol
	}

	g.insertLineRaw(i, ln)
	for s := range g.f {
		if g.f[s] >= int32(i) {
			g.f[s]++
		}
	}
	g.updateCSL(i)

	g.log.Debug().Int("line", i).Stringer("w", ln.W).Msg("line inserted")
	return nil
}

// insertLineRaw inserts into the store and shifts tracked indices, the F
// array and the suffix lengths are the caller's business.
func (g *Graph) insertLineRaw(i int, ln Line) {
	mustStoreInsert(g.store, i, ln)
	g.shiftTracked(int32(i))
}

// ChangeSymbol rewrites the edge symbol of line i.
func (g *Graph) ChangeSymbol(i int, w Value) error {
	if i < 0 || i >= g.Size() {
		return ErrOutOfRange
	}
	if w > Dollar {
		return ErrInvalidSymbol
	}
	return g.store.ChangeSymbol(i, w.Class(), w.Flavored())
}

// IncreaseFrequency raises the frequency of line i by amount.
func (g *Graph) IncreaseFrequency(i int, amount uint32) error {
	if i < 0 || i >= g.Size() {
		return ErrOutOfRange
	}
	return g.store.IncFreq(i, amount)
}

// RankL counts lines with the last-edge flag equal to one in [0, i).
func (g *Graph) RankL(i int, one bool) int {
	return g.store.RankL(i, one)
}

// SelectL returns the 1-based position of the k-th line with the
// last-edge flag equal to one, zero for k == 0 and the graph size when
// fewer such lines exist.
func (g *Graph) SelectL(k int, one bool) int {
	return g.store.SelectL(k, one)
}

// RankW counts lines carrying the symbol of w in [0, i), the flavor bit
// never participates.
func (g *Graph) RankW(i int, w Value) int {
	return g.store.RankW(i, w.Class())
}

// SelectW returns the 1-based position of the k-th line carrying the
// symbol of w, flavor ignored.
func (g *Graph) SelectW(k int, w Value) int {
	return g.store.SelectW(k, w.Class())
}

// valueFromIdx derives the last symbol of the node at line i purely from
// the F boundaries.
func (g *Graph) valueFromIdx(i int) Value {
	switch i32 := int32(i); {
	case i32 < g.f[0]:
		return Dollar
	case i32 < g.f[1]:
		return A
	case i32 < g.f[2]:
		return C
	case i32 < g.f[3]:
		return G
	default:
		return T
	}
}

// Forward follows the outgoing edge at line i and returns the index of
// the last edge of the node it points to, -1 for terminator edges or out
// of range indices.
func (g *Graph) Forward(i int) int {
	ln, err := g.LineGet(i)
	if err != nil || ln.W == Dollar {
		return -1
	}

	rank := g.RankW(i+1, ln.W)
	spos := int(g.f[ln.W.Class()])
	base := g.RankL(spos, true)

	return g.SelectL(base+rank, true) - 1
}

// Backward returns the index of an edge pointing into the node containing
// line i, -1 for the root and out of range indices.
func (g *Graph) Backward(i int) int {
	if i < 0 || i >= g.Size() {
		return -1
	}

	sym := g.valueFromIdx(i)
	if sym == Dollar {
		return -1
	}

	base := g.RankL(int(g.f[sym.Class()]), true)
	t := g.RankL(i+1, true)
	if !g.store.Last(i) {
		t++
	}

	return g.SelectW(t-base, sym) - 1
}

// Outdegree returns the number of outgoing edges of the node containing
// line i, zero for out of range indices.
func (g *Graph) Outdegree(i int) int {
	if i < 0 || i >= g.Size() {
		return 0
	}
	nid := g.RankL(i, true)
	return g.SelectL(nid+1, true) - g.SelectL(nid, true)
}

// FindEdge returns the index of the edge labeled w within the node
// containing line i, flavor ignored, -1 when the node has no such edge.
func (g *Graph) FindEdge(i int, w Value) int {
	if i < 0 || i >= g.Size() {
		return -1
	}
	nid := g.RankL(i, true)
	lo := g.SelectL(nid, true)
	hi := g.SelectL(nid+1, true) // exclusive

	return g.findEdgeInRange(lo, hi-1, w.Class())
}

// findEdgeInRange scans the closed line range for the first edge of the
// given symbol class.
func (g *Graph) findEdgeInRange(lo, hi int, class uint8) int {
	for j := lo; j <= hi; j++ {
		if g.store.Class(j) == class {
			return j
		}
	}
	return -1
}

// Outgoing follows the edge labeled w out of the node containing line i,
// -1 when the node has no such edge.
func (g *Graph) Outgoing(i int, w Value) int {
	edge := g.FindEdge(i, w)
	if edge == -1 {
		return -1
	}
	return g.Forward(edge)
}

// Indegree is not needed for compression and not implemented.
func (g *Graph) Indegree(int) (int, error) {
	return 0, ErrNotImplemented
}

// Incoming is not needed for compression and not implemented.
func (g *Graph) Incoming(int, Value) (int, error) {
	return 0, ErrNotImplemented
}

// Label reconstructs the node label of line i by walking backwards,
// right-aligned in a slice of k+1 symbols, unused slots padded with the
// terminator.
func (g *Graph) Label(i int) []Value {
	label := make([]Value, g.k+1)
	for j := range label {
		label[j] = Dollar
	}

	pos := g.k
	for range g.k {
		sym := g.valueFromIdx(i)
		label[pos] = sym
		pos--

		i = g.Backward(i)
		if i == -1 {
			break
		}
	}
	return label
}

// LabelString renders the label of line i as a string of symbol letters.
func (g *Graph) LabelString(i int) string {
	label := g.Label(i)
	buf := make([]byte, len(label))
	for j, sym := range label {
		buf[j] = sym.Byte()
	}
	return string(buf)
}

// contextLen returns the number of non-terminator symbols of the node
// label at line i, at most k.
func (g *Graph) contextLen(i int) int {
	n := 0
	for n < g.k {
		if g.valueFromIdx(i) == Dollar {
			break
		}
		n++
		if i = g.Backward(i); i == -1 {
			break
		}
	}
	return n
}

// InsertTestData discards the graph content and refills every vector
// directly, then rebuilds the suffix lengths by walking the odd indices
// and the last index. No consistency checking, test helper only. A nil p
// defaults edge frequencies to one, terminator edges to zero.
func (g *Graph) InsertTestData(last []bool, w []Value, p []uint32, f [symbolCount]int32) {
	g.store = linestore.New(g.cslMode, g.k)
	g.f = f

	for i := range last {
		ln := Line{Last: last[i], W: w[i], P: 1}
		if p != nil {
			ln.P = p[i]
		} else if w[i] == Dollar {
			ln.P = 0
		}
		mustStoreInsert(g.store, i, ln)
	}

	size := len(last)
	for i := 1; i < size; i += 2 {
		g.updateCSL(i)
	}
	g.updateCSL(size - 1)
}

func mustStoreInsert(s *linestore.Store, i int, ln Line) {
	err := s.Insert(i, linestore.Line{
		Last:   ln.Last,
		Class:  ln.W.Class(),
		Flavor: ln.W.Flavored(),
		Freq:   ln.P,
	})
	if err != nil {
		panic("debruijn: logic error, store insert after validation failed")
	}
}
