// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package debruijn

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gaissmai/debruijn/internal/rangecoder"
)

// The PPM model: the current state is a graph line, its node label is the
// active context. A symbol with an edge in the context range is coded
// against the range's frequency table; without one, an escape is coded
// and the context drops by one symbol, down to an order-(-1) uniform
// table. Afterwards every escaped context materializes the new edge plus
// its target node, so both coder sides grow the very same graph and stay
// in lockstep.

// Compressor encodes a symbol stream against a growing de Bruijn graph.
// The escape slot of the frequency tables must stay in its default
// line-counting mode, WithEscapeCountOnce can starve the coder.
type Compressor struct {
	g     *Graph
	enc   *rangecoder.Encoder
	state int32
	depth int
	log   zerolog.Logger
}

// NewCompressor returns a compressor writing coder output to w.
func NewCompressor(w io.Writer, opts ...Option) *Compressor {
	g := New(opts...)
	return &Compressor{
		g:   g,
		enc: rangecoder.NewEncoder(w),
		log: g.log,
	}
}

// CompressSymbol codes one base symbol and advances the model.
func (c *Compressor) CompressSymbol(v Value) error {
	s := v.Class()
	if s >= symbolCount {
		return ErrInvalidSymbol
	}

	idx := preShorten(c.g, c.state, c.depth)
	next, err := c.encodeSym(idx, s)
	if err != nil {
		return err
	}

	if c.depth < c.g.k {
		c.depth++
	}
	if next >= 0 {
		c.state = next
	}
	return nil
}

// Close flushes the range coder. The compressor is unusable afterwards.
func (c *Compressor) Close() error {
	return c.enc.Close()
}

// Graph exposes the model graph, read-only for callers.
func (c *Compressor) Graph() *Graph {
	return c.g
}

// preShorten drops a full-depth context by one symbol before coding, so
// the follow-up state keeps room for one more.
func preShorten(g *Graph, state int32, depth int) int32 {
	if depth < g.k {
		return state
	}
	cl := g.contextLen(int(state))
	if cl == 0 {
		return state
	}
	lo, _ := g.contextRange(int(state), cl-1)
	return int32(lo)
}

// encodeSym walks the escape chain for symbol class s starting at line
// idx and returns the next state.
func (c *Compressor) encodeSym(idx int32, s uint8) (int32, error) {
	g := c.g

	var reps []*int32
	found := -1

	ctx := g.contextLen(int(idx))
	lo, hi := g.nodeRange(int(idx))
	repVal := int(idx)
	for {
		freq := g.SymbolFrequencyRange(lo, hi)
		if freq.Count[s] > 0 {
			if err := c.encodeInterval(freq, int(s)); err != nil {
				return -1, err
			}
			found = g.findEdgeInRange(lo, hi, s)
			break
		}

		// symbol unseen in this context, escape to a shorter one
		c.log.Debug().Int("ctx", ctx).Int("line", repVal).Msg("escape")
		if err := c.encodeInterval(freq, symbolCount); err != nil {
			return -1, err
		}
		rep := new(int32)
		*rep = int32(repVal)
		g.Track(rep)
		reps = append(reps, rep)

		if ctx == 0 {
			// escaped out of the whole model, uniform backstop
			if err := c.enc.Encode(uint32(s), 1, symbolCount); err != nil {
				return -1, err
			}
			break
		}
		ctx--
		lo, hi = g.contextRange(int(idx), ctx)
		repVal = lo
	}

	return g.adoptSymbol(s, found, reps), nil
}

// encodeInterval codes the cumulative interval of the given slot,
// symbolCount addresses the escape slot.
func (c *Compressor) encodeInterval(freq Freq, slot int) error {
	if slot == symbolCount {
		return c.enc.Encode(freq.Total-freq.Escape, freq.Escape, freq.Total)
	}

	var start uint32
	for s := range slot {
		start += freq.Count[s]
	}
	return c.enc.Encode(start, freq.Count[slot], freq.Total)
}

// adoptSymbol performs the shared model transition after a symbol was
// coded: propagate frequencies when the symbol was present, then
// materialize the new edge at every escaped context, shortest context
// first, mirroring the recursion unwind of the escape chain. Returns the
// next state.
func (g *Graph) adoptSymbol(s uint8, found int, reps []*int32) int32 {
	next := int32(-1)
	if found >= 0 {
		g.increaseFrequencyRec(found, s)
		if len(reps) == 0 {
			next = int32(g.Forward(found))
		}
	}

	for i := len(reps) - 1; i >= 0; i-- {
		g.Untrack()
		next = g.insertEdge(int(*reps[i]), s)
	}
	return next
}

// increaseFrequencyRec raises the frequency of the coded edge and of the
// matching edge in every shorter context.
func (g *Graph) increaseFrequencyRec(edge int, s uint8) {
	mustIncFreq(g, edge)
	for ctx := g.contextLen(edge) - 1; ctx >= 0; ctx-- {
		lo, hi := g.contextRange(edge, ctx)
		j := g.findEdgeInRange(lo, hi, s)
		if j < 0 {
			break
		}
		mustIncFreq(g, j)
	}
}

// insertEdge materializes the edge for symbol class s at line idx: a free
// terminator edge is rewritten in place, otherwise a fresh edge line goes
// in. The target node line lands at the position keeping edge order and
// node order aligned, with the F boundaries shifted along. Returns the
// target node line.
func (g *Graph) insertEdge(idx int, s uint8) int32 {
	ln, err := g.LineGet(idx)
	if err != nil {
		panic("debruijn: logic error, tracked line out of range")
	}

	if ln.W == Dollar {
		// the node has a free terminator slot, claim it
		if err := g.store.ChangeSymbol(idx, s, false); err != nil {
			panic("debruijn: logic error, symbol change failed")
		}
		mustIncFreq(g, idx)
	} else {
		g.insertLineRaw(idx, Line{Last: false, W: valueFor(s, false), P: 1})
		for i := range g.f {
			if g.f[i] > int32(idx) {
				g.f[i]++
			}
		}
	}

	// the new edge's position among its symbol class dictates where its
	// target node keeps the edge/node order aligned
	rank := g.store.RankW(idx, s)

	var x int
	if rank == 0 {
		x = int(g.f[s])
		for i := int(s) + 1; i < symbolCount; i++ {
			g.f[i]++
		}
	} else {
		pos := g.store.SelectW(rank, s)
		x = g.Forward(pos-1) + 1
		for i := range g.f {
			if g.f[i] >= int32(x) {
				g.f[i]++
			}
		}
	}

	g.insertLineRaw(x, Line{Last: true, W: Dollar, P: 0})

	if ln.W != Dollar {
		e := idx
		if x <= e {
			e++
		}
		g.updateCSL(e)
	}
	g.updateCSL(x)

	return int32(x)
}

func mustIncFreq(g *Graph, i int) {
	if err := g.store.IncFreq(i, 1); err != nil {
		panic("debruijn: logic error, frequency bump out of range")
	}
}

// Decompressor decodes a symbol stream, rebuilding the same graph the
// compressor grew.
type Decompressor struct {
	g     *Graph
	dec   *rangecoder.Decoder
	state int32
	depth int
}

// NewDecompressor returns a decompressor reading coder input from r. The
// options must match the compressing side.
func NewDecompressor(r io.Reader, opts ...Option) (*Decompressor, error) {
	dec, err := rangecoder.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return &Decompressor{g: New(opts...), dec: dec}, nil
}

// DecompressSymbol decodes one base symbol and advances the model.
func (d *Decompressor) DecompressSymbol() (Value, error) {
	idx := preShorten(d.g, d.state, d.depth)

	sym, next, err := d.decodeSym(idx)
	if err != nil {
		return 0, err
	}

	if d.depth < d.g.k {
		d.depth++
	}
	if next >= 0 {
		d.state = next
	}
	return sym, nil
}

// decodeSym mirrors encodeSym decision for decision.
func (d *Decompressor) decodeSym(idx int32) (Value, int32, error) {
	g := d.g

	var reps []*int32
	found := -1
	var s uint8

	ctx := g.contextLen(int(idx))
	lo, hi := g.nodeRange(int(idx))
	repVal := int(idx)
	for {
		freq := g.SymbolFrequencyRange(lo, hi)
		slot, err := d.decodeInterval(freq)
		if err != nil {
			return 0, -1, err
		}

		if slot < symbolCount {
			s = uint8(slot)
			found = g.findEdgeInRange(lo, hi, s)
			break
		}

		// escape
		rep := new(int32)
		*rep = int32(repVal)
		g.Track(rep)
		reps = append(reps, rep)

		if ctx == 0 {
			v := d.dec.DecodeFreq(symbolCount)
			s = uint8(v)
			if err := d.dec.Decode(v, 1); err != nil {
				return 0, -1, err
			}
			break
		}
		ctx--
		lo, hi = g.contextRange(int(idx), ctx)
		repVal = lo
	}

	return valueFor(s, false), g.adoptSymbol(s, found, reps), nil
}

// decodeInterval locates and commits the slot the coder points at,
// symbolCount is the escape slot.
func (d *Decompressor) decodeInterval(freq Freq) (int, error) {
	v := d.dec.DecodeFreq(freq.Total)

	var start uint32
	for s, cnt := range freq.Count {
		if v < start+cnt {
			return s, d.dec.Decode(start, cnt)
		}
		start += cnt
	}
	return symbolCount, d.dec.Decode(freq.Total-freq.Escape, freq.Escape)
}

// Compress codes src, a sequence over {A,C,G,T}, into dst with a leading
// uvarint symbol count.
func Compress(dst io.Writer, src []byte, opts ...Option) error {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(src)))
	if _, err := dst.Write(hdr[:n]); err != nil {
		return err
	}

	c := NewCompressor(dst, opts...)
	for i, b := range src {
		v, ok := ValueOf(b)
		if !ok || v == Dollar {
			return fmt.Errorf("%w: %q at offset %d", ErrInvalidSymbol, b, i)
		}
		if err := c.CompressSymbol(v); err != nil {
			return err
		}
	}
	return c.Close()
}

// Decompress reverses Compress.
func Decompress(src io.Reader, opts ...Option) ([]byte, error) {
	br, ok := src.(interface {
		io.Reader
		io.ByteReader
	})
	if !ok {
		br = bufio.NewReader(src)
	}

	count, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}

	d, err := NewDecompressor(br, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, count)
	for range count {
		sym, err := d.DecompressSymbol()
		if err != nil {
			return nil, err
		}
		out = append(out, sym.Byte())
	}
	return out, nil
}
