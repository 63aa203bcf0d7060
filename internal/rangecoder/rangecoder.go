// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package rangecoder implements a byte-oriented arithmetic range coder
// over cumulative frequency intervals. The encoder keeps a 33-bit low
// accumulator for carry propagation and renormalizes byte-wise whenever
// the range drops below 2^24; the decoder mirrors the arithmetic, so any
// sequence of matching Encode/Decode interval calls round-trips.
package rangecoder

import (
	"bufio"
	"errors"
	"io"
)

const (
	top     = 1 << 24
	initLen = 5 // flush/priming length in bytes
)

var errClosed = errors.New("rangecoder: encoder already closed")

// Encoder writes interval-coded output to a byte stream.
type Encoder struct {
	w   io.Writer
	bw  io.ByteWriter
	low uint64
	rng uint32

	cache    byte
	cacheLen int

	closed bool
	err    error
}

// NewEncoder returns an encoder writing to w. Writers without byte
// granularity are buffered internally and flushed on Close.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{
		w:        w,
		rng:      ^uint32(0),
		cacheLen: 1,
	}
	if bw, ok := w.(io.ByteWriter); ok {
		e.bw = bw
	} else {
		e.bw = bufio.NewWriter(w)
	}
	return e
}

// Encode narrows the coder to the cumulative interval [start, start+size)
// out of total. size must be nonzero and start+size must not exceed total.
func (e *Encoder) Encode(start, size, total uint32) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return errClosed
	}
	if size == 0 || start+size > total {
		panic("rangecoder: logic error, empty or overflowing interval")
	}

	r := e.rng / total
	e.low += uint64(start) * uint64(r)
	e.rng = r * size

	for e.rng < top {
		e.rng <<= 8
		e.shiftLow()
	}
	return e.err
}

// Close flushes the pending accumulator bytes. The encoder is unusable
// afterwards.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return errClosed
	}
	e.closed = true

	for range initLen {
		e.shiftLow()
	}
	if e.err != nil {
		return e.err
	}
	if bw, ok := e.bw.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

func (e *Encoder) shiftLow() {
	if uint32(e.low) < 0xFF000000 || e.low>>32 != 0 {
		carry := byte(e.low >> 32)
		b := e.cache
		for {
			if e.err == nil {
				e.err = e.bw.WriteByte(b + carry)
			}
			b = 0xFF
			e.cacheLen--
			if e.cacheLen == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheLen++
	e.low = e.low << 8 & 0xFFFFFFFF
}

// Decoder reads interval-coded input produced by Encoder.
type Decoder struct {
	br   io.ByteReader
	rng  uint32
	code uint32
	r    uint32
	err  error
}

// NewDecoder returns a decoder reading from r, priming itself with the
// leading accumulator bytes.
func NewDecoder(r io.Reader) (*Decoder, error) {
	d := &Decoder{rng: ^uint32(0)}
	if br, ok := r.(io.ByteReader); ok {
		d.br = br
	} else {
		d.br = bufio.NewReader(r)
	}

	for range initLen {
		b, err := d.br.ReadByte()
		if err != nil {
			return nil, err
		}
		d.code = d.code<<8 | uint32(b)
	}
	return d, nil
}

// DecodeFreq returns the cumulative frequency value the coder currently
// points at, in [0, total). The caller locates the owning symbol interval
// and commits it with Decode.
func (d *Decoder) DecodeFreq(total uint32) uint32 {
	d.r = d.rng / total
	v := d.code / d.r
	if v >= total {
		v = total - 1
	}
	return v
}

// Decode commits the interval [start, start+size) chosen after the
// preceding DecodeFreq call.
func (d *Decoder) Decode(start, size uint32) error {
	if d.err != nil {
		return d.err
	}

	d.code -= start * d.r
	d.rng = d.r * size

	for d.rng < top {
		b, err := d.br.ReadByte()
		if err != nil {
			d.err = err
			return err
		}
		d.code = d.code<<8 | uint32(b)
		d.rng <<= 8
	}
	return nil
}
