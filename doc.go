// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package debruijn provides a dynamic succinct de Bruijn graph over the
// DNA alphabet {A,C,G,T} plus the terminator $, built for adaptive
// statistical compression.
//
// The graph is an XBWT-style succinct representation: lines sorted by
// reversed node label, a last-edge bit vector L, an edge symbol vector W
// and the cumulative F array encode nodes and edges. All vectors are
// dynamic rank/select structures, so new edges and nodes can be inserted
// while querying, which is what the PPM compression model on top needs:
// unseen contexts grow the graph at encode time, escape transitions
// shorten the context through the common-suffix-length machinery, and the
// per-edge frequencies drive the range coder.
//
// A Graph instance is owned by a single goroutine; distinct instances are
// independent.
package debruijn
