// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

// RingWindow is a fixed-capacity circular byte buffer used as the
// back-reference dictionary for every LZSS-derived decoder (lh1, lhv2,
// lz5, lzs). Capacity is always a power of two so that position wrap-around
// is a mask rather than a modulus.
//
// Grounded on the single-array ring buffer ("outbuf", "decode_i",
// "decode_j") used by the retrieved olivierh59500/ym-player lzh decoder,
// generalized into a standalone type so lh1/lhv2/lz decoders can share it
// instead of each re-deriving the wrap-around arithmetic.
type RingWindow struct {
	buf  []byte
	mask uint32
	pos  uint32 // index of the next byte to be written.
	fill uint32 // total bytes ever written, capped at capacity.
}

// NewRingWindow allocates a window of the given capacity, which must be a
// power of two, pre-filled with fillByte (0x20 for lhv2/lz5, 0x00 for lh1,
// per spec.md §4.2).
func NewRingWindow(capacity int, fillByte byte) *RingWindow {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("lzhdecode: RingWindow capacity must be a positive power of two")
	}
	w := &RingWindow{
		buf:  make([]byte, capacity),
		mask: uint32(capacity - 1),
	}
	if fillByte != 0 {
		for i := range w.buf {
			w.buf[i] = fillByte
		}
	}
	return w
}

// Cap returns the window's capacity in bytes.
func (w *RingWindow) Cap() int {
	return len(w.buf)
}

// Push appends a single byte, overwriting the oldest byte once full, and
// returns it (convenient for callers that both emit and buffer a literal).
func (w *RingWindow) Push(b byte) byte {
	w.buf[w.pos] = b
	w.pos = (w.pos + 1) & w.mask
	if w.fill < uint32(len(w.buf)) {
		w.fill++
	}
	return b
}

// Copy writes length bytes to out, each sourced distance bytes behind the
// current write position (1-based distance, per spec.md §4.2), and appends
// each byte to the window before producing the next — giving the LZSS
// self-overlapping semantics a single copy with distance < length requires.
// It returns ErrInvalidOffset if distance is zero.
func (w *RingWindow) Copy(out []byte, distance, length int) error {
	if distance < 1 {
		return ErrInvalidOffset
	}
	d := uint32(distance)
	for i := 0; i < length; i++ {
		srcPos := (w.pos - d) & w.mask
		b := w.buf[srcPos]
		out[i] = w.Push(b)
	}
	return nil
}

// CopyAbsolute writes length bytes to out, reading starting at the ring
// buffer's absolute index startPos and advancing by one index per byte
// (wrapping via the window's mask). This is the classical Okumura-style
// LZSS addressing scheme -lz5-/-lzs- encoders use directly — the match
// target is a fixed buffer index, not a distance behind the current write
// position — which still gives the LZSS self-overlapping semantics since
// each byte is pushed (and so becomes visible to later reads) before the
// next one is produced.
func (w *RingWindow) CopyAbsolute(out []byte, startPos, length int) {
	pos := uint32(startPos) & w.mask
	for i := 0; i < length; i++ {
		b := w.buf[pos]
		out[i] = w.Push(b)
		pos = (pos + 1) & w.mask
	}
}

// Tail returns the last n bytes written, oldest first. It is intended for
// decoder tests only, as spec.md §4.2 notes.
func (w *RingWindow) Tail(n int) []byte {
	out := make([]byte, n)
	start := (w.pos - uint32(n)) & w.mask
	for i := 0; i < n; i++ {
		out[i] = w.buf[(start+uint32(i))&w.mask]
	}
	return out
}
