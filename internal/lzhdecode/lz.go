// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import "io"

// StoredDecoder implements -lh0-/-lhd-/-pm0-/-lz4-: no compression at all, bytes
// pass straight through. Grounded on the teacher's own "setup" path for an
// empty/degenerate bzip2 stream (internal/bzip2/bzip2.go's reader falling
// straight through to io.Reader semantics when there is nothing left to
// decode) generalized into its own tiny decoder so DecodeReader can dispatch
// to it exactly like every other method tag.
type StoredDecoder struct {
	r io.ByteReader
}

// NewStoredDecoder wraps r, copying bytes through unchanged.
func NewStoredDecoder(r io.ByteReader) *StoredDecoder { return &StoredDecoder{r: r} }

func (s *StoredDecoder) Read(out []byte) (int, error) {
	for i := range out {
		b, err := s.r.ReadByte()
		if err != nil {
			return i, err
		}
		out[i] = b
	}
	return len(out), nil
}

// LzDecoder implements the LZSS family predating the Huffman-coded
// generation: -lzs- (2048-byte window) and -lz5- (4096-byte window,
// pre-filled per the classical LHarc table). -lz4- is stored data and is
// handled by StoredDecoder, not here. Grounded on RingWindow (window.go), itself
// grounded on the ym-player reference decoder's ring-buffer idiom; -lz5-'s
// flag/length/position wire shape is the direct ancestor the later lh4/5/6/7
// Huffman-coded block format (lhv2.go) replaced the static-code parts of.
type LzDecoder struct {
	r      io.ByteReader
	window *RingWindow
	lz5    bool // selects the -lz5- wire shape; false means -lzs-.

	flags    byte
	flagBits int

	pendingLen int
	pendingPos int
}

const (
	lz5Threshold = 3 // -lz5-: 12-bit position + 4-bit (length-3), per spec.md §4.6.
	lzsThreshold = 2 // -lzs-: 11-bit position + 4-bit (length-2), per spec.md §4.6.
)

// lz5Prefill reproduces the canonical LHarc seed table classical -lz5-
// encoders assume already occupies the window before the first byte of
// compressed data, so that back-references near the start of a member
// resolve the same way on decode as they did on encode: a 256x13 ascending
// ramp (0 repeated 13 times, 1 repeated 13 times, ...), a single ascending
// 0..255 pass, a single descending 255..0 pass, and 128 zero bytes, in that
// order (3968 bytes); any capacity left over (the last 128 bytes of the
// classical 4096-byte window) is padded with spaces same as a bare -lzs-
// fill.
func lz5Prefill(w *RingWindow) {
	pos := 0
	write := func(b byte) bool {
		if pos >= w.Cap() {
			return false
		}
		w.buf[pos] = b
		pos++
		return true
	}
	for i := 0; i < 256; i++ {
		for j := 0; j < 13; j++ {
			if !write(byte(i)) {
				return
			}
		}
	}
	for i := 0; i < 256; i++ {
		if !write(byte(i)) {
			return
		}
	}
	for i := 255; i >= 0; i-- {
		if !write(byte(i)) {
			return
		}
	}
	for i := 0; i < 128; i++ {
		if !write(0) {
			return
		}
	}
	for pos < w.Cap() {
		w.buf[pos] = ' '
		pos++
	}
}

// NewLzDecoder constructs a decoder for -lzs- (windowBits=11, 2048 bytes,
// pre-filled with spaces) or -lz5- (windowBits=12, 4096 bytes, classical
// ramp/ascending/descending/zero prefill applied).
func NewLzDecoder(r io.ByteReader, windowBits int, lz5 bool) *LzDecoder {
	w := NewRingWindow(1<<uint(windowBits), ' ')
	if lz5 {
		lz5Prefill(w)
	}
	return &LzDecoder{r: r, window: w, lz5: lz5}
}

func (d *LzDecoder) nextFlagBit() (bool, error) {
	if d.flagBits == 0 {
		b, err := d.r.ReadByte()
		if err != nil {
			return false, err
		}
		d.flags = b
		d.flagBits = 8
	}
	bit := d.flags&0x01 != 0
	d.flags >>= 1
	d.flagBits--
	return bit, nil
}

// Read decodes up to len(out) plaintext bytes.
func (d *LzDecoder) Read(out []byte) (int, error) {
	produced := 0
	for produced < len(out) {
		if d.pendingLen > 0 {
			n := d.pendingLen
			if n > len(out)-produced {
				n = len(out) - produced
			}
			d.window.CopyAbsolute(out[produced:produced+n], d.pendingPos, n)
			produced += n
			d.pendingLen -= n
			d.pendingPos += n
			continue
		}

		isMatch, err := d.nextFlagBit()
		if err != nil {
			return produced, err
		}
		if !isMatch {
			b, err := d.r.ReadByte()
			if err != nil {
				return produced, err
			}
			out[produced] = d.window.Push(b)
			produced++
			continue
		}

		lo, err := d.r.ReadByte()
		if err != nil {
			return produced, err
		}
		hi, err := d.r.ReadByte()
		if err != nil {
			return produced, err
		}
		// position is an absolute ring-buffer index, not a distance behind
		// the current write pointer (see RingWindow.CopyAbsolute). -lz5- packs
		// a 12-bit position (lo, then the low nibble of hi) and a 4-bit
		// length (the high nibble of hi) beyond lz5Threshold; -lzs- packs an
		// 11-bit position (lo, then the low 3 bits of hi) and a 4-bit length
		// beyond lzsThreshold, per spec.md §4.6.
		var position, length int
		if d.lz5 {
			position = int(lo) | (int(hi&0x0f) << 8)
			length = int(hi>>4) + lz5Threshold
		} else {
			position = int(lo) | (int(hi&0x07) << 8)
			length = int((hi>>3)&0x0f) + lzsThreshold
		}

		d.pendingLen = length
		d.pendingPos = position
	}
	return produced, nil
}
