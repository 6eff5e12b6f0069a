// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import "lha/internal/bitreader"

// Block-structured static-Huffman decoder shared by -lh4-/-lh5-/-lh6-/-lh7-
// and the experimental -lhx-, per spec.md §4.5.
//
// Grounded directly on the retrieved olivierh59500/ym-player lzh decoder
// (other_examples/...-ym-player__pkg-lzh-decoder.go.go), whose
// read_pt_len/read_c_len/decode_c/decode_p/decodeBuffer is the concrete,
// known-correct algorithm real lh4/5 encoders produce; spec.md §4.5's prose
// paraphrases the same algorithm but blends the literal/length run-length
// escape (§4.5 step 3) and the temp-tree zero-run escape (§4.5 step 2) in a
// way that doesn't quite match either historical implementation in the
// pack. Per spec.md Design Note ("an implementer encountering discordant
// fixtures should flag rather than guess"), this decoder follows the
// retrieved reference implementation's bit layout rather than the prose,
// since that is what any archive actually produced by lh4/5/6/7 encoders
// will contain.
const (
	literalAlphabetSize = 510 // NC: 256 literals + 254 length codes.
	tempAlphabetSize    = 19  // NT: temp-tree alphabet, 0..18.
	tempCountBits       = 5   // TBIT.
	tempSpecialIndex    = 3   // the temp-tree zero-run escape index.
	literalCountBits    = 9   // CBIT.
)

// methodParams carries the two values that vary by method tag: the log2 of
// the sliding window capacity, and the bit width of the position
// code-length count field. spec.md's Open Question about -lhx- is resolved
// by making both caller-overridable rather than hard-coded per tag.
type methodParams struct {
	WindowBits int
	PBit       int
}

var lhv2Methods = map[string]methodParams{
	"-lh4-": {WindowBits: 12, PBit: 4},
	"-lh5-": {WindowBits: 13, PBit: 5},
	"-lh6-": {WindowBits: 15, PBit: 5},
	"-lh7-": {WindowBits: 16, PBit: 5},
	"-lhx-": {WindowBits: 17, PBit: 7}, // spec.md's fixed 128 KiB window.
}

// LhV2MethodParams returns the (windowBits, pBit) pair for a known lhv2
// method tag, and whether the tag is recognized.
func LhV2MethodParams(method string) (windowBits, pBit int, ok bool) {
	p, ok := lhv2Methods[method]
	return p.WindowBits, p.PBit, ok
}

// LhV2Decoder implements the block-structured decoder described above.
type LhV2Decoder struct {
	br     *bitreader.Reader
	window *RingWindow
	pBit   int
	np     int // position alphabet size: WindowBits+1.

	blockRemaining int
	tempTree       *DynHuffman
	litTree        *DynHuffman
	posTree        *DynHuffman

	pendingLen int // bytes still to copy from a match in progress.
	pendingPos int // window distance of the match in progress.
}

// NewLhV2Decoder constructs a decoder for one of -lh4-/-lh5-/-lh6-/-lh7-/
// -lhx-. windowBits and pBit are normally obtained via LhV2MethodParams.
func NewLhV2Decoder(br *bitreader.Reader, windowBits, pBit int) *LhV2Decoder {
	return &LhV2Decoder{
		br:     br,
		window: NewRingWindow(1<<uint(windowBits), 0x20),
		pBit:   pBit,
		np:     windowBits + 1,
	}
}

// readLens reads a code-length table of nn entries, nbit-wide count field,
// using the temp tree for entries beyond the raw escape (tempTree == nil on
// the first call, which is how the temp tree's own lengths are read).
// specialIndex, if >= 0, triggers the zero-run escape at that slot index
// (used only for the temp tree itself, per spec.md §4.5 step 2).
func (d *LhV2Decoder) readLens(nn, nbit, specialIndex int, tree *DynHuffman) ([]uint8, error) {
	n := int(d.br.Read(uint(nbit)))
	lens := make([]uint8, nn)
	if n == 0 {
		c := d.br.Read(uint(nbit))
		if int(c) < nn {
			lens[c] = 1
		}
		return lens, nil
	}

	i := 0
	for i < n {
		var length int
		if tree == nil {
			// Reading the temp tree's own lengths: a literal 3-bit value,
			// extended by consecutive 1-bits when it saturates at 7 (more
			// than 7 requires unary extension, mirroring the reference
			// decoder's read_pt_len bit-peeking). The 3-bit value is consumed
			// first; the unary run is then peeked from the bits that follow
			// it, not re-read from the same three bits.
			c := int(d.br.Peek(3))
			d.br.Skip(3)
			if c == 7 {
				extra := 0
				for d.br.Peek(1) == 1 && extra < 13 {
					d.br.Skip(1)
					extra++
				}
				c += extra
				d.br.Skip(1) // terminating zero bit, if not truncated.
			}
			length = c
		} else {
			sym, err := tree.Decode(d.br)
			if err != nil {
				return nil, err
			}
			length = int(sym)
		}

		if i >= nn {
			return nil, ErrMalformedTree
		}
		lens[i] = uint8(length) //#nosec G115 -- code lengths are <= 16 by format.
		i++

		if specialIndex >= 0 && i == specialIndex {
			rep := int(d.br.Read(2))
			for ; rep > 0 && i < nn; rep-- {
				lens[i] = 0
				i++
			}
		}
	}
	for i < nn {
		lens[i] = 0
		i++
	}
	if d.br.Err() != nil {
		return nil, d.br.Err()
	}
	return lens, nil
}

// readLitLens reads the literal/length code lengths (spec.md §4.5 step 3),
// which has its own zero-run escape vocabulary distinct from the temp
// tree's.
func (d *LhV2Decoder) readLitLens() ([]uint8, error) {
	n := int(d.br.Read(literalCountBits))
	lens := make([]uint8, literalAlphabetSize)
	if n == 0 {
		c := d.br.Read(literalCountBits)
		if int(c) < literalAlphabetSize {
			lens[c] = 1
		}
		return lens, nil
	}

	i := 0
	for i < n {
		sym, err := d.tempTree.Decode(d.br)
		if err != nil {
			return nil, err
		}
		switch {
		case sym == 0:
			if i >= literalAlphabetSize {
				return nil, ErrMalformedTree
			}
			lens[i] = 0
			i++
		case sym == 1:
			rep := int(d.br.Read(4)) + 3
			for ; rep > 0 && i < literalAlphabetSize; rep-- {
				lens[i] = 0
				i++
			}
		case sym == 2:
			rep := int(d.br.Read(literalCountBits)) + 20
			for ; rep > 0 && i < literalAlphabetSize; rep-- {
				lens[i] = 0
				i++
			}
		default:
			if i >= literalAlphabetSize {
				return nil, ErrMalformedTree
			}
			lens[i] = uint8(sym - 2) //#nosec G115 -- sym < tempAlphabetSize.
			i++
		}
	}
	for i < literalAlphabetSize {
		lens[i] = 0
		i++
	}
	if d.br.Err() != nil {
		return nil, d.br.Err()
	}
	return lens, nil
}

// readBlockHeader reads one full block header: block size, temp tree,
// literal/length tree, position tree.
func (d *LhV2Decoder) readBlockHeader() error {
	d.blockRemaining = int(d.br.Read(16))
	if d.br.Err() != nil {
		return d.br.Err()
	}

	tempLens, err := d.readLens(tempAlphabetSize, tempCountBits, tempSpecialIndex, nil)
	if err != nil {
		return err
	}
	d.tempTree, err = NewDynHuffman(tempLens)
	if err != nil {
		return err
	}

	litLens, err := d.readLitLens()
	if err != nil {
		return err
	}
	d.litTree, err = NewDynHuffman(litLens)
	if err != nil {
		return err
	}

	posLens, err := d.readLens(d.np, d.pBit, -1, nil)
	if err != nil {
		return err
	}
	d.posTree, err = NewDynHuffman(posLens)
	if err != nil {
		return err
	}
	return nil
}

// Read decodes up to len(out) plaintext bytes into out and returns how many
// were produced. It returns an error only on a genuine decode failure;
// io.EOF is never returned (the caller, DecodeReader, knows the target
// original_size and stops calling once reached).
func (d *LhV2Decoder) Read(out []byte) (int, error) {
	produced := 0
	for produced < len(out) {
		if d.pendingLen > 0 {
			n := d.pendingLen
			if n > len(out)-produced {
				n = len(out) - produced
			}
			if err := d.window.Copy(out[produced:produced+n], d.pendingPos, n); err != nil {
				return produced, err
			}
			produced += n
			d.pendingLen -= n
			continue
		}

		if d.blockRemaining == 0 {
			if err := d.readBlockHeader(); err != nil {
				return produced, err
			}
		}
		d.blockRemaining--

		sym, err := d.litTree.Decode(d.br)
		if err != nil {
			return produced, err
		}
		if sym < 256 {
			out[produced] = d.window.Push(byte(sym))
			produced++
			continue
		}

		length := int(sym) - 253 // 3..256, per spec.md §4.5.
		posSym, err := d.posTree.Decode(d.br)
		if err != nil {
			return produced, err
		}
		var offset int
		if posSym == 0 {
			offset = 0
		} else {
			extra := int(posSym) - 1
			offset = (1 << uint(extra)) | int(d.br.Read(uint(extra)))
		}
		if d.br.Err() != nil {
			return produced, d.br.Err()
		}

		d.pendingLen = length
		d.pendingPos = offset + 1
	}
	return produced, nil
}
