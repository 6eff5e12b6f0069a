// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lha/internal/bitreader"
)

func TestLhV2MethodParamsKnown(t *testing.T) {
	cases := []struct {
		method           string
		windowBits, pBit int
	}{
		{"-lh4-", 12, 4},
		{"-lh5-", 13, 5},
		{"-lh6-", 15, 5},
		{"-lh7-", 16, 5},
		{"-lhx-", 17, 7},
	}
	for _, c := range cases {
		wb, pb, ok := LhV2MethodParams(c.method)
		if !ok {
			t.Fatalf("LhV2MethodParams(%q): ok = false, want true", c.method)
		}
		if wb != c.windowBits || pb != c.pBit {
			t.Fatalf("LhV2MethodParams(%q) = (%d, %d), want (%d, %d)", c.method, wb, pb, c.windowBits, c.pBit)
		}
	}
}

func TestLhV2MethodParamsUnknown(t *testing.T) {
	if _, _, ok := LhV2MethodParams("-lh9-"); ok {
		t.Fatal("LhV2MethodParams(\"-lh9-\"): ok = true, want false for an unrecognized tag")
	}
}

func TestNewLhV2DecoderWindowSize(t *testing.T) {
	d := NewLhV2Decoder(nil, 13, 5)
	if got, want := d.window.Cap(), 1<<13; got != want {
		t.Fatalf("window.Cap() = %d, want %d", got, want)
	}
	if d.np != 14 {
		t.Fatalf("np = %d, want 14 (windowBits+1)", d.np)
	}
}

// TestReadLensRejectsCountPastAlphabet reproduces a fuzzer-style input where
// the temp-tree code-length count (n) is larger than the alphabet it fills,
// so the loop would write past lens[tempAlphabetSize-1] if the i >= nn guard
// in readLens were missing. It must surface as ErrMalformedTree, not a
// slice-bounds panic.
func TestReadLensRejectsCountPastAlphabet(t *testing.T) {
	// 5 bits: n=20 (> tempAlphabetSize=19), so the outer loop in readLens
	// runs 20 times. Each of the 20 iterations reads a plain 3-bit length
	// "000" before its bounds check; after the 3rd one (i reaches
	// tempSpecialIndex==3) a 2-bit zero-run count "00" (no-op) is read too.
	// The 20th iteration (i==19) reads its 3 bits, then fails the i >= nn
	// guard since lens only has 19 valid slots (0..18).
	bits := "10100" + strings.Repeat("000", 3) + "00" + strings.Repeat("000", 17)
	d := NewLhV2Decoder(bitreader.New(bytes.NewReader(bitString(bits))), 13, 5)
	_, err := d.readLens(tempAlphabetSize, tempCountBits, tempSpecialIndex, nil)
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("readLens with an over-long count = %v, want ErrMalformedTree", err)
	}
}
