// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import "errors"

// StructuralError is a string-backed error type for violations of the
// lh1/lhv2/lz decoders' invariants; no decoder in this package currently
// returns it. The decoders return the sentinels below instead, which the
// root lha package maps into its own typed Error with a machine-checkable
// Kind using errors.Is rather than string matching.
type StructuralError string

func (s StructuralError) Error() string {
	return "lzh: " + string(s)
}

var (
	// ErrMalformedTree is returned when a code-length table cannot build a
	// valid canonical Huffman tree (overflowing or incomplete code space).
	ErrMalformedTree = errors.New("lzh: malformed huffman tree")

	// ErrInvalidOffset is returned when a decoded match distance is zero.
	// There is no check against the window's initialized span.
	ErrInvalidOffset = errors.New("lzh: invalid match offset")

	// ErrUnexpectedEOF mirrors io.ErrUnexpectedEOF for callers that only
	// import this package's sentinels.
	ErrUnexpectedEOF = errors.New("lzh: unexpected end of compressed data")
)
