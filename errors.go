// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import (
	"errors"
	"fmt"
	"io"

	"lha/internal/lzhdecode"
)

// Kind classifies an Error, per spec.md §7. Callers that need to
// distinguish failure modes should obtain the *Error with errors.As and
// compare its Kind field against these constants, not inspect Error's
// message.
type Kind int

const (
	// KindUnexpectedEOF: the byte source was exhausted mid-structure.
	KindUnexpectedEOF Kind = iota
	// KindHeaderChecksum: the level-0/1 8-bit sum over a header did not
	// match. Level-2/3 header CRCs are not verified, so those levels never
	// produce this kind.
	KindHeaderChecksum
	// KindMalformedHeader: an extended-header walk overran its bounds, or
	// fields combined in an impossible way.
	KindMalformedHeader
	// KindUnsupportedMethod: the member's method tag has no compiled-in
	// decoder (see the build-tag registry in decoder_*.go).
	KindUnsupportedMethod
	// KindMalformedTree: a Huffman code-length table failed to describe a
	// valid canonical code.
	KindMalformedTree
	// KindInvalidOffset: a decoded match distance was zero. Distances that
	// reach past the bytes written so far are not rejected; they read the
	// window's pre-fill.
	KindInvalidOffset
	// KindContentChecksum: the post-decode CRC-16 did not match the
	// header's file_crc16.
	KindContentChecksum
	// KindSizeMismatch: the decoder emitted a different byte count than
	// original_size, or consumed a different byte count than
	// compressed_size.
	KindSizeMismatch
	// KindIO: a pass-through error from the underlying byte source.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "unexpected EOF"
	case KindHeaderChecksum:
		return "header checksum mismatch"
	case KindMalformedHeader:
		return "malformed header"
	case KindUnsupportedMethod:
		return "unsupported method"
	case KindMalformedTree:
		return "malformed huffman tree"
	case KindInvalidOffset:
		return "invalid match offset"
	case KindContentChecksum:
		return "content checksum mismatch"
	case KindSizeMismatch:
		return "size mismatch"
	case KindIO:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// Error is the single error type this package returns for anything other
// than io.EOF from NextFile. It carries a Kind for programmatic dispatch
// and wraps the lower-level cause (if any) so errors.Is/errors.As keep
// working against that cause too.
//
// Generalized from internal/bzip2/bzip2.go's StructuralError string into a
// struct, because spec.md §7 requires a machine-checkable Kind rather than
// just a descriptive string.
type Error struct {
	Kind    Kind
	Context string // what was being parsed/decoded, for humans.
	Err     error  // wrapped cause, or nil.
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lha: %s: %s: %v", e.Context, e.Kind, e.Err)
	}
	return fmt.Sprintf("lha: %s: %s", e.Context, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// wrapDecodeError maps the internal/lzhdecode sentinel errors onto the
// public Kind vocabulary.
func wrapDecodeError(context string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, lzhdecode.ErrMalformedTree):
		return newError(KindMalformedTree, context, err)
	case errors.Is(err, lzhdecode.ErrInvalidOffset):
		return newError(KindInvalidOffset, context, err)
	case errors.Is(err, lzhdecode.ErrUnexpectedEOF), errors.Is(err, io.ErrUnexpectedEOF):
		return newError(KindUnexpectedEOF, context, err)
	default:
		return newError(KindIO, context, err)
	}
}
