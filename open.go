// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import (
	"io"
	"os"
)

// Open returns a DecodeReader positioned at the start of the archive
// stream r. This and OpenFile, together with Walk, are the "external
// collaborator" conveniences kept inside the core package; none of them
// opens more than the one handed-in source, creates directories, or
// resolves symlinks.
func Open(r io.Reader, opts ...DecoderOption) *DecodeReader {
	return NewDecodeReader(r, opts...)
}

// OpenFile opens path and returns a DecodeReader over its contents.
// Callers should call DecodeReader.Close when done, which closes the
// underlying *os.File.
func OpenFile(path string, opts ...DecoderOption) (*DecodeReader, error) {
	f, err := os.Open(path) //#nosec G304 -- path is caller-supplied by design.
	if err != nil {
		return nil, newError(KindIO, path, err)
	}
	return NewDecodeReader(f, opts...), nil
}
