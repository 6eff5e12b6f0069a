// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import "io"

// Walk calls fn once per archive member in d, passing the member's Header
// and a reader bound to exactly that member's plaintext content. It is the
// "high-level iterator that walks file-after-file in an archive stream"
// spec.md §1 names as an external collaborator, built on the core's
// NextFile/Read without adding anything the core doesn't already expose —
// grounded on tarfs/tarfs.go's walk idiom.
//
// fn's reader becomes invalid once Walk calls fn again or returns; Walk
// fast-forwards past anything fn didn't read before moving on, the same
// way the core's own NextFile does.
func Walk(d *DecodeReader, fn func(*Header, io.Reader) error) error {
	for {
		h, err := d.NextFile()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(h, memberReader{d}); err != nil {
			return err
		}
	}
}

// memberReader adapts DecodeReader's current-member Read into a plain
// io.Reader for Walk's callback, translating the "0, nil at end of member"
// convention into a proper io.EOF (spec.md §6's Read contract is tuned for
// DecodeReader's own stateful cursor; io.Reader callers expect io.EOF).
type memberReader struct{ d *DecodeReader }

func (m memberReader) Read(buf []byte) (int, error) {
	n, err := m.d.Read(buf)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
