// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import "testing"

func TestCRC16Known(t *testing.T) {
	// CRC-16/ARC of "123456789" is the canonical check value 0xBB3D.
	var c CRC16
	c.Update([]byte("123456789"))
	if got := c.Sum(); got != 0xBB3D {
		t.Fatalf("CRC16(%q) = %#04x, want 0xbb3d", "123456789", got)
	}
}

func TestCRC16Empty(t *testing.T) {
	var c CRC16
	if got := c.Sum(); got != 0 {
		t.Fatalf("CRC16 of nothing = %#04x, want 0", got)
	}
}

func TestCRC16Incremental(t *testing.T) {
	data := []byte("the quick brown fox")
	var whole CRC16
	whole.Update(data)

	var parts CRC16
	parts.Update(data[:7])
	parts.Update(data[7:])

	if whole.Sum() != parts.Sum() {
		t.Fatalf("incremental CRC16 = %#04x, whole-buffer CRC16 = %#04x", parts.Sum(), whole.Sum())
	}
}

func TestCRC16Reset(t *testing.T) {
	var c CRC16
	c.Update([]byte("abc"))
	c.Reset()
	if got := c.Sum(); got != 0 {
		t.Fatalf("after Reset, Sum() = %#04x, want 0", got)
	}
}

func TestHeaderChecksum8(t *testing.T) {
	// The additive 8-bit checksum wraps mod 256.
	buf := []byte{0xff, 0xff, 0x02}
	if got := HeaderChecksum8(buf); got != 0x00 {
		t.Fatalf("HeaderChecksum8(%v) = %#02x, want 0x00", buf, got)
	}
	if got := HeaderChecksum8(nil); got != 0 {
		t.Fatalf("HeaderChecksum8(nil) = %#02x, want 0", got)
	}
}
