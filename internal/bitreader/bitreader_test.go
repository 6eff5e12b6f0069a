// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitreader

import (
	"bytes"
	"io"
	"testing"
)

func TestReadMSBFirst(t *testing.T) {
	// 0xb4 0x2f = 1011 0100 0010 1111
	br := New(bytes.NewReader([]byte{0xb4, 0x2f}))
	want := []struct {
		n uint
		v uint16
	}{
		{1, 1}, {1, 0}, {1, 1}, {1, 1},
		{4, 0x4},
		{8, 0x2f},
	}
	for i, w := range want {
		if got := br.Read(w.n); got != w.v {
			t.Fatalf("step %d: Read(%d) = %#x, want %#x", i, w.n, got, w.v)
		}
	}
	if err := br.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	br := New(bytes.NewReader([]byte{0xff, 0x00}))
	p1 := br.Peek(4)
	p2 := br.Peek(4)
	if p1 != p2 {
		t.Fatalf("Peek not idempotent: %#x vs %#x", p1, p2)
	}
	if p1 != 0xf {
		t.Fatalf("Peek(4) = %#x, want 0xf", p1)
	}
	br.Skip(4)
	if got := br.Peek(4); got != 0xf {
		t.Fatalf("after Skip(4), Peek(4) = %#x, want 0xf", got)
	}
}

func TestReadBit(t *testing.T) {
	br := New(bytes.NewReader([]byte{0x80}))
	if !br.ReadBit() {
		t.Fatal("ReadBit() = false, want true for 0x80's top bit")
	}
	if br.ReadBit() {
		t.Fatal("ReadBit() = true, want false for 0x80's second bit")
	}
}

func TestUnexpectedEOF(t *testing.T) {
	br := New(bytes.NewReader([]byte{0x01}))
	br.Read(8)
	br.Read(8)
	if err := br.Err(); err != io.ErrUnexpectedEOF {
		t.Fatalf("Err() = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestBytesConsumed(t *testing.T) {
	br := New(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	br.Read(20) // spans 3 bytes.
	if got := br.BytesConsumed(); got != 3 {
		t.Fatalf("BytesConsumed() = %d, want 3", got)
	}
}

func TestAlignToByte(t *testing.T) {
	br := New(bytes.NewReader([]byte{0xff, 0x00, 0xff}))
	br.Read(3)
	br.AlignToByte()
	if got := br.Read(8); got != 0x00 {
		t.Fatalf("after AlignToByte, Read(8) = %#x, want 0x00", got)
	}
}

func TestReset(t *testing.T) {
	br := New(bytes.NewReader([]byte{0xff}))
	br.Read(4)
	br.Reset(bytes.NewReader([]byte{0x00}))
	if got := br.Read(4); got != 0 {
		t.Fatalf("after Reset, Read(4) = %#x, want 0", got)
	}
	if br.BytesConsumed() != 1 {
		t.Fatalf("after Reset, BytesConsumed() = %d, want 1", br.BytesConsumed())
	}
}
