// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import (
	"bytes"
	"io"
	"testing"
)

func TestWalkVisitsEveryMember(t *testing.T) {
	var archive bytes.Buffer
	archive.Write(buildStoredMember("one.txt", []byte("111")))
	archive.Write(buildStoredMember("two.txt", []byte("22222")))
	archive.WriteByte(0)

	d := NewDecodeReader(bytes.NewReader(archive.Bytes()))
	var paths []string
	var contents []string
	err := Walk(d, func(h *Header, r io.Reader) error {
		paths = append(paths, h.Path())
		b, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		contents = append(contents, string(b))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got, want := paths, []string{"one.txt", "two.txt"}; !equalStrings(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	if got, want := contents, []string{"111", "22222"}; !equalStrings(got, want) {
		t.Fatalf("contents = %v, want %v", got, want)
	}
}

func TestWalkSkipsUnreadContentBetweenCallbacks(t *testing.T) {
	var archive bytes.Buffer
	archive.Write(buildStoredMember("one.txt", []byte("ignored")))
	archive.Write(buildStoredMember("two.txt", []byte("seen")))
	archive.WriteByte(0)

	d := NewDecodeReader(bytes.NewReader(archive.Bytes()))
	var paths []string
	err := Walk(d, func(h *Header, r io.Reader) error {
		// Never reads r: Walk/NextFile must skip the remainder on its own.
		paths = append(paths, h.Path())
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got, want := paths, []string{"one.txt", "two.txt"}; !equalStrings(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
}

func TestWalkPropagatesCallbackError(t *testing.T) {
	var archive bytes.Buffer
	archive.Write(buildStoredMember("one.txt", []byte("x")))
	archive.WriteByte(0)

	d := NewDecodeReader(bytes.NewReader(archive.Bytes()))
	boom := io.ErrClosedPipe
	err := Walk(d, func(h *Header, r io.Reader) error {
		return boom
	})
	if err != boom {
		t.Fatalf("Walk error = %v, want %v", err, boom)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
