// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

//go:build !no_lz

package lha

import (
	"lha/internal/bitreader"
	"lha/internal/lzhdecode"
)

func init() {
	decoderRegistry["-lzs-"] = func(_ *bitreader.Reader, adapter bitByteAdapter) (memberDecoder, error) {
		return lzhdecode.NewLzDecoder(adapter, 11, false), nil
	}
	decoderRegistry["-lz5-"] = func(_ *bitreader.Reader, adapter bitByteAdapter) (memberDecoder, error) {
		return lzhdecode.NewLzDecoder(adapter, 12, true), nil
	}
}
