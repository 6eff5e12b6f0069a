// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

//go:build !no_lh1

package lha

import (
	"lha/internal/bitreader"
	"lha/internal/lzhdecode"
)

func init() {
	decoderRegistry["-lh1-"] = func(br *bitreader.Reader, _ bitByteAdapter) (memberDecoder, error) {
		return lzhdecode.NewLh1Decoder(br)
	}
}
