// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

//go:build !no_lhx

package lha

import (
	"lha/internal/bitreader"
	"lha/internal/lzhdecode"
)

func init() {
	decoderRegistry["-lhx-"] = func(br *bitreader.Reader, _ bitByteAdapter) (memberDecoder, error) {
		wb, pb, _ := lzhdecode.LhV2MethodParams("-lhx-")
		return lzhdecode.NewLhV2Decoder(br, wb, pb), nil
	}
}
