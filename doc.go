// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lha parses LHA/LZH archive headers (levels 0 through 3) and
// decompresses member payloads (the -lh0-, -lh1-, -lh4- through -lh7-,
// -lhx-, -lz4-, -lz5- and -lzs- methods; -lh2- and -lh3- have no decoder),
// verifying each member's CRC-16/ARC as it goes.
//
// The package never touches a filesystem, never resolves symlinks, and
// never writes anything; it only parses and decodes. Extraction safety
// (absolute paths, "..", unsafe symlinks) is the caller's responsibility —
// see cmd/lha-extract for one way to do that.
package lha
