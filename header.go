// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import (
	"bytes"
	"time"
)

// TimeDisposition records how a Header's Timestamp was recovered, since
// LHA has no single canonical timestamp representation across header
// levels (spec.md §3).
type TimeDisposition int

const (
	// TimeUnknown: no timestamp field was present at all.
	TimeUnknown TimeDisposition = iota
	// TimeLocal: an MS-DOS packed timestamp (levels 0/1's fixed field),
	// with no associated time zone.
	TimeLocal
	// TimeUTC: a Unix epoch timestamp recovered from an extended header
	// (tag 0x41 or 0x54).
	TimeUTC
)

// Timestamp is the canonical tuple spec.md §3 requires every Header to
// expose, regardless of which wire representation produced it.
type Timestamp struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Disposition          TimeDisposition
}

// OSType identifies the encoder OS that produced a member, which per
// spec.md's Design Note drives only path/comment decoding — never
// filesystem behavior (that stays the caller's job).
type OSType byte

const (
	OSGeneric OSType = 0
	OSMSDOS   OSType = 'M'
	OSUnix    OSType = 'U'
	OSJapan   OSType = 'J'
	OSAmiga   OSType = 'A'
	OSUnknown OSType = 0xff
)

func osTypeFromByte(b byte) OSType {
	switch b {
	case 0, ' ', 'M', '\\':
		return OSMSDOS
	case 'U', '2', '9':
		return OSUnix
	case 'J':
		return OSJapan
	case 'A':
		return OSAmiga
	default:
		return OSUnknown
	}
}

// ExtendedHeader is a single (tag, payload) record from a level-1/2/3
// extended-header chain, preserved verbatim alongside whatever named
// Header field it was merged into (spec.md §4.7 step 4).
type ExtendedHeader struct {
	Tag     byte
	Payload []byte
}

// Known extended-header tags (spec.md §4.7 step 4, plus SPEC_FULL.md §7's
// supplemented 0x39/0x7F).
const (
	extTagCommon       = 0x00
	extTagFilename     = 0x01
	extTagDirectory    = 0x02
	extTagMultiVolume  = 0x39
	extTagComment      = 0x3f
	extTagMSDOSAttrs   = 0x40
	extTagWindowsTime  = 0x41
	extTagFileSize64   = 0x42
	extTagUnixPerm     = 0x50
	extTagUnixUIDGID   = 0x51
	extTagUnixGroup    = 0x52
	extTagUnixGroup7F  = 0x7f
	extTagUnixModTime  = 0x54
)

// Header is the immutable, parsed record of one archive member, produced
// by ParseHeader and never mutated thereafter (spec.md §3: "a Header is
// created by parsing, immutable thereafter").
type Header struct {
	method          string
	level           int
	compressedSize  uint64
	originalSize    uint64
	timestamp       Timestamp
	osType          OSType
	osTypeRaw       byte
	crc16           uint16
	headerCRC16     uint16
	attributes      uint8
	rawPath         []byte
	comment         string
	extendedHeaders []ExtendedHeader
}

func (h *Header) Method() string                    { return h.method }
func (h *Header) Level() int                        { return h.level }
func (h *Header) CompressedSize() uint64             { return h.compressedSize }
func (h *Header) OriginalSize() uint64               { return h.originalSize }
func (h *Header) Timestamp() Timestamp               { return h.timestamp }
func (h *Header) OSType() OSType                     { return h.osType }
func (h *Header) CRC16() uint16                      { return h.crc16 }
func (h *Header) Attributes() uint8                  { return h.attributes }
func (h *Header) RawPath() []byte                    { return append([]byte(nil), h.rawPath...) }
func (h *Header) Comment() string                    { return h.comment }
func (h *Header) ExtendedHeaders() []ExtendedHeader  { return append([]ExtendedHeader(nil), h.extendedHeaders...) }
func (h *Header) IsDirectory() bool                  { return h.method == "-lhd-" }

// Path normalizes the raw pathname per spec.md §4.7 step 5: `\` becomes
// `/`, trailing NUL-and-beyond (an Amiga comment) is stripped, and the
// result is returned as a string. A leading `/`, `..`, or drive letter is
// preserved verbatim — the caller, not this package, decides what to do
// about it.
func (h *Header) Path() string {
	p := h.rawPath
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(bytes.ReplaceAll(p, []byte{'\\'}, []byte{'/'}))
}

// ModTime converts Timestamp into a stdlib time.Time: UTC when the
// disposition is TimeUTC, otherwise the MS-DOS tuple interpreted in
// time.Local (the host's zone), zero time.Time when unknown.
func (h *Header) ModTime() time.Time {
	ts := h.timestamp
	switch ts.Disposition {
	case TimeUTC:
		return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, time.UTC)
	case TimeLocal:
		return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, time.Local)
	default:
		return time.Time{}
	}
}
