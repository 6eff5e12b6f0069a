// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lha

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"lha/internal/lzhdecode"
)

// headerReader accumulates every byte it reads from the underlying source
// into buf, so the checksum/CRC validators below can recompute over
// exactly the bytes that made up the header — mirroring how
// internal/bzip2/bit_reader.go tracks bytesRead for its own bookkeeping,
// generalized here to capture the bytes themselves rather than just a
// count.
type headerReader struct {
	r   io.Reader
	buf bytes.Buffer
}

func (hr *headerReader) readN(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(hr.r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, lzhdecode.ErrUnexpectedEOF
		}
		return nil, err
	}
	hr.buf.Write(b)
	return b, nil
}

func (hr *headerReader) readByte() (byte, error) {
	b, err := hr.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (hr *headerReader) readUint16() (uint16, error) {
	b, err := hr.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (hr *headerReader) readUint32() (uint32, error) {
	b, err := hr.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// extHeaderSizeBytes returns the width of an extended-header size field for
// the given level (spec.md §4.7 step 3: 2 bytes for levels 1/2, 4 bytes for
// level 3, per the "like level 2 but size fields are 4-byte LE" rule).
func extHeaderSizeBytes(level int) int {
	if level >= 3 {
		return 4
	}
	return 2
}

// readExtendedHeaders walks the (size, tag, payload) chain until a
// zero-size record terminates it, per spec.md §4.7 step 3.
func readExtendedHeaders(hr *headerReader, level int) ([]ExtendedHeader, error) {
	sizeWidth := extHeaderSizeBytes(level)
	var out []ExtendedHeader
	for {
		var size int
		if sizeWidth == 4 {
			v, err := hr.readUint32()
			if err != nil {
				return nil, err
			}
			size = int(v)
		} else {
			v, err := hr.readUint16()
			if err != nil {
				return nil, err
			}
			size = int(v)
		}
		if size == 0 {
			return out, nil
		}
		if size < sizeWidth+1 {
			return nil, errors.New("extended header size too small")
		}
		tag, err := hr.readByte()
		if err != nil {
			return nil, err
		}
		payload, err := hr.readN(size - sizeWidth - 1)
		if err != nil {
			return nil, err
		}
		out = append(out, ExtendedHeader{Tag: tag, Payload: payload})
	}
}

// msdosToTimestamp decodes the classic packed MS-DOS date/time pair into a
// Timestamp with TimeLocal disposition.
func msdosToTimestamp(date, timeOfDay uint16) Timestamp {
	return Timestamp{
		Year:        1980 + int(date>>9),
		Month:       int((date >> 5) & 0x0f),
		Day:         int(date & 0x1f),
		Hour:        int(timeOfDay >> 11),
		Minute:      int((timeOfDay >> 5) & 0x3f),
		Second:      int(timeOfDay&0x1f) * 2,
		Disposition: TimeLocal,
	}
}

// unixToTimestamp decodes a 4-byte Unix epoch seconds value (extended
// header tags 0x41/0x54, or level 2/3's fixed field) into a UTC Timestamp.
func unixToTimestamp(epoch uint32) Timestamp {
	t := epochToCivil(int64(epoch))
	t.Disposition = TimeUTC
	return t
}

// epochToCivil converts Unix seconds to a civil calendar tuple without
// involving a time.Location (kept separate from ModTime's use of
// time.Time, since Timestamp is a plain value type per spec.md §3).
func epochToCivil(epoch int64) Timestamp {
	const secondsPerDay = 86400
	days := epoch / secondsPerDay
	rem := epoch % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	hour := int(rem / 3600)
	minute := int((rem % 3600) / 60)
	second := int(rem % 60)

	// Civil-from-days algorithm (Howard Hinnant's well-known formula),
	// avoiding a dependency on time.Time for a pure value conversion.
	z := days + 719468
	era := z
	if z < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
		y++
	}
	return Timestamp{Year: int(y), Month: int(m), Day: int(d), Hour: hour, Minute: minute, Second: second}
}

// mergeExtendedHeaders folds recognized extended-header tags into h,
// per spec.md §4.7 step 4 and SPEC_FULL.md §7's supplemented tags.
func mergeExtendedHeaders(h *Header, exts []ExtendedHeader) {
	h.extendedHeaders = exts
	for _, e := range exts {
		switch e.Tag {
		case extTagFilename:
			h.rawPath = e.Payload
		case extTagDirectory:
			dir := bytes.ReplaceAll(e.Payload, []byte{0xff}, []byte{'/'})
			h.rawPath = append(append([]byte(nil), dir...), h.rawPath...)
		case extTagComment:
			h.comment = string(e.Payload)
		case extTagMSDOSAttrs:
			if len(e.Payload) >= 2 {
				h.attributes = e.Payload[0]
			}
		case extTagWindowsTime, extTagUnixModTime:
			if len(e.Payload) >= 4 {
				h.timestamp = unixToTimestamp(binary.LittleEndian.Uint32(e.Payload))
			}
		case extTagFileSize64:
			if len(e.Payload) >= 16 {
				h.compressedSize = binary.LittleEndian.Uint64(e.Payload[0:8])
				h.originalSize = binary.LittleEndian.Uint64(e.Payload[8:16])
			}
		case extTagUnixGroup, extTagUnixGroup7F, extTagUnixUIDGID, extTagUnixPerm, extTagMultiVolume, extTagCommon:
			// Preserved raw in h.extendedHeaders; no named field to merge
			// into (spec.md §4.7 step 4 lists these as recognized but they
			// carry no data this package's Header surface exposes today).
		}
	}
}

// splitAmigaComment implements the Amiga (os_type 'A') NUL-split rule:
// everything after the first NUL in the raw path becomes Comment, and the
// path itself is truncated there (spec.md Design Note, SPEC_FULL.md §7).
func splitAmigaComment(h *Header) {
	if h.osType != OSAmiga {
		return
	}
	if i := bytes.IndexByte(h.rawPath, 0); i >= 0 {
		if h.comment == "" && i+1 < len(h.rawPath) {
			h.comment = string(h.rawPath[i+1:])
		}
		h.rawPath = h.rawPath[:i]
	}
}

// ParseHeader reads one archive member's header from r, per spec.md §4.7.
// It returns io.EOF when the first byte at a header boundary is 0 (the
// legitimate end-of-archive marker), never wrapped in *Error.
func ParseHeader(r io.Reader) (*Header, error) {
	firstBuf := make([]byte, 1)
	if _, err := io.ReadFull(r, firstBuf); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, newError(KindIO, "header", err)
	}
	if firstBuf[0] == 0 {
		return nil, io.EOF
	}

	hr := &headerReader{r: r}
	hr.buf.Write(firstBuf)
	headerSizeByte := firstBuf[0]

	checksum, err := hr.readByte()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header", err)
	}
	method, err := hr.readN(5)
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header method", err)
	}
	compSize32, err := hr.readUint32()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header compressed size", err)
	}
	origSize32, err := hr.readUint32()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header original size", err)
	}
	timeLo, err := hr.readUint16()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header time", err)
	}
	dateLo, err := hr.readUint16()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header date", err)
	}
	attr, err := hr.readByte()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header attribute", err)
	}
	level, err := hr.readByte()
	if err != nil {
		return nil, newError(KindUnexpectedEOF, "header level", err)
	}

	h := &Header{
		method:         string(method),
		level:          int(level),
		compressedSize: uint64(compSize32),
		originalSize:   uint64(origSize32),
		timestamp:      msdosToTimestamp(dateLo, timeLo),
		attributes:     attr,
	}

	switch h.level {
	case 0, 1:
		if err := parseLevel01(hr, h); err != nil {
			return nil, err
		}
	case 2, 3:
		if err := parseLevel23(hr, h); err != nil {
			return nil, err
		}
	default:
		return nil, newError(KindMalformedHeader, "header", errors.New("unknown header level"))
	}

	h.osType = osTypeFromByte(h.osTypeRaw)
	splitAmigaComment(h)

	if h.level <= 1 {
		if err := verifyChecksum8(hr, headerSizeByte, checksum); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// parseLevel01 reads the filename, CRC, optional OS byte, and (level 1
// only) the extended-header chain, per spec.md §4.7 step 3.
func parseLevel01(hr *headerReader, h *Header) error {
	nameLen, err := hr.readByte()
	if err != nil {
		return newError(KindUnexpectedEOF, "filename length", err)
	}
	name, err := hr.readN(int(nameLen))
	if err != nil {
		return newError(KindUnexpectedEOF, "filename", err)
	}
	h.rawPath = name
	crc, err := hr.readUint16()
	if err != nil {
		return newError(KindUnexpectedEOF, "crc", err)
	}
	h.crc16 = crc

	if h.level == 0 {
		// An OS byte is optional on level 0; callers in the wild vary.
		// There is no declared total length to check against here beyond
		// the checksum the caller validates afterward, so this package
		// does not attempt to detect its absence — a missing byte simply
		// means osTypeRaw stays 0 (OSGeneric/MS-DOS-compatible default).
		return nil
	}

	osByte, err := hr.readByte()
	if err != nil {
		return newError(KindUnexpectedEOF, "os type", err)
	}
	h.osTypeRaw = osByte

	exts, err := readExtendedHeaders(hr, h.level)
	if err != nil {
		return newError(KindMalformedHeader, "extended headers", err)
	}
	mergeExtendedHeaders(h, exts)

	// The fixed compressed_size already counts the extended-header bytes
	// on level 1 (spec.md §4.7 step 3); subtract them to get the true
	// payload size.
	extBytes := 0
	for _, e := range exts {
		extBytes += extHeaderSizeBytes(h.level) + 1 + len(e.Payload)
	}
	extBytes += extHeaderSizeBytes(h.level) // the terminating zero-size record.
	if uint64(extBytes) <= h.compressedSize {
		h.compressedSize -= uint64(extBytes)
	}
	return nil
}

// parseLevel23 reads the level-2/3 fixed tail (Unix time, CRC, OS byte)
// and then the extended-header chain, per spec.md §4.7 step 3.
func parseLevel23(hr *headerReader, h *Header) error {
	unixTime, err := hr.readUint32()
	if err != nil {
		return newError(KindUnexpectedEOF, "unix time", err)
	}
	h.timestamp = unixToTimestamp(unixTime)

	crc, err := hr.readUint16()
	if err != nil {
		return newError(KindUnexpectedEOF, "header crc", err)
	}
	// Levels 2/3 carry a single CRC16 field here; this implementation uses
	// it as the content checksum DecodeReader.verifyMember compares
	// against (there is no separate per-file CRC elsewhere in this
	// level's layout), and also keeps it as headerCRC16 for callers that
	// want to inspect the raw field.
	h.headerCRC16 = crc
	h.crc16 = crc

	osByte, err := hr.readByte()
	if err != nil {
		return newError(KindUnexpectedEOF, "os type", err)
	}
	h.osTypeRaw = osByte

	exts, err := readExtendedHeaders(hr, h.level)
	if err != nil {
		return newError(KindMalformedHeader, "extended headers", err)
	}
	mergeExtendedHeaders(h, exts)
	return nil
}

// verifyChecksum8 re-derives the level-0/1 8-bit additive checksum over the
// header bytes that followed the size/checksum pair and compares it to the
// stored value, per spec.md §3's invariant.
func verifyChecksum8(hr *headerReader, headerSizeByte, want byte) error {
	all := hr.buf.Bytes()
	// all[0] is the size byte and all[1] is the checksum byte (both were
	// written into hr.buf as they were read); the summed region is
	// exactly the header_size bytes starting right after them, per
	// spec.md §3: "the sum of bytes [2..2+hdr_size] equals the byte at
	// offset 1".
	body := all[2:]
	if int(headerSizeByte) > len(body) {
		return newError(KindMalformedHeader, "header", errors.New("header_size exceeds bytes read"))
	}
	sum := lzhdecode.HeaderChecksum8(body[:headerSizeByte])
	if sum != want {
		return newError(KindHeaderChecksum, "header", nil)
	}
	return nil
}
