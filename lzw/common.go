// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzw implements the private, self-describing LZW container format
// used by the lzwpack tool: a variable-width (9 to 16 bit) Lempel-Ziv-Welch
// code with full dictionary reset, framed into length-prefixed segments so a
// decoder can refill a fixed-size buffer without scanning the whole stream.
package lzw

import (
	"runtime"
	"unsafe"
)

const (
	magic   = "LZW\x00"
	version = 0

	flagBigEndian = 1 << 0
	flagVarWidth  = 1 << 1
	infoFlagMask  = 0x0F // low nibble compared between encoder and decoder

	// MinBits and MaxEncodeBits bound the code width accepted by the encoder.
	MinBits       = 9
	MaxEncodeBits = 15
	// MaxDecodeBits bounds the code width accepted by the decoder; it is wider
	// than MaxEncodeBits so that streams written by a hypothetical 16-bit
	// encoder variant still decode (see SPEC_FULL.md open question (a)).
	MaxDecodeBits = 16

	initRunCode     = 256
	initRunningBits = 9
	initEOFCode     = 511

	// chunkSize bounds the decoder's output staging buffer and, therefore,
	// the depth of its prefix-reconstruction stack.
	chunkSize = 16384
)

// Kind classifies an Error so that callers can branch on failure category
// with errors.As without parsing messages.
type Kind uint8

const (
	InvalidArgument Kind = iota
	IoOpen
	IoRead
	IoWrite
	Allocation
	BadMagic
	VersionMismatch
	EncodingFlagsMismatch
	UnsupportedMaxBits
	UnexpectedEOF
	SizeMismatch
	OutputExists
	ReuseError
	Corrupt
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case IoOpen:
		return "open error"
	case IoRead:
		return "read error"
	case IoWrite:
		return "write error"
	case Allocation:
		return "allocation failure"
	case BadMagic:
		return "bad magic"
	case VersionMismatch:
		return "version mismatch"
	case EncodingFlagsMismatch:
		return "encoding flags mismatch"
	case UnsupportedMaxBits:
		return "unsupported max bits"
	case UnexpectedEOF:
		return "unexpected end of stream"
	case SizeMismatch:
		return "size mismatch"
	case OutputExists:
		return "output exists"
	case ReuseError:
		return "reuse error"
	case Corrupt:
		return "stream is corrupted"
	default:
		return "unknown error"
	}
}

// Error is the wrapper type for errors specific to this package.
type Error struct {
	Kind Kind
	Text string
}

func (e *Error) Error() string { return "lzw: " + e.Text }

func errorf(kind Kind, text string) *Error {
	return &Error{Kind: kind, Text: text}
}

var (
	ErrCorrupt   error = errorf(Corrupt, "stream is corrupted")
	ErrReused    error = errorf(ReuseError, "encoder or decoder instance already used")
	ErrBigEndian error = errorf(InvalidArgument, "big-endian hosts are not supported")
)

// errRecover is installed as a deferred call around any step that may panic
// with an *Error (or let an io error propagate as a panic); it converts the
// panic back into a plain returned error, the same pattern flate.Reader and
// brotli.Reader use to keep their inner decode loops free of error plumbing.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

func clearCodeFor(maxBits uint) uint32 { return uint32(1)<<maxBits - 2 }

// isBigEndian reports whether the host is big-endian, the same union-based
// probe original_source/common.cpp's is_big_endian uses: store a known
// multi-byte pattern and inspect which byte lands first in memory.
func isBigEndian() bool {
	var probe uint32 = 0x01020304
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}
