// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzw

import (
	"bytes"
	"errors"
	"io/ioutil"
	"testing"

	"github.com/dsnet/lzwpack/internal/testutil"
)

func encodeAll(t *testing.T, input []byte, maxBits uint) []byte {
	var buf bytes.Buffer
	zw, err := NewWriter(&buf, maxBits)
	if err != nil {
		t.Fatalf("NewWriter error: %v", err)
	}
	if _, err := zw.Write(input); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	return buf.Bytes()
}

func decodeAll(t *testing.T, comp []byte, maxBits uint, size uint64) []byte {
	zr, err := NewReader(bytes.NewReader(comp), maxBits, size)
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	output, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	return output
}

// TestRoundTrip covers empty input, a single byte, a
// highly repetitive run that forces many CLEAR_CODE resets at a narrow
// width, and a mix of compressible and incompressible data at both the
// default and minimum code widths.
func TestRoundTrip(t *testing.T) {
	rnd := testutil.NewRand(0)
	twain := testutil.ResizeData([]byte("the mind that finds delight in itself"), 1<<16)
	random := rnd.Bytes(1 << 16)

	vectors := []struct {
		name    string
		input   []byte
		maxBits uint
	}{
		{"empty", nil, MaxEncodeBits},
		{"one byte", []byte{0x42}, MaxEncodeBits},
		{"two same bytes", []byte{0x42, 0x42}, MaxEncodeBits},
		{"all zeros narrow", bytes.Repeat([]byte{0}, 1<<20), MinBits},
		{"repetitive default", twain, MaxEncodeBits},
		{"repetitive narrow", twain, MinBits},
		{"random default", random, MaxEncodeBits},
		{"random narrow", random, MinBits},
		{"single byte run", bytes.Repeat([]byte{0x7a}, 1<<18), MaxEncodeBits},
	}

	for _, v := range vectors {
		comp := encodeAll(t, v.input, v.maxBits)
		output := decodeAll(t, comp, v.maxBits, uint64(len(v.input)))
		if !bytes.Equal(output, v.input) {
			t.Errorf("test %s: output data mismatch (got %d bytes, want %d)", v.name, len(output), len(v.input))
		}
	}
}

// TestChunkBoundary exercises input that straddles the decoder's
// 16384-byte output staging buffer, forcing at least one internal flush
// mid-stream.
func TestChunkBoundary(t *testing.T) {
	rnd := testutil.NewRand(1)
	for _, n := range []int{chunkSize - 1, chunkSize, chunkSize + 1, 3*chunkSize + 17} {
		input := rnd.Bytes(n)
		comp := encodeAll(t, input, MaxEncodeBits)
		output := decodeAll(t, comp, MaxEncodeBits, uint64(len(input)))
		if !bytes.Equal(output, input) {
			t.Errorf("size %d: output data mismatch", n)
		}
	}
}

// TestSizeMismatch checks that a decoder given a declared size that does not
// match the stream's actual length reports SizeMismatch rather than silently
// truncating or padding.
func TestSizeMismatch(t *testing.T) {
	rnd := testutil.NewRand(2)
	input := testutil.ResizeData(rnd.Bytes(1<<10), 1<<12)
	comp := encodeAll(t, input, MaxEncodeBits)

	zr, err := NewReader(bytes.NewReader(comp), MaxEncodeBits, uint64(len(input)+1))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	_, err = ioutil.ReadAll(zr)
	zerr, ok := err.(*Error)
	if !ok || zerr.Kind != SizeMismatch {
		t.Errorf("ReadAll error: got %v, want a SizeMismatch error", err)
	}
}

// TestCorruptStream checks that a segment stream cut off mid-code is
// reported as an error rather than a silent short read.
func TestCorruptStream(t *testing.T) {
	rnd := testutil.NewRand(3)
	input := testutil.ResizeData(rnd.Bytes(1<<10), 1<<14)
	comp := encodeAll(t, input, MaxEncodeBits)
	truncated := comp[:len(comp)-4]

	zr, err := NewReader(bytes.NewReader(truncated), MaxEncodeBits, uint64(len(input)))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(zr); err == nil {
		t.Errorf("ReadAll error: got nil, want an error")
	}
}

// TestUnderlyingReadError checks that an I/O error from the underlying
// reader surfaces as an IoRead error rather than being misreported as
// stream corruption.
func TestUnderlyingReadError(t *testing.T) {
	rnd := testutil.NewRand(5)
	input := testutil.ResizeData(rnd.Bytes(1<<10), 1<<14)
	comp := encodeAll(t, input, MaxEncodeBits)

	wantErr := errors.New("injected read failure")
	br := &testutil.BuggyReader{R: bytes.NewReader(comp), N: int64(len(comp) / 2), Err: wantErr}

	zr, err := NewReader(br, MaxEncodeBits, uint64(len(input)))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	_, err = ioutil.ReadAll(zr)
	zerr, ok := err.(*Error)
	if !ok || zerr.Kind != IoRead {
		t.Errorf("ReadAll error: got %v, want an IoRead error", err)
	}
}

// TestReuse checks that a Writer reports ReuseError once consumed, per the
// single-use contract of §5.
func TestReuse(t *testing.T) {
	var buf bytes.Buffer
	zw, err := NewWriter(&buf, MaxEncodeBits)
	if err != nil {
		t.Fatalf("NewWriter error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := zw.Write([]byte{1}); err != ErrReused {
		t.Errorf("Write after Close: got %v, want ErrReused", err)
	}
	if err := zw.Close(); err != ErrReused {
		t.Errorf("second Close: got %v, want ErrReused", err)
	}
}

// TestInvalidMaxBits checks that NewWriter rejects widths outside
// [MinBits, MaxEncodeBits], including MaxDecodeBits, which only the decoder
// accepts (§9 open question (a)).
func TestInvalidMaxBits(t *testing.T) {
	for _, mb := range []uint{0, 1, 8, MaxDecodeBits, 30} {
		if _, err := NewWriter(ioutil.Discard, mb); err == nil {
			t.Errorf("NewWriter(%d): got nil error, want InvalidArgument", mb)
		}
	}
	if _, err := NewWriter(ioutil.Discard, MaxEncodeBits); err != nil {
		t.Errorf("NewWriter(%d): unexpected error %v", MaxEncodeBits, err)
	}
}
