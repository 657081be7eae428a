// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the performance of this repository's LZW codec
// against other general-purpose byte-stream compressors.
package bench

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"runtime"
	"testing"
)

// Encoder constructs a WriteCloser that compresses to w at the given level.
// For the lzw codec, level is interpreted as a code width in
// [lzw.MinBits, lzw.MaxEncodeBits]; other codecs interpret it as their own
// native compression level.
type Encoder func(w io.Writer, level int) io.WriteCloser

// Decoder constructs a ReadCloser that decompresses r. level is whatever was
// passed to the Encoder that produced r's bytes; codecs that don't need it
// (everything but lzw, which uses it as the code width) ignore it.
type Decoder func(r io.Reader, level int) io.ReadCloser

var (
	Encoders = make(map[string]Encoder)
	Decoders = make(map[string]Decoder)
)

func RegisterEncoder(name string, enc Encoder) { Encoders[name] = enc }
func RegisterDecoder(name string, dec Decoder) { Decoders[name] = dec }

// Result holds a single benchmark outcome: either a throughput rate in MB/s
// or a compression ratio, depending on which of EncodeRate, DecodeRate or
// CompressRatio produced it.
type Result struct {
	Codec string
	Level int
	Value float64
}

// EncodeRate benchmarks a single codec's encoder on input at the given level
// and returns the achieved throughput in MB/s.
func EncodeRate(codec string, input []byte, level int) Result {
	enc := Encoders[codec]
	r := testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(ioutil.Discard, level)
			if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
	return Result{Codec: codec, Level: level, Value: mbps(r)}
}

// DecodeRate benchmarks a single codec's decoder on input, first encoding it
// with that same codec's reference encoder to produce the compressed bytes
// fed to the decoder.
func DecodeRate(codec string, input []byte, level int) Result {
	var buf bytes.Buffer
	wr := Encoders[codec](&buf, level)
	if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
		return Result{Codec: codec, Level: level}
	}
	if wr.Close() != nil {
		return Result{Codec: codec, Level: level}
	}
	compressed := buf.Bytes()

	dec := Decoders[codec]
	r := testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bufio.NewReader(bytes.NewReader(compressed)), level)
			cnt, err := io.Copy(ioutil.Discard, rd)
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err := rd.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(cnt)
		}
	})
	return Result{Codec: codec, Level: level, Value: mbps(r)}
}

// CompressRatio reports len(input)/len(compressed) for the given codec.
func CompressRatio(codec string, input []byte, level int) Result {
	var buf bytes.Buffer
	wr := Encoders[codec](&buf, level)
	if _, err := io.Copy(wr, bytes.NewReader(input)); err != nil {
		return Result{Codec: codec, Level: level}
	}
	if wr.Close() != nil {
		return Result{Codec: codec, Level: level}
	}
	if buf.Len() == 0 {
		return Result{Codec: codec, Level: level}
	}
	return Result{Codec: codec, Level: level, Value: float64(len(input)) / float64(buf.Len())}
}

func mbps(r testing.BenchmarkResult) float64 {
	if r.N == 0 {
		return 0
	}
	us := (float64(r.T.Nanoseconds()) / 1e3) / float64(r.N)
	if us == 0 {
		return 0
	}
	return float64(r.Bytes) / us
}
