// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command lzwpack is a thin command-line front end over the lzw package: it
// packs (compresses) or unpacks (decompresses) a single file using the
// private LZW container format, or runs a self-test round-trip.
//
// Example usage:
//	$ lzwpack -p input.bin input.lzw
//	$ lzwpack -u input.lzw output.bin
//	$ lzwpack -t -v input.bin
//	$ lzwpack -large=64
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/klauspost/cpuid"

	dsstrconv "github.com/dsnet/golib/unitconv"
	"github.com/dsnet/lzwpack/lzw"
)

const largeChunk = 256 * 1024

// largeFlag implements flag.Value and the boolFlag interface used
// internally by package flag, so that both "-large" (defaulting to 32
// chunks) and "-large=N" are accepted, the same ergonomics -large's sibling
// "-b" flag would have if it needed an optional argument.
type largeFlag struct {
	set bool
	n   float64
}

func (f *largeFlag) String() string { return strconv.FormatFloat(f.n, 'g', -1, 64) }

func (f *largeFlag) Set(s string) error {
	f.set = true
	if s == "" || s == "true" { // a bare "-large" is passed to Set as "true"
		f.n = 32
		return nil
	}
	n, err := dsstrconv.ParsePrefix(s, dsstrconv.AutoParse)
	if err != nil {
		return err
	}
	f.n = n
	return nil
}

func (f *largeFlag) IsBoolFlag() bool { return true }

func main() {
	os.Exit(run())
}

func run() int {
	fp := flag.Bool("p", false, "pack (compress) the input file")
	fu := flag.Bool("u", false, "unpack (decompress) the input file")
	ft := flag.Bool("t", false, "self-test: pack then unpack and compare")
	var fLarge largeFlag
	flag.Var(&fLarge, "large", "synthetic-data self-test, N 256KiB chunks (default 32)")
	fv := flag.Bool("v", false, "verbose")
	ff := flag.Bool("f", false, "force overwrite on unpack")
	fk := flag.Bool("k", false, "keep partial output on error")
	fd := flag.Bool("d", false, "diagnostic per-segment tracing")
	fb := flag.Int("b", 15, "max code bits, in [12,16]")
	flag.Parse()

	modes := 0
	for _, b := range []bool{*fp, *fu, *ft, fLarge.set} {
		if b {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "lzwpack: exactly one of -p, -u, -t, -large is required")
		return 1
	}
	if *fb < 12 || *fb > 16 {
		fmt.Fprintln(os.Stderr, "lzwpack: -b must be in [12,16]")
		return 1
	}

	var opts lzw.Options
	if *fv {
		opts |= lzw.Verbose
		fmt.Fprintln(os.Stderr, cpuLine())
	}
	if *fk {
		opts |= lzw.KeepOnError
	}
	if *fd {
		opts |= lzw.Diagnostic
	}

	switch {
	case *fp:
		if *fb == lzw.MaxDecodeBits {
			fmt.Fprintln(os.Stderr, "lzwpack: -b16 is not accepted when packing (see MaxEncodeBits)")
			return 1
		}
		return runPack(opts, uint(*fb))
	case *fu:
		if *ff {
			opts |= lzw.Overwrite
		}
		return runUnpack(opts)
	case *ft:
		return runSelfTest(opts, uint(*fb), *fk)
	case fLarge.set:
		return runLarge(opts, int(fLarge.n), *fk)
	}
	panic("unreachable")
}

func runPack(opts lzw.Options, maxBits uint) int {
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "lzwpack: -p requires an input and an output path")
		return 1
	}
	if err := lzw.Compress2(args[0], args[1], opts, maxBits); err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	return 0
}

func runUnpack(opts lzw.Options) int {
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "lzwpack: -u requires an input and an output path")
		return 1
	}
	if err := lzw.Decompress(args[0], args[1], opts); err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	return 0
}

func runSelfTest(opts lzw.Options, maxBits uint, keep bool) int {
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lzwpack: -t requires an input path")
		return 1
	}
	dir, err := ioutil.TempDir("", "lzwpack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	if !keep {
		defer os.RemoveAll(dir)
	}
	packed := filepath.Join(dir, "packed.lzw")
	unpacked := filepath.Join(dir, "unpacked.bin")
	return roundTripAndReport(args[0], packed, unpacked, opts, maxBits)
}

func runLarge(opts lzw.Options, n int, keep bool) int {
	if n <= 0 {
		fmt.Fprintln(os.Stderr, "lzwpack: -large requires a positive chunk count")
		return 1
	}
	dir, err := ioutil.TempDir("", "lzwpack-large")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	if !keep {
		defer os.RemoveAll(dir)
	}

	input := filepath.Join(dir, "synthetic.bin")
	if err := ioutil.WriteFile(input, syntheticData(n), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	packed := filepath.Join(dir, "packed.lzw")
	unpacked := filepath.Join(dir, "unpacked.bin")
	return roundTripAndReport(input, packed, unpacked, opts, lzw.MaxEncodeBits)
}

// syntheticData generates n 256KiB chunks cycling between a run of zeros, an
// incrementing byte ramp, and uniform random bytes, exercising the
// dictionary's CLEAR_CODE reset path at sharply different compressibility.
func syntheticData(n int) []byte {
	buf := make([]byte, n*largeChunk)
	rnd := rand.New(rand.NewSource(0))
	for i := 0; i < n; i++ {
		chunk := buf[i*largeChunk : (i+1)*largeChunk]
		switch i % 3 {
		case 0:
			// already zeroed
		case 1:
			for j := range chunk {
				chunk[j] = byte(j)
			}
		case 2:
			rnd.Read(chunk)
		}
	}
	return buf
}

func roundTripAndReport(input, packed, unpacked string, opts lzw.Options, maxBits uint) int {
	if err := lzw.Compress2(input, packed, opts, maxBits); err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: pack: %v\n", err)
		return 1
	}
	if err := lzw.Decompress(packed, unpacked, opts|lzw.Overwrite); err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: unpack: %v\n", err)
		return 1
	}

	want, err := ioutil.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	got, err := ioutil.ReadFile(unpacked)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lzwpack: %v\n", err)
		return 1
	}
	if !bytes.Equal(want, got) {
		fmt.Fprintln(os.Stderr, "lzwpack: FAIL, round-tripped data does not match")
		return 1
	}

	wantSum, err := checksum(input)
	gotSum, err2 := checksum(unpacked)
	if err == nil && err2 == nil {
		fmt.Printf("lzwpack: PASS (checksum %s == %s)\n", wantSum, gotSum)
	} else {
		fmt.Println("lzwpack: PASS")
	}
	return 0
}

// checksum shells out to the platform's checksum utility purely as an
// external sanity check; the CLI's own byte-for-byte comparison above is
// what actually determines pass/fail, so a missing tool on PATH never
// changes the outcome of the test.
func checksum(path string) (string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("certutil", "-hashfile", path, "MD5")
	} else {
		cmd = exec.Command("cksum", path)
	}
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(out)), nil
}

func cpuLine() string {
	var feats []string
	for _, f := range []struct {
		name string
		has  bool
	}{
		{"SSE2", cpuid.CPU.SSE2()},
		{"AVX", cpuid.CPU.AVX()},
		{"AVX2", cpuid.CPU.AVX2()},
	} {
		if f.has {
			feats = append(feats, f.name)
		}
	}
	return fmt.Sprintf("lzwpack: host CPU %q, features %v", cpuid.CPU.BrandName, feats)
}
