// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command lzwbench compares this repository's LZW codec against
// compress/flate, klauspost/compress/flate, and ulikunitz/xz/lzma on a set
// of input files.
//
// Example usage:
//	$ lzwbench -codecs lzw,std,kflate,xzlzma -test ratio -level 9 -files twain.txt
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/dsnet/lzwpack/internal/bench"
)

func defaultCodecs() string {
	var s []string
	for k := range bench.Encoders {
		s = append(s, k)
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}

func main() {
	fCodecs := flag.String("codecs", defaultCodecs(), "comma-separated list of codecs to benchmark")
	fTest := flag.String("test", "ratio", "one of encRate, decRate, ratio")
	fFiles := flag.String("files", "", "comma-separated list of input files")
	fLevel := flag.Int("level", 15, "compression level (code width for lzw)")
	flag.Parse()

	if *fFiles == "" {
		fmt.Fprintln(os.Stderr, "lzwbench: -files is required")
		os.Exit(1)
	}

	var run func(codec string, input []byte, level int) bench.Result
	switch *fTest {
	case "encRate":
		run = bench.EncodeRate
	case "decRate":
		run = bench.DecodeRate
	case "ratio":
		run = bench.CompressRatio
	default:
		fmt.Fprintf(os.Stderr, "lzwbench: unknown test %q\n", *fTest)
		os.Exit(1)
	}

	codecs := strings.Split(*fCodecs, ",")
	files := strings.Split(*fFiles, ",")

	fmt.Printf("BENCHMARK: %s\n", *fTest)
	for _, file := range files {
		input, err := ioutil.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lzwbench: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", file)
		for _, codec := range codecs {
			if bench.Encoders[codec] == nil {
				fmt.Fprintf(os.Stderr, "lzwbench: unknown codec %q\n", codec)
				os.Exit(1)
			}
			result := run(codec, input, *fLevel)
			fmt.Printf("    %-10s %12.2f\n", codec, result.Value)
		}
	}
}
