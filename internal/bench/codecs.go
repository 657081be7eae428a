// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"compress/flate"
	"io"
	"io/ioutil"

	kflate "github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz/lzma"

	"github.com/dsnet/lzwpack/lzw"
)

type readerNopCloser struct{ io.Reader }

func (readerNopCloser) Close() error { return nil }

func init() {
	RegisterEncoder("lzw", func(w io.Writer, level int) io.WriteCloser {
		zw, err := lzw.NewWriter(w, uint(level))
		if err != nil {
			panic(err)
		}
		return zw
	})
	RegisterDecoder("lzw", func(r io.Reader, level int) io.ReadCloser {
		zr, err := lzw.NewReader(r, uint(level), 0)
		if err != nil {
			panic(err)
		}
		return readerNopCloser{zr}
	})

	RegisterEncoder("std", func(w io.Writer, level int) io.WriteCloser {
		wr, err := flate.NewWriter(w, level)
		if err != nil {
			panic(err)
		}
		return wr
	})
	RegisterDecoder("std", func(r io.Reader, level int) io.ReadCloser {
		return flate.NewReader(r)
	})

	RegisterEncoder("kflate", func(w io.Writer, level int) io.WriteCloser {
		wr, err := kflate.NewWriter(w, level)
		if err != nil {
			panic(err)
		}
		return wr
	})
	RegisterDecoder("kflate", func(r io.Reader, level int) io.ReadCloser {
		return kflate.NewReader(r)
	})

	RegisterEncoder("xzlzma", func(w io.Writer, level int) io.WriteCloser {
		wr, err := lzma.NewWriter(w)
		if err != nil {
			panic(err)
		}
		return wr
	})
	RegisterDecoder("xzlzma", func(r io.Reader, level int) io.ReadCloser {
		rd, err := lzma.NewReader(r)
		if err != nil {
			panic(err)
		}
		return ioutil.NopCloser(rd)
	})
}
