package lzw

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Decompress reads the private LZW container (§4.6) at inputPath and writes
// the reconstructed bytes to outputPath. Unless Overwrite is set, it refuses
// to clobber an existing outputPath (OutputExists).
func Decompress(inputPath, outputPath string, opts Options) error {
	if isBigEndian() {
		return ErrBigEndian
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return errorf(IoOpen, "open input: "+err.Error())
	}
	defer in.Close()

	if !opts.has(Overwrite) {
		if _, err := os.Stat(outputPath); err == nil {
			return errorf(OutputExists, "output already exists: "+outputPath)
		}
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return errorf(IoOpen, "create output: "+err.Error())
	}

	if err := decompress(in, out, opts); err != nil {
		out.Close()
		if !opts.has(KeepOnError) {
			os.Remove(outputPath)
		}
		return err
	}
	if err := out.Close(); err != nil {
		if !opts.has(KeepOnError) {
			os.Remove(outputPath)
		}
		return errorf(IoWrite, "close output: "+err.Error())
	}
	return nil
}

func decompress(in io.Reader, out io.Writer, opts Options) error {
	br := bufio.NewReader(in)
	hdr, err := readHeader(br)
	if err != nil {
		return err
	}

	zr, err := NewReader(br, hdr.maxBits, uint64(hdr.size))
	if err != nil {
		return err
	}
	if opts.has(Diagnostic) {
		zr.SetDiagnostic(os.Stderr)
	}

	bw := bufio.NewWriter(out)
	var total uint64
	var buf [chunkSize]byte
	for {
		n, err := zr.Read(buf[:])
		if n > 0 {
			if _, werr := bw.Write(buf[:n]); werr != nil {
				return errorf(IoWrite, "write output: "+werr.Error())
			}
			total += uint64(n)
			if opts.has(Verbose) {
				fmt.Fprintf(os.Stderr, "lzwpack: decompressed %d of %d bytes\n", total, hdr.size)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
