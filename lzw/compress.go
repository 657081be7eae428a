package lzw

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Compress reads inputPath and writes the private LZW container (§4.6) for
// it to outputPath, using the default maximum code width of MaxEncodeBits.
// It is equivalent to Compress2(inputPath, outputPath, opts, MaxEncodeBits).
func Compress(inputPath, outputPath string, opts Options) error {
	return Compress2(inputPath, outputPath, opts, MaxEncodeBits)
}

// Compress2 is Compress with an explicit maximum code width. maxBits must be
// in [MinBits, MaxEncodeBits]; per SPEC_FULL.md §9(a), 16 is accepted by the
// decoder but never by this encoder entry point.
//
// Compress2 is single-use in the sense described in §5: each call opens its
// own files and drives a fresh Writer, so there is no instance to reuse, but
// it never partially writes outputPath and leaves it behind unless
// KeepOnError is set.
func Compress2(inputPath, outputPath string, opts Options, maxBits uint) error {
	if isBigEndian() {
		return ErrBigEndian
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return errorf(IoOpen, "open input: "+err.Error())
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return errorf(IoOpen, "stat input: "+err.Error())
	}
	if fi.Size() > 1<<32-1 {
		return errorf(InvalidArgument, "input too large for a 32-bit size field")
	}

	if !opts.has(Overwrite) {
		if _, err := os.Stat(outputPath); err == nil {
			return errorf(OutputExists, "output already exists: "+outputPath)
		}
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return errorf(IoOpen, "create output: "+err.Error())
	}

	if err := compress(in, out, opts, maxBits, uint32(fi.Size())); err != nil {
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

func compress(in io.Reader, out io.Writer, opts Options, maxBits uint, size uint32) error {
	bw := bufio.NewWriter(out)
	if err := writeHeader(bw, header{maxBits: maxBits, size: size}); err != nil {
		return err
	}

	zw, err := NewWriter(bw, maxBits)
	if err != nil {
		return err
	}
	if opts.has(Diagnostic) {
		zw.SetDiagnostic(os.Stderr)
	}

	var buf [chunkSize]byte
	var total uint32
	for {
		n, err := in.Read(buf[:])
		if n > 0 {
			if _, werr := zw.Write(buf[:n]); werr != nil {
				return werr
			}
			total += uint32(n)
			if opts.has(Verbose) {
				fmt.Fprintf(os.Stderr, "lzwpack: compressed %d of %d bytes\n", total, size)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errorf(IoRead, "read input: "+err.Error())
		}
	}
	if total != size {
		return errorf(SizeMismatch, "input changed size while being read")
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}
