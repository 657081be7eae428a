package lzw

import (
	"fmt"
	"io"
)

// Writer implements the encoder state machine of SPEC_FULL.md §4.3 against
// an io.Writer. A Writer is single-use: once Close has been called, or once
// the Writer has errored, further calls fail with a ReuseError/the sticky
// error, matching §5's "consumed on call" contract.
type Writer struct {
	bp      bitPacker
	d       *dict
	maxBits uint

	clearCode uint32
	runCode   uint32
	runBits   uint
	eofCode   uint32

	curCode  uint32
	started  bool
	blockPos int // bytes consumed in the current chunkSize input block

	used bool
	err  error

	diag io.Writer // non-nil when Diagnostic tracing is requested
	segN int        // segment counter, used only for diagnostics
}

// NewWriter returns a Writer that packs bytes written to it into the LZW
// segment stream of SPEC_FULL.md §4.4, using the given maximum code width.
// maxBits must be in [MinBits, MaxEncodeBits]. It does not write the
// container header (§4.6) — callers that need the private file format
// should use Compress/Compress2, which write the header and then drive a
// Writer internally.
func NewWriter(w io.Writer, maxBits uint) (*Writer, error) {
	if maxBits < MinBits || maxBits > MaxEncodeBits {
		return nil, errorf(InvalidArgument, fmt.Sprintf("invalid max bits %d", maxBits))
	}
	zw := &Writer{
		maxBits:   maxBits,
		clearCode: clearCodeFor(maxBits),
		d:         newDict(maxBits),
	}
	zw.bp.init(w)
	zw.resetRun()
	return zw, nil
}

// SetDiagnostic directs per-segment tracing to w, matching the Diagnostic
// option's effect in the CLI.
func (zw *Writer) SetDiagnostic(w io.Writer) { zw.diag = w }

func (zw *Writer) resetRun() {
	zw.runCode = initRunCode
	zw.runBits = initRunningBits
	zw.eofCode = initEOFCode
}

// growWidth applies the width-growth rule of §3: once runCode reaches the
// current eofCode, the running width increases by one bit.
func (zw *Writer) growWidth() {
	if zw.runCode == zw.eofCode {
		zw.runBits++
		zw.eofCode = zw.eofCode<<1 + 1
	}
}

// Write packs the bytes of p into the dictionary-backed run described in
// §4.3. It never returns a short count on success.
func (zw *Writer) Write(p []byte) (int, error) {
	if zw.used {
		return 0, ErrReused
	}
	if zw.err != nil {
		return 0, zw.err
	}
	var n int
	func() {
		defer errRecover(&zw.err)
		n = zw.write(p)
	}()
	return n, zw.err
}

// write feeds p through the dictionary a byte at a time. Per §4.3, no
// dictionary key ever spans a 16384-byte input block boundary: every
// chunkSize input bytes, the pending curCode is flushed as a plain code and
// the next byte reseeds curCode directly, exactly as lzw10pack.cpp's
// Compress reseeds CurCode from the first byte of each freshly fread'd
// BUFFLEN block. This mirrors, on the input side, the output-side OldCode
// reset the decoder applies at the same boundary (§4.5).
func (zw *Writer) write(p []byte) int {
	i := 0
	if !zw.started {
		if len(p) == 0 {
			return 0
		}
		zw.curCode = uint32(p[0])
		zw.started = true
		zw.blockPos = 1
		i = 1
	}
	for ; i < len(p); i++ {
		b := p[i]
		if zw.blockPos == chunkSize {
			zw.emit(zw.curCode)
			zw.curCode = uint32(b)
			zw.blockPos = 1
			continue
		}
		key := zw.curCode<<8 | uint32(b)
		if v, ok := zw.d.lookup(key); ok {
			zw.curCode = uint32(v)
			zw.blockPos++
			continue
		}
		zw.emit(zw.curCode)
		if zw.runCode == zw.clearCode {
			zw.emitClear()
			zw.d.clear()
			zw.resetRun()
		} else {
			zw.d.insert(key, uint16(zw.runCode))
			zw.runCode++
		}
		zw.curCode = uint32(b)
		zw.blockPos++
	}
	return len(p)
}

// emit packs code at the running width and then applies the width-growth
// check, so a width increase takes effect from the next emitted code. The
// decoder installs each entry one code after the encoder inserts it, and
// checking here keeps both sides switching width on the same code.
func (zw *Writer) emit(code uint32) {
	zw.bp.emit(code, zw.runBits)
	zw.growWidth()
}

func (zw *Writer) emitClear() {
	if zw.diag != nil {
		fmt.Fprintf(zw.diag, "lzwpack: resetting (clear code)\n")
	}
	if err := zw.bp.emitFinal(zw.clearCode, zw.runBits); err != nil {
		panic(err)
	}
	zw.traceSegment()
}

func (zw *Writer) traceSegment() {
	if zw.diag != nil {
		zw.segN++
		fmt.Fprintf(zw.diag, "lzwpack: wrote segment %d\n", zw.segN)
	}
}

// Close flushes the trailing run, the end-of-stream marker, and the final
// segment. It is the only place EOF_CODE is emitted; per §4.3/§9, the
// sentinel zero code that historically followed it is packed and then
// discarded rather than written, since this repository's segment reader
// already guarantees safe buffer slack independent of it.
func (zw *Writer) Close() error {
	if zw.used {
		return ErrReused
	}
	zw.used = true
	if zw.err != nil {
		return zw.err
	}
	func() {
		defer errRecover(&zw.err)
		zw.close()
	}()
	return zw.err
}

func (zw *Writer) close() {
	if zw.started {
		zw.emit(zw.curCode)
	}
	if err := zw.bp.emitFinal(zw.eofCode, zw.runBits); err != nil {
		panic(err)
	}
	zw.traceSegment()
	zw.bp.emit(0, zw.runBits)
	zw.bp.discard()
}
