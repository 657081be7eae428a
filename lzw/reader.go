package lzw

import (
	"fmt"
	"io"
)

// Reader implements the decoder state machine of SPEC_FULL.md §4.4/§4.5
// against an io.Reader already positioned at the start of the segment
// stream (i.e. past the container header). Use Decompress for the
// self-describing on-disk format, which reads the header itself.
//
// A Reader is single-use in the same sense as Writer (§5): once it has
// returned a terminal error (including io.EOF), it keeps returning that
// error.
type Reader struct {
	sr segmentReader
	bu bitUnpacker
	pt *prefixTable

	maxBits   uint
	clearCode uint32
	runCode   uint32
	runBits   uint
	eofCode   uint32
	oldCode   uint32 // noneCode when absent
	segLoaded bool

	stack  []uint16
	stackN int

	out    [chunkSize]byte
	outN   int
	toRead []byte

	declaredSize uint64
	totalOut     uint64

	err  error
	diag io.Writer
}

// NewReader returns a Reader that decodes the segment stream read from r,
// using maxBits as the dictionary width ceiling (up to MaxDecodeBits).
// declaredSize, if nonzero, is checked against the cumulative decoded
// length when EOF_CODE is reached (SizeMismatch otherwise); pass 0 to skip
// the check (used when the caller has no a priori expected size).
func NewReader(r io.Reader, maxBits uint, declaredSize uint64) (*Reader, error) {
	if maxBits < MinBits || maxBits > MaxDecodeBits {
		return nil, errorf(UnsupportedMaxBits, fmt.Sprintf("unsupported max bits %d", maxBits))
	}
	zr := &Reader{
		maxBits:      maxBits,
		clearCode:    clearCodeFor(maxBits),
		pt:           newPrefixTable(maxBits),
		declaredSize: declaredSize,
		stack:        make([]uint16, chunkSize),
	}
	zr.sr.init(r)
	zr.resetRun()
	return zr, nil
}

// SetDiagnostic directs per-segment tracing to w.
func (zr *Reader) SetDiagnostic(w io.Writer) { zr.diag = w }

func (zr *Reader) resetRun() {
	zr.runCode = initRunCode
	zr.runBits = initRunningBits
	zr.eofCode = initEOFCode
	zr.oldCode = noneCode
}

func (zr *Reader) growWidth() {
	if zr.runCode == zr.eofCode {
		zr.runBits++
		zr.eofCode = zr.eofCode<<1 + 1
	}
}

// Read implements io.Reader by draining decoded bytes already staged and,
// once that is exhausted, running the decode engine for one more chunk.
func (zr *Reader) Read(p []byte) (int, error) {
	for {
		if len(zr.toRead) > 0 {
			n := copy(p, zr.toRead)
			zr.toRead = zr.toRead[n:]
			return n, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		func() {
			defer errRecover(&zr.err)
			zr.decodeChunk()
		}()
		if zr.err != nil && len(zr.toRead) == 0 {
			return 0, zr.err
		}
	}
}

// decodeChunk runs the decoder until it has either filled the 16384-byte
// staging buffer or consumed EOF_CODE, per §4.5's output-buffering rule.
// It panics (to be recovered by errRecover) on any protocol or I/O error.
func (zr *Reader) decodeChunk() {
	zr.outN = 0
	for {
		if !zr.segLoaded {
			buf, n, err := zr.sr.next()
			if err != nil {
				panic(err)
			}
			zr.bu.reset(buf, n)
			zr.resetRun()
			zr.segLoaded = true
			if zr.diag != nil {
				fmt.Fprintf(zr.diag, "lzwpack: read %d bytes\n", n)
			}
		}

		for {
			if zr.bu.exhausted() {
				panic(errorf(UnexpectedEOF, "segment ended without a clear or eof code"))
			}
			code := zr.bu.nextCode(zr.runBits, zr.eofCode)

			if code == zr.eofCode {
				zr.toRead = zr.out[:zr.outN]
				if zr.declaredSize != 0 && zr.totalOut != zr.declaredSize {
					panic(errorf(SizeMismatch, "expected and actual sizes don't match"))
				}
				zr.err = io.EOF
				return
			}
			if code == zr.clearCode {
				zr.pt.clear()
				zr.segLoaded = false
				break // reload next segment in the outer loop
			}

			if code < 256 {
				zr.appendByte(byte(code))
			} else {
				zr.decodeMulti(uint16(code))
			}

			if zr.oldCode != noneCode {
				zr.pt.prefix[zr.runCode] = uint16(zr.oldCode)
				if code != zr.runCode {
					zr.pt.suffix[zr.runCode] = uint16(zr.pt.prefixChar(uint16(code)))
				}
				zr.runCode++
				zr.growWidth()
			}
			zr.oldCode = code

			if zr.outN == chunkSize {
				zr.toRead = zr.out[:zr.outN]
				zr.oldCode = noneCode
				return
			}
		}
	}
}

func (zr *Reader) appendByte(b byte) {
	if zr.outN >= chunkSize {
		panic(errorf(Corrupt, "output staging buffer overflow"))
	}
	zr.out[zr.outN] = b
	zr.outN++
	zr.totalOut++
}

// decodeMulti reconstructs the byte string denoted by code (>= 256) by
// walking the prefix chain onto a stack and popping it into the output
// buffer, per §4.5, including the KwKwK special case where code's entry is
// the one currently being defined.
func (zr *Reader) decodeMulti(code uint16) {
	var curPrefix uint16
	if zr.pt.prefix[code] == noneCode {
		curPrefix = uint16(zr.oldCode)
		zr.pt.suffix[zr.runCode] = uint16(zr.pt.prefixChar(uint16(zr.oldCode)))
		zr.push(zr.pt.suffix[zr.runCode])
	} else {
		curPrefix = code
	}
	for curPrefix > 255 {
		zr.push(zr.pt.suffix[curPrefix])
		curPrefix = zr.pt.prefix[curPrefix]
	}
	zr.push(curPrefix)
	for zr.stackN > 0 {
		zr.stackN--
		zr.appendByte(byte(zr.stack[zr.stackN]))
	}
}

func (zr *Reader) push(v uint16) {
	if zr.stackN >= len(zr.stack) {
		panic(errorf(Corrupt, "reconstruction stack overflow"))
	}
	zr.stack[zr.stackN] = v
	zr.stackN++
}
