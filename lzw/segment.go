package lzw

import (
	"encoding/binary"
	"io"
)

// segmentSlack is the number of extra zero bytes kept past a segment
// payload's declared length so that bitUnpacker.nextCode's 32-bit
// little-endian load at the last code's byte offset never reads past the
// allocation. SPEC_FULL.md requires at least 3; this keeps one more byte of
// margin.
const segmentSlack = 4

// writeSegment frames buf as described in SPEC_FULL.md §4.4 and writes it to
// w: a big-endian 2-byte length if it fits in 15 bits, otherwise a 0xFF
// sentinel byte followed by a little-endian 4-byte length.
func writeSegment(w io.Writer, buf []byte) error {
	n := len(buf)
	if n&0x7FFF == n {
		var hdr [2]byte
		hdr[0] = byte(n >> 8)
		hdr[1] = byte(n)
		if _, err := w.Write(hdr[:]); err != nil {
			return errorf(IoWrite, "segment header: "+err.Error())
		}
	} else {
		var hdr [5]byte
		hdr[0] = 0xFF
		binary.LittleEndian.PutUint32(hdr[1:5], uint32(n))
		if _, err := w.Write(hdr[:]); err != nil {
			return errorf(IoWrite, "segment header: "+err.Error())
		}
	}
	if n == 0 {
		return nil
	}
	if _, err := w.Write(buf); err != nil {
		return errorf(IoWrite, "segment payload: "+err.Error())
	}
	return nil
}

// segmentReader reads the length-prefixed segment stream of §4.4, reusing a
// single, slack-padded buffer across segments.
type segmentReader struct {
	r   io.Reader
	buf []byte // len(buf) == payload length + segmentSlack, trailing bytes zero
}

func (sr *segmentReader) init(r io.Reader) {
	sr.r = r
	sr.buf = make([]byte, segmentSlack)
}

// next reads one segment's length header and payload. It returns the
// underlying buffer (payload bytes followed by segmentSlack zero bytes, safe
// for the bit-unpacker's word-wide loads) and the payload length in bytes.
func (sr *segmentReader) next() (buf []byte, n int, err error) {
	var b0 [1]byte
	if _, err := io.ReadFull(sr.r, b0[:]); err != nil {
		return nil, 0, wrapReadErr(err)
	}

	var length uint32
	if b0[0] == 0xFF {
		var lenBuf [4]byte
		if _, err := io.ReadFull(sr.r, lenBuf[:]); err != nil {
			return nil, 0, wrapReadErr(err)
		}
		length = binary.LittleEndian.Uint32(lenBuf[:])
	} else {
		var b1 [1]byte
		if _, err := io.ReadFull(sr.r, b1[:]); err != nil {
			return nil, 0, wrapReadErr(err)
		}
		length = uint32(b0[0])<<8 | uint32(b1[0])
	}

	need := int(length) + segmentSlack
	if cap(sr.buf) < need {
		sr.buf = make([]byte, need)
	} else {
		sr.buf = sr.buf[:need]
		for i := int(length); i < need; i++ {
			sr.buf[i] = 0
		}
	}
	if length > 0 {
		if _, err := io.ReadFull(sr.r, sr.buf[:length]); err != nil {
			return nil, 0, wrapReadErr(err)
		}
	}
	return sr.buf, int(length), nil
}

func wrapReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errorf(UnexpectedEOF, "segment: "+err.Error())
	}
	return errorf(IoRead, "segment: "+err.Error())
}
