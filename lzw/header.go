package lzw

import (
	"encoding/binary"
	"io"
)

// header is the fixed-size prefix described in SPEC_FULL.md §4.6.
type header struct {
	maxBits uint
	size    uint32
}

// infoByte reports the info byte this implementation would write for a
// stream with the given maxBits. Bit0 mirrors the host's endianness, the
// same field original_source/lzw10pack.cpp's Compress sets via is_big_endian
// after already having refused to run on a big-endian host (see the
// isBigEndian call in compress.go/decompress.go); on every host this
// package actually runs on, that refusal means the bit is always observed
// as 0 here too.
func infoByte(maxBits uint) byte {
	var b byte
	if isBigEndian() {
		b |= flagBigEndian
	}
	b |= flagVarWidth
	b |= byte(maxBits-8) << 4
	return b
}

func writeHeader(w io.Writer, h header) error {
	var buf [4 + 1 + 1 + 4]byte
	copy(buf[0:4], magic)
	buf[4] = version
	buf[5] = infoByte(h.maxBits)
	binary.LittleEndian.PutUint32(buf[6:10], h.size)
	if _, err := w.Write(buf[:]); err != nil {
		return errorf(IoWrite, "header: "+err.Error())
	}
	return nil
}

// readHeader parses and validates the container header, enforcing that the
// low nibble of the info byte (endianness + variable-width flags) matches
// what this decoder itself would have written.
func readHeader(r io.Reader) (header, error) {
	var buf [4 + 1 + 1 + 4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return header{}, errorf(UnexpectedEOF, "header: "+err.Error())
		}
		return header{}, errorf(IoRead, "header: "+err.Error())
	}
	if string(buf[0:4]) != magic {
		return header{}, errorf(BadMagic, "bad magic")
	}
	if buf[4] != version {
		return header{}, errorf(VersionMismatch, "packer/unpacker version mismatch")
	}
	infoFlag := buf[5]
	want := infoByte(9) // bits field differs per-stream; only compare the low nibble
	if (want & infoFlagMask) != (infoFlag & infoFlagMask) {
		return header{}, errorf(EncodingFlagsMismatch, "encoding flags mismatch")
	}
	maxBits := uint(8) + uint(infoFlag>>4)
	if maxBits < MinBits || maxBits > MaxDecodeBits {
		return header{}, errorf(UnsupportedMaxBits, "unsupported encoding")
	}
	size := binary.LittleEndian.Uint32(buf[6:10])
	return header{maxBits: maxBits, size: size}, nil
}
