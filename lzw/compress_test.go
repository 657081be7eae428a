package lzw

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/lzwpack/internal/testutil"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "lzwpack_test")
	if err != nil {
		t.Fatalf("TempDir error: %v", err)
	}
	defer os.RemoveAll(dir)

	rnd := testutil.NewRand(4)
	input := testutil.ResizeData(rnd.Bytes(1<<12), 1<<16)
	inPath := filepath.Join(dir, "input.bin")
	packedPath := filepath.Join(dir, "input.lzw")
	outPath := filepath.Join(dir, "output.bin")

	if err := ioutil.WriteFile(inPath, input, 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if err := Compress(inPath, packedPath, 0); err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if err := Decompress(packedPath, outPath, 0); err != nil {
		t.Fatalf("Decompress error: %v", err)
	}

	output, err := ioutil.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !bytes.Equal(output, input) {
		t.Errorf("output data mismatch (got %d bytes, want %d)", len(output), len(input))
	}
}

func TestCompressOutputExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "lzwpack_test")
	if err != nil {
		t.Fatalf("TempDir error: %v", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.bin")
	packedPath := filepath.Join(dir, "input.lzw")
	if err := ioutil.WriteFile(inPath, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := ioutil.WriteFile(packedPath, []byte("stale"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	err = Compress(inPath, packedPath, 0)
	zerr, ok := err.(*Error)
	if !ok || zerr.Kind != OutputExists {
		t.Errorf("Compress error: got %v, want OutputExists", err)
	}

	if err := Compress(inPath, packedPath, Overwrite); err != nil {
		t.Errorf("Compress with Overwrite: unexpected error %v", err)
	}
}

func TestCompressNoOutputOnMissingInput(t *testing.T) {
	dir, err := ioutil.TempDir("", "lzwpack_test")
	if err != nil {
		t.Fatalf("TempDir error: %v", err)
	}
	defer os.RemoveAll(dir)

	packedPath := filepath.Join(dir, "input.lzw")
	if err := Compress(filepath.Join(dir, "does-not-exist"), packedPath, 0); err == nil {
		t.Fatalf("Compress error: got nil, want an error")
	}
	if _, err := os.Stat(packedPath); !os.IsNotExist(err) {
		t.Errorf("Stat error: got %v, want a not-exist error", err)
	}
}
