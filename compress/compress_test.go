package compress_test

import (
	"testing"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/format"

	_ "github.com/hyparquet-go/parquet/compress/brotli"
	_ "github.com/hyparquet-go/parquet/compress/gzip"
	_ "github.com/hyparquet-go/parquet/compress/lz4"
	_ "github.com/hyparquet-go/parquet/compress/snappy"
	_ "github.com/hyparquet-go/parquet/compress/uncompressed"
	_ "github.com/hyparquet-go/parquet/compress/zstd"
)

// spec.md §8 scenario 4: a raw SNAPPY literal block decoding to "hy".
func TestSnappyLiteral(t *testing.T) {
	src := []byte{0x02, 0x04, 'h', 'y'}
	out, err := compress.Decompress(format.Snappy, nil, src, 2)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "hy" {
		t.Errorf("out = %q, want %q", out, "hy")
	}
}

func TestUncompressedIsIdentity(t *testing.T) {
	src := []byte("passthrough")
	out, err := compress.Decompress(format.Uncompressed, nil, src, len(src))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "passthrough" {
		t.Errorf("out = %q", out)
	}
}

func TestUnsupportedCodec(t *testing.T) {
	if _, err := compress.Decompress(format.CompressionCodec(99), nil, nil, 0); err == nil {
		t.Fatal("expected error for unregistered codec")
	}
}

func TestLengthMismatch(t *testing.T) {
	src := []byte("passthrough")
	if _, err := compress.Decompress(format.Uncompressed, nil, src, len(src)+1); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
