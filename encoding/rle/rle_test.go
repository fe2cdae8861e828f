package rle

import (
	"testing"

	"github.com/hyparquet-go/parquet/internal/bits"
)

func TestBitWidthTable(t *testing.T) {
	tests := []struct {
		max  uint32
		want int
	}{
		{0, 0}, {1, 1}, {7, 3}, {8, 4}, {255, 8}, {256, 9}, {1048575, 20},
	}
	for _, tt := range tests {
		if got := bits.BitWidth(tt.max); got != tt.want {
			t.Errorf("BitWidth(%d) = %d, want %d", tt.max, got, tt.want)
		}
	}
}

// Boolean RLE page, 3 rows (spec.md §8 scenario 1): bytes 0x06 0x01 0x06 0x64
// at bit-width 1 are two RLE runs — a 3-run of 0x01, then a 3-run of 0x64.
// An RLE run's value is read whole from its ceil(width/8) bytes without
// masking, so the second run yields 100.
func TestDecodeRLERun(t *testing.T) {
	buf := []byte{0x06, 0x01, 0x06, 0x64}
	out := make([]int32, 6)
	consumed, err := Decode(buf, 1, out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	want := []int32{1, 1, 1, 100, 100, 100}
	for i, v := range want {
		if out[i] != v {
			t.Errorf("out[%d] = %d, want %d", i, out[i], v)
		}
	}
}

func TestDecodeCursorAdvancesByExactLength(t *testing.T) {
	// Encode a run of 4 values at bit-width 1, then pad with extra trailing
	// bytes that Decode must never read when driven through the length-
	// prefixed entry point, and the cursor must still land at 4+length.
	inner := []byte{0x08, 0x01, 0xFF, 0xFF} // run header (run len 4), value byte, then 2 padding bytes
	var buf []byte
	buf = append(buf, 0, 0, 0, 0) // length placeholder
	buf = append(buf, inner...)
	buf[0] = byte(len(inner))

	out := make([]int32, 4)
	consumed, err := DecodeWithLengthPrefix(buf, 1, out)
	if err != nil {
		t.Fatalf("DecodeWithLengthPrefix: %v", err)
	}
	if consumed != 4+len(inner) {
		t.Errorf("consumed = %d, want %d", consumed, 4+len(inner))
	}
	for _, v := range out {
		if v != 1 {
			t.Errorf("out = %v, want all 1s", out)
			break
		}
	}
}

func TestDecodeBitPackedGroup(t *testing.T) {
	// 8 values of bit-width 3: 0,1,2,3,4,5,6,7 packed LSB-first into 3 bytes.
	// header: (1 group)<<1 | 1 = 3
	packed := []byte{0b01010000 | 0b000, 0, 0}
	// build precisely via the reader semantics instead of hand-packing bits
	w := newBitWriter()
	for i := 0; i < 8; i++ {
		w.writeBits(uint64(i), 3)
	}
	packed = w.bytes()

	buf := append([]byte{0x03}, packed...)
	out := make([]int32, 8)
	consumed, err := Decode(buf, 3, out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	for i := 0; i < 8; i++ {
		if out[i] != int32(i) {
			t.Errorf("out[%d] = %d, want %d", i, out[i], i)
		}
	}
}

// bitWriter is a tiny LSB-first bit packer used only by tests to build
// known-good fixtures without depending on the decoder under test.
type bitWriter struct {
	buf    []byte
	bitPos int
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) writeBits(v uint64, n int) {
	for i := 0; i < n; i++ {
		byteIndex := w.bitPos / 8
		for len(w.buf) <= byteIndex {
			w.buf = append(w.buf, 0)
		}
		bit := (v >> i) & 1
		w.buf[byteIndex] |= byte(bit) << (w.bitPos % 8)
		w.bitPos++
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }
