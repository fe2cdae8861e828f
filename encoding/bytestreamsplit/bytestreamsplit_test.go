package bytestreamsplit

import (
	"math"
	"testing"
)

func TestDecodeFloat(t *testing.T) {
	values := []float32{1.5, -2.25, 3.0}
	bitsOf := func(f float32) uint32 { return math.Float32bits(f) }

	// lay out byte-0's, then byte-1's, byte-2's, byte-3's across the 3 values.
	buf := make([]byte, 4*len(values))
	for i, f := range values {
		b := bitsOf(f)
		for k := 0; k < 4; k++ {
			buf[k*len(values)+i] = byte(b >> (8 * uint(k)))
		}
	}

	out, err := DecodeFloat(buf, len(values))
	if err != nil {
		t.Fatalf("DecodeFloat: %v", err)
	}
	for i, want := range values {
		if out[i] != want {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestDecodeDouble(t *testing.T) {
	values := []float64{1.5, -2.25}
	buf := make([]byte, 8*len(values))
	for i, f := range values {
		b := math.Float64bits(f)
		for k := 0; k < 8; k++ {
			buf[k*len(values)+i] = byte(b >> (8 * uint(k)))
		}
	}
	out, err := DecodeDouble(buf, len(values))
	if err != nil {
		t.Fatalf("DecodeDouble: %v", err)
	}
	for i, want := range values {
		if out[i] != want {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestDecodeInt32Short(t *testing.T) {
	if _, err := DecodeInt32([]byte{1, 2, 3}, 1); err == nil {
		t.Fatal("expected error on truncated input")
	}
}

func TestDecodeFixedLenByteArray(t *testing.T) {
	// 2 values of width 2: value0 = {0x01, 0x03}, value1 = {0x02, 0x04}
	// split layout: byte-0's = [0x01, 0x02], byte-1's = [0x03, 0x04]
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	out, err := DecodeFixedLenByteArray(buf, 2, 2)
	if err != nil {
		t.Fatalf("DecodeFixedLenByteArray: %v", err)
	}
	if out[0][0] != 0x01 || out[0][1] != 0x03 || out[1][0] != 0x02 || out[1][1] != 0x04 {
		t.Errorf("out = %v", out)
	}
}
