// Package plain implements the PLAIN encoding: the simplest Parquet
// encoding, values stored back-to-back with no compression of their own.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

func errShort(what string, need, have int) error {
	return fmt.Errorf("parquet: PLAIN: decoding %s needs %d bytes, have %d: %w", what, need, have, io.ErrUnexpectedEOF)
}

// DecodeBoolean unpacks n booleans from a bit-packed, LSB-first bitmap of
// ceil(n/8) bytes.
func DecodeBoolean(buf []byte, n int) ([]bool, error) {
	need := (n + 7) / 8
	if len(buf) < need {
		return nil, errShort("BOOLEAN", need, len(buf))
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = (buf[i/8]>>(uint(i)%8))&1 != 0
	}
	return out, nil
}

// DecodeInt32 decodes n contiguous little-endian int32 values.
func DecodeInt32(buf []byte, n int) ([]int32, error) {
	need := n * 4
	if len(buf) < need {
		return nil, errShort("INT32", need, len(buf))
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}

// DecodeInt64 decodes n contiguous little-endian int64 values.
func DecodeInt64(buf []byte, n int) ([]int64, error) {
	need := n * 8
	if len(buf) < need {
		return nil, errShort("INT64", need, len(buf))
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}

// DecodeInt96 decodes n 12-byte INT96 values, each the low 64 bits followed
// by the high 32 bits, both little-endian.
func DecodeInt96(buf []byte, n int) ([][12]byte, error) {
	need := n * 12
	if len(buf) < need {
		return nil, errShort("INT96", need, len(buf))
	}
	out := make([][12]byte, n)
	for i := range out {
		copy(out[i][:], buf[12*i:12*i+12])
	}
	return out, nil
}

// DecodeFloat decodes n contiguous little-endian IEEE-754 single-precision
// values.
func DecodeFloat(buf []byte, n int) ([]float32, error) {
	need := n * 4
	if len(buf) < need {
		return nil, errShort("FLOAT", need, len(buf))
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}

// DecodeDouble decodes n contiguous little-endian IEEE-754 double-precision
// values.
func DecodeDouble(buf []byte, n int) ([]float64, error) {
	need := n * 8
	if len(buf) < need {
		return nil, errShort("DOUBLE", need, len(buf))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}

// DecodeByteArray decodes n variable-length byte array values, each a u32
// length prefix followed by that many bytes. The returned slices are views
// into buf — the caller must keep buf alive for as long as the values are
// in use.
func DecodeByteArray(buf []byte, n int) ([][]byte, error) {
	out := make([][]byte, n)
	pos := 0
	for i := 0; i < n; i++ {
		if len(buf)-pos < 4 {
			return nil, errShort("BYTE_ARRAY length", 4, len(buf)-pos)
		}
		length := int(binary.LittleEndian.Uint32(buf[pos:]))
		pos += 4
		if length < 0 || len(buf)-pos < length {
			return nil, errShort("BYTE_ARRAY value", length, len(buf)-pos)
		}
		out[i] = buf[pos : pos+length]
		pos += length
	}
	return out, nil
}

// DecodeFixedLenByteArray decodes n fixed-width byte array values of
// typeLength bytes each, as views into buf.
func DecodeFixedLenByteArray(buf []byte, n, typeLength int) ([][]byte, error) {
	need := n * typeLength
	if len(buf) < need {
		return nil, errShort("FIXED_LEN_BYTE_ARRAY", need, len(buf))
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = buf[i*typeLength : (i+1)*typeLength]
	}
	return out, nil
}
