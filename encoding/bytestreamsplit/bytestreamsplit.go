// Package bytestreamsplit implements the BYTE_STREAM_SPLIT encoding, which
// stores the k-th byte of every fixed-width value contiguously: all value
// byte-0's, then all byte-1's, and so on. It trades the sequential layout of
// PLAIN for one that compresses better, since floating-point mantissa bytes
// cluster by significance.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#byte-stream-split-byte_stream_split--9
package bytestreamsplit

import (
	"fmt"
	"io"
	"math"
)

func errShort(width, n, have int) error {
	need := width * n
	return fmt.Errorf("parquet: BYTE_STREAM_SPLIT: decoding %d values of width %d needs %d bytes, have %d: %w", n, width, need, have, io.ErrUnexpectedEOF)
}

// DecodeFloat decodes n IEEE-754 single-precision values.
func DecodeFloat(buf []byte, n int) ([]float32, error) {
	need := n * 4
	if len(buf) < need {
		return nil, errShort(4, n, len(buf))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var v uint32
		for b := 0; b < 4; b++ {
			v |= uint32(buf[b*n+i]) << (8 * uint(b))
		}
		out[i] = math.Float32frombits(v)
	}
	return out, nil
}

// DecodeDouble decodes n IEEE-754 double-precision values.
func DecodeDouble(buf []byte, n int) ([]float64, error) {
	need := n * 8
	if len(buf) < need {
		return nil, errShort(8, n, len(buf))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var bits uint64
		for b := 0; b < 8; b++ {
			bits |= uint64(buf[b*n+i]) << (8 * uint(b))
		}
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// DecodeFixedLenByteArray de-interleaves n values of typeLength bytes each,
// for use with FLOAT16 and other fixed-width logical types that adopt
// BYTE_STREAM_SPLIT.
func DecodeFixedLenByteArray(buf []byte, n, typeLength int) ([][]byte, error) {
	need := n * typeLength
	if len(buf) < need {
		return nil, errShort(typeLength, n, len(buf))
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, typeLength)
	}
	for i := 0; i < n; i++ {
		for b := 0; b < typeLength; b++ {
			out[i][b] = buf[b*n+i]
		}
	}
	return out, nil
}

// DecodeInt32 decodes n little-endian int32 values.
func DecodeInt32(buf []byte, n int) ([]int32, error) {
	need := n * 4
	if len(buf) < need {
		return nil, errShort(4, n, len(buf))
	}
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		var v uint32
		for b := 0; b < 4; b++ {
			v |= uint32(buf[b*n+i]) << (8 * uint(b))
		}
		out[i] = int32(v)
	}
	return out, nil
}

// DecodeInt64 decodes n little-endian int64 values.
func DecodeInt64(buf []byte, n int) ([]int64, error) {
	need := n * 8
	if len(buf) < need {
		return nil, errShort(8, n, len(buf))
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		var v uint64
		for b := 0; b < 8; b++ {
			v |= uint64(buf[b*n+i]) << (8 * uint(b))
		}
		out[i] = int64(v)
	}
	return out, nil
}
