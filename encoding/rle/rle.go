// Package rle implements the hybrid run-length/bit-packed encoding used for
// repetition levels, definition levels, dictionary-indexed data pages, and
// PLAIN-encoded booleans.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/hyparquet-go/parquet/internal/bits"
)

// BitpackOOBError is returned when a run-length/bit-packed payload is
// shorter than its header promises.
type BitpackOOBError struct {
	Detail string
}

func (e *BitpackOOBError) Error() string { return "parquet: RLE/bit-pack: " + e.Detail }

// Decode fills out with exactly len(out) values decoded from buf (which
// holds no length prefix — its length is the decodable extent), alternating
// RLE runs and bit-packed groups per the hybrid encoding's header byte.
// Returns the number of bytes of buf consumed.
//
// If buf is exhausted with out only partially filled (other than by the
// final bit-packed group's padding, which is discarded per spec), the
// decode fails with BitpackOOBError.
func Decode(buf []byte, bitWidth int, out []int32) (consumed int, err error) {
	if bitWidth < 0 || bitWidth > 32 {
		return 0, &BitpackOOBError{Detail: fmt.Sprintf("invalid bit width %d", bitWidth)}
	}
	pos := 0
	filled := 0
	byteCount := bits.ByteCount(bitWidth)

	for filled < len(out) {
		header, n := binary.Uvarint(buf[pos:])
		if n <= 0 {
			return pos, &BitpackOOBError{Detail: "truncated run header"}
		}
		pos += n

		if header&1 == 0 {
			runLen := int(header >> 1)
			if pos+byteCount > len(buf) {
				return pos, &BitpackOOBError{Detail: fmt.Sprintf("RLE run of %d values truncated", runLen)}
			}
			var value uint64
			for i := 0; i < byteCount; i++ {
				value |= uint64(buf[pos+i]) << (8 * uint(i))
			}
			pos += byteCount
			for i := 0; i < runLen && filled < len(out); i++ {
				out[filled] = int32(value)
				filled++
			}
		} else {
			groupCount := int(header>>1) * 8
			br := bits.NewReader(buf[pos:])
			for i := 0; i < groupCount; i++ {
				v, err := br.ReadBits(bitWidth)
				if err != nil {
					return pos, &BitpackOOBError{Detail: "bit-packed group truncated"}
				}
				if filled < len(out) {
					out[filled] = int32(v)
					filled++
				}
			}
			pos += br.ByteOffset()
		}
	}

	return pos, nil
}

// DecodeBool is Decode specialised for bit_width=1, unpacking into bools.
func DecodeBool(buf []byte, out []bool) (consumed int, err error) {
	ints := make([]int32, len(out))
	consumed, err = Decode(buf, 1, ints)
	for i, v := range ints {
		out[i] = v != 0
	}
	return consumed, err
}

// DecodeWithLengthPrefix reads a little-endian u32 length, decodes that many
// bytes with Decode, and reports the cursor as advanced by exactly 4+length
// regardless of how many of those bytes Decode itself consumed — some
// writers pad the encoded run, and the spec requires the cursor to still
// land at the declared boundary (spec.md §8's RLE/bit-pack decoder
// invariant).
func DecodeWithLengthPrefix(buf []byte, bitWidth int, out []int32) (consumed int, err error) {
	if len(buf) < 4 {
		return 0, &BitpackOOBError{Detail: "missing u32 length prefix"}
	}
	length := int(binary.LittleEndian.Uint32(buf))
	if len(buf) < 4+length {
		return 0, &BitpackOOBError{Detail: fmt.Sprintf("length prefix %d exceeds available %d bytes", length, len(buf)-4)}
	}
	_, err = Decode(buf[4:4+length], bitWidth, out)
	return 4 + length, err
}
