// Package delta implements the DELTA_BINARY_PACKED, DELTA_LENGTH_BYTE_ARRAY
// and DELTA_BYTE_ARRAY encodings.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#delta-encoding-delta_binary_packed--5
package delta

import (
	"encoding/binary"
	"fmt"

	"github.com/hyparquet-go/parquet/internal/bits"
)

// DecodeError reports a DELTA_BINARY_PACKED payload that violates the
// encoding's structural invariants (spec.md §7's DeltaDecode error).
type DecodeError struct {
	Detail string
}

func (e *DecodeError) Error() string { return "parquet: DELTA_BINARY_PACKED: " + e.Detail }

// decodeHeader reads (block_size, miniblocks_per_block, total_count,
// first_value) from the start of a DELTA_BINARY_PACKED run.
func decodeHeader(buf []byte) (blockSize, numMiniBlocks, totalCount int, firstValue int64, consumed int, err error) {
	pos := 0

	u, n := binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, 0, 0, 0, 0, &DecodeError{Detail: "truncated block size"}
	}
	blockSize = int(u)
	pos += n

	u, n = binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, 0, 0, 0, 0, &DecodeError{Detail: "truncated miniblock count"}
	}
	numMiniBlocks = int(u)
	pos += n

	u, n = binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, 0, 0, 0, 0, &DecodeError{Detail: "truncated value count"}
	}
	totalCount = int(u)
	pos += n

	v, n := binary.Varint(buf[pos:])
	if n <= 0 {
		return 0, 0, 0, 0, 0, &DecodeError{Detail: "truncated first value"}
	}
	firstValue = v
	pos += n

	if numMiniBlocks <= 0 || blockSize <= 0 || blockSize%numMiniBlocks != 0 {
		return 0, 0, 0, 0, 0, &DecodeError{Detail: fmt.Sprintf("invalid block size %d / miniblock count %d", blockSize, numMiniBlocks)}
	}
	return blockSize, numMiniBlocks, totalCount, firstValue, pos, nil
}

// decode reads a full DELTA_BINARY_PACKED run from the start of buf and
// returns its values (len == totalCount) and the number of bytes consumed.
func decode(buf []byte) (values []int64, consumed int, err error) {
	blockSize, numMiniBlocks, totalCount, firstValue, pos, err := decodeHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	if totalCount < 0 {
		return nil, 0, &DecodeError{Detail: "negative total value count"}
	}

	values = make([]int64, 0, totalCount)
	if totalCount > 0 {
		values = append(values, firstValue)
	}

	miniBlockSize := blockSize / numMiniBlocks
	last := firstValue

	for len(values) < totalCount {
		minDelta, n := binary.Varint(buf[pos:])
		if n <= 0 {
			return nil, 0, &DecodeError{Detail: "truncated block min delta"}
		}
		pos += n

		if pos+numMiniBlocks > len(buf) {
			return nil, 0, &DecodeError{Detail: "truncated bit-width array"}
		}
		bitWidths := buf[pos : pos+numMiniBlocks]
		pos += numMiniBlocks

		block := make([]int64, 0, blockSize)
		br := bits.NewReader(buf[pos:])

		for _, bw := range bitWidths {
			bitWidth := int(bw)
			if bitWidth > 64 {
				return nil, 0, &DecodeError{Detail: fmt.Sprintf("invalid miniblock bit width %d", bitWidth)}
			}
			for i := 0; i < miniBlockSize; i++ {
				var v uint64
				if bitWidth > 0 {
					var err error
					v, err = br.ReadBits(bitWidth)
					if err != nil {
						return nil, 0, &DecodeError{Detail: "miniblock data truncated"}
					}
				}
				block = append(block, int64(v)+minDelta)
			}
		}
		pos += br.ByteOffset()

		for _, d := range block {
			if len(values) >= totalCount {
				break
			}
			last += d
			values = append(values, last)
		}
	}

	return values, pos, nil
}

// DecodeInt64 decodes a DELTA_BINARY_PACKED run of int64 values.
func DecodeInt64(buf []byte) (values []int64, consumed int, err error) {
	return decode(buf)
}

// DecodeInt32 decodes a DELTA_BINARY_PACKED run of int32 values. The wire
// format is identical to the int64 variant (unsigned varint header counts,
// zigzag varint first value and min deltas); only the decoded value's
// storage width differs.
func DecodeInt32(buf []byte) (values []int32, consumed int, err error) {
	v64, consumed, err := decode(buf)
	if err != nil {
		return nil, 0, err
	}
	out := make([]int32, len(v64))
	for i, v := range v64 {
		out[i] = int32(v)
	}
	return out, consumed, nil
}
