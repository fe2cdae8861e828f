// Package page implements the page reader: parsing a page header's payload,
// decompressing it, and decoding it into a value.Array per the encoding the
// page declares.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md
package page

import (
	"fmt"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/encoding/bytestreamsplit"
	"github.com/hyparquet-go/parquet/encoding/delta"
	"github.com/hyparquet-go/parquet/encoding/plain"
	"github.com/hyparquet-go/parquet/encoding/rle"
	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/internal/bits"
	"github.com/hyparquet-go/parquet/internal/debug"
	"github.com/hyparquet-go/parquet/value"
)

// Column is the subset of a column's schema the page decoder needs: its
// physical storage and the repetition/definition level ceilings that
// determine how many level arrays a data page carries.
type Column struct {
	PhysicalType format.Type
	TypeLength   int
	MaxRepLevel  int
	MaxDefLevel  int
	IsFlat       bool
}

// UnsupportedEncodingError is returned for an encoding this decoder doesn't
// implement for the page type it appeared in.
type UnsupportedEncodingError struct {
	Encoding format.Encoding
}

func (e *UnsupportedEncodingError) Error() string {
	return "parquet: unsupported encoding: " + e.Encoding.String()
}

// Decoded is one page's decoded, not-yet-converted contents.
type Decoded struct {
	Values value.Array
	// NumRows is the number of logical rows this page covers: for a flat
	// column this equals the value count; for a nested column it's the
	// count of rep-level-0 entries (DecodeDataPageV1 counts them from the
	// repetition levels; DecodeDataPageV2 takes the header's NumRows).
	NumRows int
}

// Decompress returns the page's uncompressed (rep-levels | def-levels |
// values) byte stream. payload must be exactly header's CompressedPageSize
// bytes, the page's raw bytes immediately following its header.
func Decompress(header *format.PageHeader, payload []byte, codec format.CompressionCodec) ([]byte, error) {
	if header.Type == format.DataPageV2 {
		return decompressV2(header, payload, codec)
	}
	return compress.Decompress(codec, nil, payload, int(header.UncompressedPageSize))
}

func decompressV2(header *format.PageHeader, payload []byte, codec format.CompressionCodec) ([]byte, error) {
	v2 := header.DataPageHeaderV2
	levelsLen := int(v2.RepetitionLevelsByteLength) + int(v2.DefinitionLevelsByteLength)
	if levelsLen > len(payload) {
		return nil, fmt.Errorf("parquet: data page v2: level sections of %d bytes exceed payload of %d bytes", levelsLen, len(payload))
	}
	levels := payload[:levelsLen]
	valuesSrc := payload[levelsLen:]

	if !v2.IsCompressed || codec == format.Uncompressed {
		out := make([]byte, 0, len(payload))
		out = append(out, levels...)
		out = append(out, valuesSrc...)
		return out, nil
	}

	uncompressedValuesLen := int(header.UncompressedPageSize) - levelsLen
	values, err := compress.Decompress(codec, nil, valuesSrc, uncompressedValuesLen)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, levelsLen+len(values))
	out = append(out, levels...)
	out = append(out, values...)
	return out, nil
}

// DecodeDictionary decodes a DICTIONARY_PAGE's already-decompressed payload:
// a plain array of num_values physical-type values.
func DecodeDictionary(col Column, header *format.DictionaryPageHeader, data []byte) (*value.Array, error) {
	return readPlain(col.PhysicalType, col.TypeLength, int(header.NumValues), data)
}

// DecodeDataPageV1 decodes a decompressed DATA_PAGE (v1) stream: rep-levels
// (if MaxRepLevel>0), def-levels (if MaxDefLevel>0) — each self-delimited by
// its own u32 length prefix — followed by the value payload.
func DecodeDataPageV1(col Column, header *format.DataPageHeader, data []byte, dictionary *value.Array) (*Decoded, error) {
	numValues := int(header.NumValues)
	pos := 0

	var repLevels []int32
	if col.MaxRepLevel > 0 {
		bw := bits.BitWidth(uint32(col.MaxRepLevel))
		levels := make([]int32, numValues)
		n, err := rle.DecodeWithLengthPrefix(data[pos:], bw, levels)
		if err != nil {
			return nil, fmt.Errorf("parquet: data page v1: repetition levels: %w", err)
		}
		pos += n
		repLevels = levels
	}

	var defLevels []int32
	numNulls := 0
	if col.MaxDefLevel > 0 {
		bw := bits.BitWidth(uint32(col.MaxDefLevel))
		levels := make([]int32, numValues)
		n, err := rle.DecodeWithLengthPrefix(data[pos:], bw, levels)
		if err != nil {
			return nil, fmt.Errorf("parquet: data page v1: definition levels: %w", err)
		}
		pos += n
		for _, d := range levels {
			if int(d) != col.MaxDefLevel {
				numNulls++
			}
		}
		if numNulls > 0 {
			defLevels = levels
		}
	}

	numPresent := numValues - numNulls
	arr, err := decodeValues(col, header.Encoding, data[pos:], numPresent, dictionary)
	if err != nil {
		return nil, err
	}
	arr.RepetitionLevels = repLevels
	arr.DefinitionLevels = defLevels

	return &Decoded{Values: *arr, NumRows: countRows(repLevels, numValues)}, nil
}

// DecodeDataPageV2 decodes a decompressed DATA_PAGE_V2 stream, whose
// rep/def byte lengths are given explicitly by the header rather than
// self-delimited.
func DecodeDataPageV2(col Column, header *format.DataPageHeaderV2, data []byte, dictionary *value.Array) (*Decoded, error) {
	numValues := int(header.NumValues)
	pos := 0

	var repLevels []int32
	if col.MaxRepLevel > 0 {
		n := int(header.RepetitionLevelsByteLength)
		bw := bits.BitWidth(uint32(col.MaxRepLevel))
		levels := make([]int32, numValues)
		if _, err := rle.Decode(data[pos:pos+n], bw, levels); err != nil {
			return nil, fmt.Errorf("parquet: data page v2: repetition levels: %w", err)
		}
		pos += n
		repLevels = levels
	}

	var defLevels []int32
	if col.MaxDefLevel > 0 {
		n := int(header.DefinitionLevelsByteLength)
		bw := bits.BitWidth(uint32(col.MaxDefLevel))
		levels := make([]int32, numValues)
		if _, err := rle.Decode(data[pos:pos+n], bw, levels); err != nil {
			return nil, fmt.Errorf("parquet: data page v2: definition levels: %w", err)
		}
		pos += n
		if int(header.NumNulls) > 0 {
			defLevels = levels
		}
	}

	numPresent := numValues - int(header.NumNulls)
	arr, err := decodeValues(col, header.Encoding, data[pos:], numPresent, dictionary)
	if err != nil {
		return nil, err
	}
	arr.RepetitionLevels = repLevels
	arr.DefinitionLevels = defLevels

	return &Decoded{Values: *arr, NumRows: int(header.NumRows)}, nil
}

func countRows(repLevels []int32, numValues int) int {
	if repLevels == nil {
		return numValues
	}
	rows := 0
	for _, r := range repLevels {
		if r == 0 {
			rows++
		}
	}
	return rows
}

func decodeValues(col Column, encoding format.Encoding, buf []byte, n int, dictionary *value.Array) (*value.Array, error) {
	debug.Format("page: decoding %d values as %s (physical type %s)", n, encoding, col.PhysicalType)
	switch encoding {
	case format.Plain:
		return readPlain(col.PhysicalType, col.TypeLength, n, buf)

	case format.PlainDictionary, format.RLEDictionary, format.RLE:
		return decodeRLEOrDictionary(col, buf, n, dictionary)

	case format.ByteStreamSplit:
		return readByteStreamSplit(col.PhysicalType, col.TypeLength, n, buf)

	case format.DeltaBinaryPacked:
		return readDeltaBinaryPacked(col.PhysicalType, buf)

	case format.DeltaLengthByteArray:
		values, _, err := delta.DecodeLengthByteArray(buf)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBytesVar, BytesVar: values}, nil

	case format.DeltaByteArray:
		values, _, err := delta.DecodeByteArray(buf)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBytesVar, BytesVar: values}, nil

	default:
		return nil, &UnsupportedEncodingError{Encoding: encoding}
	}
}

func decodeRLEOrDictionary(col Column, buf []byte, n int, dictionary *value.Array) (*value.Array, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("parquet: RLE/dictionary-encoded page has no bit-width byte")
	}
	bitWidth := int(buf[0])
	rest := buf[1:]

	if bitWidth == 0 {
		if col.PhysicalType == format.Boolean && dictionary == nil {
			return &value.Array{Kind: value.KindBool, Bool: make([]bool, n)}, nil
		}
		idx := make([]int32, n)
		return value.Gather(dictionary, idx), nil
	}

	if col.PhysicalType == format.Boolean && dictionary == nil {
		out := make([]int32, n)
		if _, err := rle.Decode(rest, bitWidth, out); err != nil {
			return nil, err
		}
		bools := make([]bool, n)
		for i, v := range out {
			bools[i] = v != 0
		}
		return &value.Array{Kind: value.KindBool, Bool: bools}, nil
	}

	idx := make([]int32, n)
	if _, err := rle.Decode(rest, bitWidth, idx); err != nil {
		return nil, err
	}
	if dictionary == nil {
		return &value.Array{Kind: value.KindInt32, Int32: idx}, nil
	}
	return value.Gather(dictionary, idx), nil
}

func readDeltaBinaryPacked(t format.Type, buf []byte) (*value.Array, error) {
	switch t {
	case format.Int32:
		values, _, err := delta.DecodeInt32(buf)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt32, Int32: values}, nil
	case format.Int64:
		values, _, err := delta.DecodeInt64(buf)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt64, Int64: values}, nil
	default:
		return nil, fmt.Errorf("parquet: DELTA_BINARY_PACKED: unsupported physical type %s", t)
	}
}

func readByteStreamSplit(t format.Type, typeLength, n int, buf []byte) (*value.Array, error) {
	switch t {
	case format.Float:
		values, err := bytestreamsplit.DecodeFloat(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindFloat32, Float32: values}, nil
	case format.Double:
		values, err := bytestreamsplit.DecodeDouble(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindFloat64, Float64: values}, nil
	case format.Int32:
		values, err := bytestreamsplit.DecodeInt32(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt32, Int32: values}, nil
	case format.Int64:
		values, err := bytestreamsplit.DecodeInt64(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt64, Int64: values}, nil
	case format.FixedLenByteArray:
		values, err := bytestreamsplit.DecodeFixedLenByteArray(buf, n, typeLength)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBytesFixed, BytesFixed: values}, nil
	default:
		return nil, fmt.Errorf("parquet: BYTE_STREAM_SPLIT: unsupported physical type %s", t)
	}
}

func readPlain(t format.Type, typeLength, n int, buf []byte) (*value.Array, error) {
	switch t {
	case format.Boolean:
		values, err := plain.DecodeBoolean(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBool, Bool: values}, nil
	case format.Int32:
		values, err := plain.DecodeInt32(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt32, Int32: values}, nil
	case format.Int64:
		values, err := plain.DecodeInt64(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindInt64, Int64: values}, nil
	case format.Int96:
		values, err := plain.DecodeInt96(buf, n)
		if err != nil {
			return nil, err
		}
		out := make([][]byte, n)
		for i := range values {
			v := values[i]
			out[i] = v[:]
		}
		return &value.Array{Kind: value.KindBytesFixed, BytesFixed: out}, nil
	case format.Float:
		values, err := plain.DecodeFloat(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindFloat32, Float32: values}, nil
	case format.Double:
		values, err := plain.DecodeDouble(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindFloat64, Float64: values}, nil
	case format.ByteArray:
		values, err := plain.DecodeByteArray(buf, n)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBytesVar, BytesVar: values}, nil
	case format.FixedLenByteArray:
		values, err := plain.DecodeFixedLenByteArray(buf, n, typeLength)
		if err != nil {
			return nil, err
		}
		return &value.Array{Kind: value.KindBytesFixed, BytesFixed: values}, nil
	default:
		return nil, fmt.Errorf("parquet: PLAIN: unsupported physical type %s", t)
	}
}

// Skip returns a zero-filled array of n values without touching page bytes,
// for the flat-column skip shortcut of spec.md §4.G.
func Skip(col Column, n int) *value.Array {
	switch col.PhysicalType {
	case format.Boolean:
		return &value.Array{Kind: value.KindBool, Bool: make([]bool, n)}
	case format.Int32:
		return &value.Array{Kind: value.KindInt32, Int32: make([]int32, n)}
	case format.Int64:
		return &value.Array{Kind: value.KindInt64, Int64: make([]int64, n)}
	case format.Float:
		return &value.Array{Kind: value.KindFloat32, Float32: make([]float32, n)}
	case format.Double:
		return &value.Array{Kind: value.KindFloat64, Float64: make([]float64, n)}
	case format.Int96, format.FixedLenByteArray:
		out := make([][]byte, n)
		width := col.TypeLength
		if col.PhysicalType == format.Int96 {
			width = 12
		}
		for i := range out {
			out[i] = make([]byte, width)
		}
		return &value.Array{Kind: value.KindBytesFixed, BytesFixed: out}
	default:
		return &value.Array{Kind: value.KindBytesVar, BytesVar: make([][]byte, n)}
	}
}
