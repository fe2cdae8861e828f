// Package column implements the column reader (spec.md §4.H): walking a
// column chunk's page headers, decoding each page, dereferencing dictionary
// pages, applying logical-type conversion, and assembling a chunk's worth of
// pages into one column's values for a row-group's selected row range.
package column

import (
	"fmt"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/convert"
	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/internal/debug"
	"github.com/hyparquet-go/parquet/page"
	"github.com/hyparquet-go/parquet/value"
)

// DuplicateDictionaryError is returned when a column chunk carries more than
// one DICTIONARY_PAGE; the format allows at most one.
type DuplicateDictionaryError struct {
	PathInSchema []string
}

func (e *DuplicateDictionaryError) Error() string {
	return fmt.Sprintf("parquet: column %v: duplicate dictionary page", e.PathInSchema)
}

// UnexpectedPageTypeError is returned for a page type this reader doesn't
// expect inside a column chunk's data-page range (INDEX_PAGE lives
// elsewhere, referenced by ColumnChunk.*IndexOffset, not interleaved here).
type UnexpectedPageTypeError struct {
	Type format.PageType
}

func (e *UnexpectedPageTypeError) Error() string {
	return "parquet: unexpected page type in column chunk: " + e.Type.String()
}

// TooLargeError is returned when a column chunk's declared uncompressed size
// exceeds the 1 GiB guard (spec.md §4.J): the chunk is skipped rather than
// risking an unbounded allocation.
type TooLargeError struct {
	PathInSchema []string
	Bytes        int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("parquet: column %v: chunk of %d bytes exceeds the 1 GiB guard", e.PathInSchema, e.Bytes)
}

// MaxChunkBytes is the 1 GiB per-column-chunk guard of spec.md §4.J.
const MaxChunkBytes = 1 << 30

// Page is one decoded, converted page's worth of values, still tagged with
// its row count for the caller's row-range bookkeeping.
type Page struct {
	Values  value.Array
	NumRows int
}

// Chunk is the decoded result of one column chunk: its converted dictionary
// (nil if the column has none) and the sequence of decoded data pages that
// fall within [selectStart, selectEnd).
type Chunk struct {
	Dictionary *value.Array
	Pages      []Page
	RowsRead   int64
}

// Read decodes chunkBytes — the bytes spanning [dictionary_page_offset ??
// data_page_offset, data_page_offset+total_compressed_size), exactly the
// range plan.Build computes for this column — into a Chunk covering the
// [selectStart, selectEnd) row range relative to the row group's first row.
//
// col describes the column's physical layout and level ceilings; elem and
// path are the owning leaf's schema element and dotted path, used for
// logical-type conversion. A flat column (col.IsFlat) whose pages entirely
// precede selectStart are skipped without decompression or decode, per
// spec.md §4.G's flat-column shortcut.
func Read(colMeta *format.ColumnMetaData, col page.Column, elem *format.SchemaElement, path string, opts convert.Options, chunkBytes []byte, chunkStart int64, selectStart, selectEnd int64) (*Chunk, error) {
	if colMeta.TotalUncompressedSize > MaxChunkBytes {
		return nil, &TooLargeError{PathInSchema: colMeta.PathInSchema, Bytes: colMeta.TotalUncompressedSize}
	}

	chunk := &Chunk{}
	pos := 0
	rowsSoFar := int64(0)

	for pos < len(chunkBytes) && rowsSoFar < selectEnd {
		header, consumed, err := format.DecodePageHeader(chunkBytes[pos:])
		if err != nil {
			return nil, fmt.Errorf("parquet: column %v: %w", colMeta.PathInSchema, err)
		}
		pos += consumed
		payloadEnd := pos + int(header.CompressedPageSize)
		if payloadEnd > len(chunkBytes) {
			return nil, fmt.Errorf("parquet: column %v: page payload of %d bytes exceeds remaining chunk of %d bytes", colMeta.PathInSchema, header.CompressedPageSize, len(chunkBytes)-pos)
		}
		payload := chunkBytes[pos:payloadEnd]
		pos = payloadEnd
		debug.Format("column %v: page type=%s compressed=%d uncompressed=%d", colMeta.PathInSchema, header.Type, header.CompressedPageSize, header.UncompressedPageSize)

		switch header.Type {
		case format.DictionaryPage:
			if chunk.Dictionary != nil {
				return nil, &DuplicateDictionaryError{PathInSchema: colMeta.PathInSchema}
			}
			dict, err := decodeDictionary(col, header, payload, colMeta.Codec, elem, path, opts)
			if err != nil {
				return nil, err
			}
			chunk.Dictionary = dict

		case format.DataPage, format.DataPageV2:
			if col.IsFlat && rowsSoFar+int64(pageNumRows(header)) <= selectStart {
				debug.Format("column %v: skipping page of %d rows before select start %d", colMeta.PathInSchema, pageNumRows(header), selectStart)
				rowsSoFar += int64(pageNumRows(header))
				continue
			}

			decoded, err := decodeDataPage(col, header, payload, colMeta.Codec, chunk.Dictionary)
			if err != nil {
				return nil, err
			}

			converted := decoded.Values
			if chunk.Dictionary == nil {
				out, err := convert.Apply(opts, elem, col.PhysicalType, path, &decoded.Values)
				if err != nil {
					return nil, err
				}
				converted = *out
			}

			rowStart := rowsSoFar
			rowsSoFar += int64(decoded.NumRows)

			if col.IsFlat && converted.DefinitionLevels == nil {
				converted = trimFlatPage(converted, rowStart, selectStart, selectEnd)
				decoded.NumRows = converted.Len()
			}

			if decoded.NumRows > 0 {
				chunk.Pages = append(chunk.Pages, Page{Values: converted, NumRows: decoded.NumRows})
			}

		default:
			return nil, &UnexpectedPageTypeError{Type: header.Type}
		}
	}

	chunk.RowsRead = rowsSoFar - selectStart
	if chunk.RowsRead < 0 {
		chunk.RowsRead = 0
	}
	return chunk, nil
}

func pageNumRows(header *format.PageHeader) int {
	if header.Type == format.DataPageV2 {
		return int(header.DataPageHeaderV2.NumRows)
	}
	return int(header.DataPageHeader.NumValues)
}

func decodeDictionary(col page.Column, header *format.PageHeader, payload []byte, codec format.CompressionCodec, elem *format.SchemaElement, path string, opts convert.Options) (*value.Array, error) {
	data, err := compress.Decompress(codec, nil, payload, int(header.UncompressedPageSize))
	if err != nil {
		return nil, fmt.Errorf("parquet: dictionary page: %w", err)
	}
	raw, err := page.DecodeDictionary(col, header.DictionaryPageHeader, data)
	if err != nil {
		return nil, err
	}
	return convert.Apply(opts, elem, col.PhysicalType, path, raw)
}

func decodeDataPage(col page.Column, header *format.PageHeader, payload []byte, codec format.CompressionCodec, dictionary *value.Array) (*page.Decoded, error) {
	data, err := page.Decompress(header, payload, codec)
	if err != nil {
		return nil, err
	}
	if header.Type == format.DataPageV2 {
		return page.DecodeDataPageV2(col, header.DataPageHeaderV2, data, dictionary)
	}
	return page.DecodeDataPageV1(col, header.DataPageHeader, data, dictionary)
}

// trimFlatPage drops values outside [selectStart, selectEnd) from a flat
// column's page, where the value at slice index i corresponds to global row
// rowStart+i (a flat column has exactly one value per row, no repetition).
func trimFlatPage(arr value.Array, rowStart, selectStart, selectEnd int64) value.Array {
	n := int64(arr.Len())
	lo := selectStart - rowStart
	if lo < 0 {
		lo = 0
	}
	hi := selectEnd - rowStart
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return value.Array{Kind: arr.Kind}
	}
	out := &value.Array{Kind: arr.Kind}
	for i := lo; i < hi; i++ {
		value.Append(out, &arr, int(i))
	}
	return *out
}
