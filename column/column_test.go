package column

import (
	"encoding/binary"
	"testing"

	"github.com/hyparquet-go/parquet/convert"
	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/page"
)

func plainInt32PageBytes(t *testing.T, values []int32) []byte {
	t.Helper()
	var valueBytes []byte
	for _, v := range values {
		valueBytes = binary.LittleEndian.AppendUint32(valueBytes, uint32(v))
	}

	header := thriftPageHeader(t, len(valueBytes), len(valueBytes), len(values))
	return append(header, valueBytes...)
}

// thriftPageHeader hand-encodes a minimal Thrift-compact PageHeader struct
// for a DATA_PAGE with a DataPageHeader carrying num_values and PLAIN
// encoding, matching the field layout format.DecodePageHeader expects.
func thriftPageHeader(t *testing.T, uncompressed, compressed, numValues int) []byte {
	t.Helper()
	var buf []byte

	// field 1 (type, i32 zigzag delta 1): DATA_PAGE = 0
	buf = append(buf, 0x15, zigzag(0))
	// field 2 (uncompressed_page_size, i32 delta 1)
	buf = append(buf, 0x15, zigzag(int32(uncompressed)))
	// field 3 (compressed_page_size, i32 delta 1)
	buf = append(buf, 0x15, zigzag(int32(compressed)))
	// field 5 (data_page_header, struct, delta 2)
	buf = append(buf, 0x2C)
	// nested struct: field 1 num_values (i32)
	buf = append(buf, 0x15, zigzag(int32(numValues)))
	// nested struct: field 2 encoding (i32) = PLAIN (0)
	buf = append(buf, 0x15, zigzag(0))
	buf = append(buf, 0x00) // stop nested struct
	buf = append(buf, 0x00) // stop outer struct
	return buf
}

func zigzag(v int32) byte {
	z := uint32((v << 1) ^ (v >> 31))
	return byte(z)
}

func TestReadFlatColumnSinglePage(t *testing.T) {
	data := plainInt32PageBytes(t, []int32{1, 2, 3, 4})
	colMeta := &format.ColumnMetaData{
		Type:                  format.Int32,
		PathInSchema:          []string{"x"},
		Codec:                 format.Uncompressed,
		DataPageOffset:        0,
		TotalCompressedSize:   int64(len(data)),
		TotalUncompressedSize: int64(len(data)),
	}
	col := page.Column{PhysicalType: format.Int32, IsFlat: true}
	elem := &format.SchemaElement{}

	chunk, err := Read(colMeta, col, elem, "x", convert.DefaultOptions(), data, 0, 0, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(chunk.Pages) != 1 {
		t.Fatalf("len(Pages) = %d, want 1", len(chunk.Pages))
	}
	if chunk.Pages[0].Values.Len() != 4 {
		t.Errorf("values len = %d, want 4", chunk.Pages[0].Values.Len())
	}
	if chunk.RowsRead != 4 {
		t.Errorf("RowsRead = %d, want 4", chunk.RowsRead)
	}
}

func TestReadFlatColumnSkipsPageBeforeSelectStart(t *testing.T) {
	data := plainInt32PageBytes(t, []int32{1, 2, 3, 4})
	colMeta := &format.ColumnMetaData{
		Type:                  format.Int32,
		PathInSchema:          []string{"x"},
		Codec:                 format.Uncompressed,
		TotalCompressedSize:   int64(len(data)),
		TotalUncompressedSize: int64(len(data)),
	}
	col := page.Column{PhysicalType: format.Int32, IsFlat: true}
	elem := &format.SchemaElement{}

	// select rows [4, 4): nothing, and the page fully precedes selectStart.
	chunk, err := Read(colMeta, col, elem, "x", convert.DefaultOptions(), data, 0, 4, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(chunk.Pages) != 0 {
		t.Errorf("expected page to be skipped, got %d pages", len(chunk.Pages))
	}
}

func TestReadRejectsOversizedChunk(t *testing.T) {
	colMeta := &format.ColumnMetaData{
		PathInSchema:          []string{"x"},
		TotalUncompressedSize: MaxChunkBytes + 1,
	}
	col := page.Column{PhysicalType: format.Int32, IsFlat: true}
	elem := &format.SchemaElement{}

	_, err := Read(colMeta, col, elem, "x", convert.DefaultOptions(), nil, 0, 0, 0)
	if err == nil {
		t.Fatal("expected TooLargeError")
	}
	if _, ok := err.(*TooLargeError); !ok {
		t.Errorf("err = %T, want *TooLargeError", err)
	}
}
