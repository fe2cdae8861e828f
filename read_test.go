package parquet

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/hyparquet-go/parquet/source"
)

// The helpers below hand-encode a minimal Thrift Compact Protocol struct,
// mirroring format/metadata_test.go's buildField/appendZigzagVarint/
// appendUvarint (unexported there, so duplicated here) to construct a real
// end-to-end parquet file byte-for-byte: footer metadata plus PLAIN-encoded
// data pages.
const (
	thriftStop   = 0x0
	thriftI32    = 0x5
	thriftI64    = 0x6
	thriftBinary = 0x8
	thriftList   = 0x9
	thriftStruct = 0xC
)

func buildField(dst []byte, compactType byte, fid, lastFid int16) []byte {
	delta := fid - lastFid
	if delta > 0 && delta < 16 {
		return append(dst, byte(delta)<<4|compactType)
	}
	dst = append(dst, compactType)
	u := uint32(int32(fid)<<1) ^ uint32(int32(fid)>>31)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func appendZigzagVarint(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func appendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// buildDataPageHeader returns the Thrift-encoded PageHeader for a v1 DATA_PAGE
// of numValues PLAIN-encoded values, whose (un)compressed size is
// payloadSize bytes (this test never compresses).
func buildDataPageHeader(numValues, payloadSize int32) []byte {
	var dph []byte
	dph = buildField(dph, thriftI32, 1, 0)
	dph = appendZigzagVarint(dph, int64(numValues))
	dph = buildField(dph, thriftI32, 2, 1) // encoding = PLAIN (0)
	dph = appendZigzagVarint(dph, 0)
	dph = append(dph, thriftStop)

	var ph []byte
	ph = buildField(ph, thriftI32, 1, 0) // type = DATA_PAGE (0)
	ph = appendZigzagVarint(ph, 0)
	ph = buildField(ph, thriftI32, 2, 1)
	ph = appendZigzagVarint(ph, int64(payloadSize))
	ph = buildField(ph, thriftI32, 3, 2)
	ph = appendZigzagVarint(ph, int64(payloadSize))
	ph = buildField(ph, thriftStruct, 5, 3)
	ph = append(ph, dph...)
	ph = append(ph, thriftStop)
	return ph
}

// buildRowgroupsFile constructs a parquet file with a single REQUIRED INT64
// column "v" holding values 1..15 split across 3 row groups of 5 rows each
// — spec.md §8 scenario 6 ("rowgroups.parquet").
func buildRowgroupsFile(t *testing.T) []byte {
	t.Helper()

	header := buildDataPageHeader(5, 40)

	var body []byte
	body = append(body, "PAR1"...)

	offsets := make([]int64, 3)
	for g := 0; g < 3; g++ {
		offsets[g] = int64(len(body))
		body = append(body, header...)
		for i := 0; i < 5; i++ {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(g*5+i+1))
			body = append(body, buf[:]...)
		}
	}

	// schema: root(num_children=1) -> leaf "v" (INT64, REQUIRED)
	var root []byte
	root = buildField(root, thriftBinary, 4, 0)
	root = appendUvarint(root, 6)
	root = append(root, "schema"...)
	root = buildField(root, thriftI32, 5, 4)
	root = appendZigzagVarint(root, 1)
	root = append(root, thriftStop)

	var leaf []byte
	leaf = buildField(leaf, thriftI32, 1, 0) // type = INT64 (2)
	leaf = appendZigzagVarint(leaf, 2)
	leaf = buildField(leaf, thriftI32, 3, 1) // repetition = REQUIRED (0)
	leaf = appendZigzagVarint(leaf, 0)
	leaf = buildField(leaf, thriftBinary, 4, 3)
	leaf = appendUvarint(leaf, 1)
	leaf = append(leaf, "v"...)
	leaf = append(leaf, thriftStop)

	var schemaList []byte
	schemaList = append(schemaList, byte(2)<<4|thriftStruct)
	schemaList = append(schemaList, root...)
	schemaList = append(schemaList, leaf...)

	var pathList []byte
	pathList = append(pathList, byte(1)<<4|thriftBinary)
	pathList = appendUvarint(pathList, 1)
	pathList = append(pathList, "v"...)

	var rgList []byte
	for g := 0; g < 3; g++ {
		var cmd []byte
		cmd = buildField(cmd, thriftI32, 1, 0) // type = INT64
		cmd = appendZigzagVarint(cmd, 2)
		cmd = buildField(cmd, thriftList, 3, 1) // path_in_schema
		cmd = append(cmd, pathList...)
		cmd = buildField(cmd, thriftI32, 4, 3) // codec = UNCOMPRESSED (0)
		cmd = appendZigzagVarint(cmd, 0)
		cmd = buildField(cmd, thriftI64, 5, 4) // num_values
		cmd = appendZigzagVarint(cmd, 5)
		cmd = buildField(cmd, thriftI64, 6, 5) // total_uncompressed_size
		cmd = appendZigzagVarint(cmd, 40)
		cmd = buildField(cmd, thriftI64, 7, 6) // total_compressed_size
		cmd = appendZigzagVarint(cmd, int64(len(header)+40))
		cmd = buildField(cmd, thriftI64, 9, 7) // data_page_offset
		cmd = appendZigzagVarint(cmd, offsets[g])
		cmd = append(cmd, thriftStop)

		var col []byte
		col = buildField(col, thriftI64, 2, 0) // file_offset
		col = appendZigzagVarint(col, offsets[g])
		col = buildField(col, thriftStruct, 3, 2) // meta_data
		col = append(col, cmd...)
		col = append(col, thriftStop)

		var colList []byte
		colList = append(colList, byte(1)<<4|thriftStruct)
		colList = append(colList, col...)

		var rowGroup []byte
		rowGroup = buildField(rowGroup, thriftList, 1, 0) // columns
		rowGroup = append(rowGroup, colList...)
		rowGroup = buildField(rowGroup, thriftI64, 3, 1) // num_rows
		rowGroup = appendZigzagVarint(rowGroup, 5)
		rowGroup = append(rowGroup, thriftStop)

		rgList = append(rgList, rowGroup...)
	}
	rgListHeader := []byte{byte(3)<<4 | thriftStruct}

	var top []byte
	top = buildField(top, thriftI32, 1, 0) // version
	top = appendZigzagVarint(top, 1)
	top = buildField(top, thriftList, 2, 1) // schema
	top = append(top, schemaList...)
	top = buildField(top, thriftI64, 3, 2) // num_rows
	top = appendZigzagVarint(top, 15)
	top = buildField(top, thriftList, 4, 3) // row_groups
	top = append(top, rgListHeader...)
	top = append(top, rgList...)
	top = append(top, thriftStop)

	body = append(body, top...)

	trailer := make([]byte, 8)
	binary.LittleEndian.PutUint32(trailer[0:4], uint32(len(top)))
	copy(trailer[4:8], "PAR1")
	body = append(body, trailer...)

	return body
}

func TestReadObjectsRowgroups(t *testing.T) {
	file := buildRowgroupsFile(t)
	src := source.FromReaderAt(bytes.NewReader(file), int64(len(file)))

	ctx := context.Background()
	opts := NewReadOptions(src)
	rows, err := ReadObjects(ctx, opts)
	if err != nil {
		t.Fatalf("ReadObjects: %v", err)
	}
	if len(rows) != 15 {
		t.Fatalf("len(rows) = %d, want 15", len(rows))
	}
	for i, row := range rows {
		v, ok := row["v"].(int64)
		if !ok || v != int64(i+1) {
			t.Errorf("rows[%d] = %v, want {v: %d}", i, row, i+1)
		}
	}
}

func TestReadArraysRowRange(t *testing.T) {
	file := buildRowgroupsFile(t)
	src := source.FromReaderAt(bytes.NewReader(file), int64(len(file)))

	ctx := context.Background()
	opts := NewReadOptions(src)
	opts.RowStart, opts.RowEnd = 4, 9 // spans the tail of group 0 and the head of group 1
	rows, err := ReadArrays(ctx, opts)
	if err != nil {
		t.Fatalf("ReadArrays: %v", err)
	}
	want := []int64{5, 6, 7, 8, 9}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if len(row) != 1 || row[0].(int64) != want[i] {
			t.Errorf("rows[%d] = %v, want [%d]", i, row, want[i])
		}
	}
}

func TestReadMetadataRefetchesLargerFooter(t *testing.T) {
	file := buildRowgroupsFile(t)
	src := source.FromReaderAt(bytes.NewReader(file), int64(len(file)))

	md, err := ReadMetadata(context.Background(), src, 16) // smaller than the footer
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if md.NumRows != 15 {
		t.Errorf("NumRows = %d, want 15", md.NumRows)
	}
	if len(md.RowGroups) != 3 {
		t.Errorf("len(RowGroups) = %d, want 3", len(md.RowGroups))
	}
}
