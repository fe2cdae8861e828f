package format

import (
	"encoding/binary"
	"fmt"

	"github.com/hyparquet-go/parquet/internal/thrift"
)

// par1Magic is "PAR1" read as a little-endian uint32.
const par1Magic = 0x31524150

// Footer validation errors (§7 of the spec: ShortFile, BadMagic,
// BadMetadataLength).
type ShortFileError struct{ Length int }

func (e *ShortFileError) Error() string {
	return fmt.Sprintf("parquet: file of %d bytes is too short to contain a footer", e.Length)
}

type BadMagicError struct{ Got uint32 }

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("parquet: footer magic %#08x is not \"PAR1\"", e.Got)
}

type BadMetadataLengthError struct {
	MetadataLength, Available int
}

func (e *BadMetadataLengthError) Error() string {
	return fmt.Sprintf("parquet: metadata length %d exceeds available footer bytes %d", e.MetadataLength, e.Available)
}

// ThriftError wraps a malformed-Thrift failure encountered while decoding
// footer metadata or a page header.
type ThriftError struct {
	Detail string
	Err    error
}

func (e *ThriftError) Error() string { return "parquet: thrift: " + e.Detail + ": " + e.Err.Error() }
func (e *ThriftError) Unwrap() error { return e.Err }

// FooterMetadataLength inspects the trailing 8 bytes of a footer buffer
// (whose final byte is the last byte of the file) and returns the encoded
// length of the Thrift-compact FileMetaData struct that precedes it.
//
// buf must contain at least the last 8 bytes of the file; the caller is
// responsible for fetching a large enough suffix (spec.md §4.B: try 512 KiB
// first, refetch a larger window if metadataLength requires it).
func FooterMetadataLength(buf []byte) (int, error) {
	if len(buf) < 8 {
		return 0, &ShortFileError{Length: len(buf)}
	}
	magic := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if magic != par1Magic {
		return 0, &BadMagicError{Got: magic}
	}
	metadataLength := int(binary.LittleEndian.Uint32(buf[len(buf)-8 : len(buf)-4]))
	if metadataLength < 0 || metadataLength > len(buf)-8 {
		return 0, &BadMetadataLengthError{MetadataLength: metadataLength, Available: len(buf) - 8}
	}
	return metadataLength, nil
}

// DecodeFileMetaData decodes a FileMetaData struct from footer, where footer
// is exactly the bytes [N-8-metadataLength, N) of the file (the Thrift
// struct immediately followed by the 8-byte trailer). metadataLength must
// match the value FooterMetadataLength returned for the same file.
func DecodeFileMetaData(footer []byte, metadataLength int) (*FileMetaData, error) {
	if len(footer) < metadataLength {
		return nil, &BadMetadataLengthError{MetadataLength: metadataLength, Available: len(footer)}
	}
	cur := thrift.NewCursor(footer[:metadataLength])
	fields, err := cur.DecodeStruct()
	if err != nil {
		return nil, &ThriftError{Detail: "decoding FileMetaData", Err: err}
	}
	md, err := decodeFileMetaData(fields)
	if err != nil {
		return nil, err
	}
	md.MetadataLength = metadataLength
	return md, nil
}

func decodeFileMetaData(f thrift.Fields) (*FileMetaData, error) {
	md := &FileMetaData{
		Version: f.I32(1),
		NumRows: f.I64(3),
	}

	for _, v := range f.List(2) {
		if v.Kind != thrift.KindStruct {
			return nil, &ThriftError{Detail: "schema element is not a struct", Err: fmt.Errorf("kind %d", v.Kind)}
		}
		elem, err := decodeSchemaElement(v.Struct)
		if err != nil {
			return nil, err
		}
		md.Schema = append(md.Schema, elem)
	}

	for _, v := range f.List(4) {
		if v.Kind != thrift.KindStruct {
			return nil, &ThriftError{Detail: "row group is not a struct", Err: fmt.Errorf("kind %d", v.Kind)}
		}
		rg, err := decodeRowGroup(v.Struct)
		if err != nil {
			return nil, err
		}
		md.RowGroups = append(md.RowGroups, rg)
	}

	if f.Has(6) {
		s := f.String(6)
		md.CreatedBy = &s
	}
	md.KeyValueMetadata = decodeKeyValueMetadata(f.List(5))
	return md, nil
}

func decodeKeyValueMetadata(list []thrift.Value) []KeyValue {
	var kvs []KeyValue
	for _, v := range list {
		if v.Kind != thrift.KindStruct {
			continue
		}
		kvs = append(kvs, KeyValue{Key: v.Struct.String(1), Value: v.Struct.String(2)})
	}
	return kvs
}

func decodeSchemaElement(f thrift.Fields) (SchemaElement, error) {
	elem := SchemaElement{
		Name: f.String(4),
	}
	if f.Has(1) {
		t := Type(f.I32(1))
		elem.Type = &t
	}
	elem.TypeLength = f.I32Ptr(2)
	if f.Has(3) {
		r := FieldRepetitionType(f.I32(3))
		elem.RepetitionType = &r
	}
	elem.NumChildren = f.I32Ptr(5)
	if f.Has(6) {
		c := ConvertedType(f.I32(6))
		elem.ConvertedType = &c
	}
	elem.Scale = f.I32Ptr(7)
	elem.Precision = f.I32Ptr(8)
	elem.FieldID = f.I32Ptr(9)
	if lt := f.Struct(10); lt != nil {
		logical, err := decodeLogicalType(lt)
		if err != nil {
			return elem, err
		}
		elem.LogicalType = logical
	}
	return elem, nil
}

func decodeTimeUnit(f thrift.Fields) TimeUnit {
	var u TimeUnit
	switch {
	case f.Has(1):
		u.Millis = &MilliSeconds{}
	case f.Has(2):
		u.Micros = &MicroSeconds{}
	case f.Has(3):
		u.Nanos = &NanoSeconds{}
	}
	return u
}

func decodeLogicalType(f thrift.Fields) (*LogicalType, error) {
	lt := &LogicalType{}
	switch {
	case f.Has(1):
		lt.STRING = &StringType{}
	case f.Has(2):
		lt.MAP = &MapType{}
	case f.Has(3):
		lt.LIST = &ListType{}
	case f.Has(4):
		lt.ENUM = &EnumType{}
	case f.Has(5):
		d := f.Struct(5)
		lt.DECIMAL = &DecimalType{Scale: d.I32(1), Precision: d.I32(2)}
	case f.Has(6):
		lt.DATE = &DateType{}
	case f.Has(7):
		tm := f.Struct(7)
		lt.TIME = &TimeType{
			IsAdjustedToUTC: tm.Bool(1),
			Unit:            decodeTimeUnit(tm.Struct(2)),
		}
	case f.Has(8):
		tm := f.Struct(8)
		lt.TIMESTAMP = &TimestampType{
			IsAdjustedToUTC: tm.Bool(1),
			Unit:            decodeTimeUnit(tm.Struct(2)),
		}
	case f.Has(10):
		it := f.Struct(10)
		lt.INTEGER = &IntType{BitWidth: int8(it.I32(1)), IsSigned: it.Bool(2)}
	case f.Has(11):
		lt.UNKNOWN = &NullType{}
	case f.Has(12):
		lt.JSON = &JSONType{}
	case f.Has(13):
		lt.BSON = &BSONType{}
	case f.Has(14):
		lt.UUID = &UUIDType{}
	case f.Has(15):
		lt.FLOAT16 = &Float16Type{}
	}
	return lt, nil
}

func decodeRowGroup(f thrift.Fields) (RowGroup, error) {
	rg := RowGroup{
		TotalByteSize: f.I64(2),
		NumRows:       f.I64(3),
	}
	for _, v := range f.List(1) {
		if v.Kind != thrift.KindStruct {
			return rg, &ThriftError{Detail: "column chunk is not a struct", Err: fmt.Errorf("kind %d", v.Kind)}
		}
		cc, err := decodeColumnChunk(v.Struct)
		if err != nil {
			return rg, err
		}
		rg.Columns = append(rg.Columns, cc)
	}
	rg.FileOffset = f.I64Ptr(5)
	rg.TotalCompressedSize = f.I64Ptr(6)
	return rg, nil
}

func decodeColumnChunk(f thrift.Fields) (ColumnChunk, error) {
	cc := ColumnChunk{
		FileOffset: f.I64(2),
	}
	if f.Has(1) {
		p := f.String(1)
		cc.FilePath = &p
	}
	if md := f.Struct(3); md != nil {
		cmd, err := decodeColumnMetaData(md)
		if err != nil {
			return cc, err
		}
		cc.MetaData = &cmd
	}
	cc.OffsetIndexOffset = f.I64Ptr(4)
	cc.OffsetIndexLength = f.I32Ptr(5)
	cc.ColumnIndexOffset = f.I64Ptr(6)
	cc.ColumnIndexLength = f.I32Ptr(7)
	return cc, nil
}

func decodeColumnMetaData(f thrift.Fields) (ColumnMetaData, error) {
	cmd := ColumnMetaData{
		Type:                  Type(f.I32(1)),
		Codec:                 CompressionCodec(f.I32(4)),
		NumValues:             f.I64(5),
		TotalUncompressedSize: f.I64(6),
		TotalCompressedSize:   f.I64(7),
		DataPageOffset:        f.I64(9),
	}
	for _, v := range f.List(2) {
		cmd.Encodings = append(cmd.Encodings, Encoding(v.I32))
	}
	for _, v := range f.List(3) {
		cmd.PathInSchema = append(cmd.PathInSchema, string(v.Bytes))
	}
	cmd.KeyValueMetadata = decodeKeyValueMetadata(f.List(8))
	cmd.IndexPageOffset = f.I64Ptr(10)
	cmd.DictionaryPageOffset = f.I64Ptr(11)
	if st := f.Struct(12); st != nil {
		s := decodeStatistics(st)
		cmd.Statistics = &s
	}
	return cmd, nil
}

func decodeStatistics(f thrift.Fields) Statistics {
	return Statistics{
		Max:           f.Bytes(1),
		Min:           f.Bytes(2),
		NullCount:     f.I64Ptr(3),
		DistinctCount: f.I64Ptr(4),
		MaxValue:      f.Bytes(5),
		MinValue:      f.Bytes(6),
	}
}

// DecodePageHeader decodes a PageHeader from buf (the Thrift struct begins
// at buf[0]) and returns the header along with the number of bytes it
// consumed, so the caller can locate the page payload that follows.
func DecodePageHeader(buf []byte) (*PageHeader, int, error) {
	cur := thrift.NewCursor(buf)
	fields, err := cur.DecodeStruct()
	if err != nil {
		return nil, 0, &ThriftError{Detail: "decoding PageHeader", Err: err}
	}
	ph := &PageHeader{
		Type:                 PageType(fields.I32(1)),
		UncompressedPageSize: fields.I32(2),
		CompressedPageSize:   fields.I32(3),
	}
	if dph := fields.Struct(5); dph != nil {
		ph.DataPageHeader = &DataPageHeader{
			NumValues:               dph.I32(1),
			Encoding:                Encoding(dph.I32(2)),
			DefinitionLevelEncoding: Encoding(dph.I32(3)),
			RepetitionLevelEncoding: Encoding(dph.I32(4)),
		}
		if st := dph.Struct(5); st != nil {
			s := decodeStatistics(st)
			ph.DataPageHeader.Statistics = &s
		}
	}
	if dict := fields.Struct(7); dict != nil {
		ph.DictionaryPageHeader = &DictionaryPageHeader{
			NumValues: dict.I32(1),
			Encoding:  Encoding(dict.I32(2)),
			IsSorted:  dict.Bool(3),
		}
	}
	if v2 := fields.Struct(8); v2 != nil {
		isCompressed := true
		if v2.Has(7) {
			isCompressed = v2.Bool(7)
		}
		ph.DataPageHeaderV2 = &DataPageHeaderV2{
			NumValues:                  v2.I32(1),
			NumNulls:                   v2.I32(2),
			NumRows:                    v2.I32(3),
			Encoding:                   Encoding(v2.I32(4)),
			DefinitionLevelsByteLength: v2.I32(5),
			RepetitionLevelsByteLength: v2.I32(6),
			IsCompressed:               isCompressed,
		}
		if st := v2.Struct(8); st != nil {
			s := decodeStatistics(st)
			ph.DataPageHeaderV2.Statistics = &s
		}
	}
	return ph, cur.Offset(), nil
}
