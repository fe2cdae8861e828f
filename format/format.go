// Package format defines the Parquet file-format structures decoded from a
// file's footer: schema elements, row groups, column chunks and their
// metadata, page headers, and the logical-type annotations attached to
// schema elements.
//
// https://github.com/apache/parquet-format/blob/master/src/main/thrift/parquet.thrift
package format

// Type is a column's physical storage type.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType is a schema element's repetition: required, optional,
// or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies how column values (or levels) are serialized within a
// page.
type Encoding int32

const (
	Plain Encoding = iota
	GroupVarInt
	PlainDictionary
	RLE
	BitPacked
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case GroupVarInt:
		return "GROUP_VAR_INT"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the codec used to compress a column chunk's
// pages. Decompression implementations live outside this module (compress
// package) — this type only names the wire value.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	Lzo
	Brotli
	Lz4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType identifies the kind of page a page header describes.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType is the legacy (pre-LogicalType) annotation on a schema
// element.
type ConvertedType int32

const (
	UTF8 ConvertedType = iota
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32Converted
	Int64Converted
	Json
	Bson
	Interval
)

// TimeUnit selects the resolution of a TIME or TIMESTAMP logical type. Only
// one field is set, matching the union-by-convention encoding Thrift uses
// for structs with mutually exclusive optional fields.
type TimeUnit struct {
	Millis *MilliSeconds
	Micros *MicroSeconds
	Nanos  *NanoSeconds
}

type MilliSeconds struct{}
type MicroSeconds struct{}
type NanoSeconds struct{}

type StringType struct{}
type MapType struct{}
type ListType struct{}
type EnumType struct{}
type NullType struct{}
type JSONType struct{}
type BSONType struct{}
type UUIDType struct{}
type Float16Type struct{}

type DecimalType struct {
	Scale     int32
	Precision int32
}

type DateType struct{}

type TimeType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

type TimestampType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

type IntType struct {
	BitWidth int8
	IsSigned bool
}

// LogicalType is a schema element's modern type annotation. Exactly one
// field should be non-nil; which one is set determines the logical type.
type LogicalType struct {
	STRING    *StringType
	MAP       *MapType
	LIST      *ListType
	ENUM      *EnumType
	DECIMAL   *DecimalType
	DATE      *DateType
	TIME      *TimeType
	TIMESTAMP *TimestampType
	INTEGER   *IntType
	UNKNOWN   *NullType
	JSON      *JSONType
	BSON      *BSONType
	UUID      *UUIDType
	FLOAT16   *Float16Type
}

// SchemaElement is one node of the flattened, depth-first schema tree
// decoded from the footer.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
	LogicalType    *LogicalType
}

// Statistics holds optional min/max/null-count metadata for a column chunk
// or data page. This module does not use it for predicate pushdown (out of
// scope), only to report NullCount when present.
type Statistics struct {
	Max         []byte
	Min         []byte
	NullCount   *int64
	DistinctCount *int64
	MaxValue    []byte
	MinValue    []byte
}

// KeyValue is one entry of a file or column chunk's free-form metadata map.
type KeyValue struct {
	Key   string
	Value string
}

// ColumnMetaData describes the physical layout of one column chunk.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
	Statistics            *Statistics
}

// ColumnChunk is a row group's reference to one column's data, either inline
// (MetaData set) or in an external file (FilePath set — rejected by this
// module, see ExternalFile).
type ColumnChunk struct {
	FilePath          *string
	FileOffset        int64
	MetaData          *ColumnMetaData
	OffsetIndexOffset *int64
	OffsetIndexLength *int32
	ColumnIndexOffset *int64
	ColumnIndexLength *int32
}

// RowGroup is one horizontal partition of the table.
type RowGroup struct {
	Columns             []ColumnChunk
	TotalByteSize       int64
	NumRows             int64
	FileOffset          *int64
	TotalCompressedSize *int64
}

// FileMetaData is the fully decoded Parquet footer.
type FileMetaData struct {
	Version          int32
	Schema           []SchemaElement
	NumRows          int64
	RowGroups        []RowGroup
	KeyValueMetadata []KeyValue
	CreatedBy        *string
	// MetadataLength is the encoded length of the Thrift struct, in bytes
	// (not part of the Thrift struct itself — carried for convenience since
	// callers need it to locate the footer trailer).
	MetadataLength int
}

// DictionaryPageHeader describes a dictionary page.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  bool
}

// DataPageHeader describes a version-1 data page.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
	Statistics              *Statistics
}

// DataPageHeaderV2 describes a version-2 data page, whose repetition and
// definition level sections are always RLE-encoded and whose lengths are
// given explicitly instead of self-delimited with a u32 prefix.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
	Statistics                 *Statistics
}

// PageHeader is the common header preceding every page's payload bytes.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}
