// Package convert implements physical-to-logical value conversion (spec.md
// §4.K): the last decoding stage, turning a page's raw typed values into the
// Go representation a caller actually wants (strings, decimals, timestamps,
// UUIDs, geometry, ...).
package convert

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/value"
)

// julianDayUnixEpoch is the Julian day number of the Unix epoch
// (1970-01-01), the offset INT96's embedded Julian day count is relative to.
const julianDayUnixEpoch = 2440588

// UnsupportedConvertedError is returned for BSON and INTERVAL, which
// spec.md explicitly leaves unimplemented.
type UnsupportedConvertedError struct {
	ConvertedType format.ConvertedType
}

func (e *UnsupportedConvertedError) Error() string {
	return fmt.Sprintf("parquet: unsupported converted type %d", e.ConvertedType)
}

// Parsers are the pluggable hooks spec.md §6 names for turning primitive
// time/string representations into caller-chosen Go types. The zero value of
// Parsers is invalid; use DefaultParsers.
type Parsers struct {
	TimestampFromMilliseconds func(int64) any
	TimestampFromMicroseconds func(int64) any
	TimestampFromNanoseconds  func(int64) any
	DateFromDays              func(int32) any
	StringFromBytes           func([]byte) any
}

// DefaultParsers returns the platform defaults: time.Time for
// timestamps/dates (UTC, truncated to the unit's resolution) and string for
// byte strings.
func DefaultParsers() Parsers {
	return Parsers{
		TimestampFromMilliseconds: func(v int64) any { return time.UnixMilli(v).UTC() },
		TimestampFromMicroseconds: func(v int64) any { return time.UnixMicro(v).UTC() },
		TimestampFromNanoseconds:  func(v int64) any { return time.Unix(0, v).UTC() },
		DateFromDays:              func(v int32) any { return time.Unix(int64(v)*86400, 0).UTC() },
		StringFromBytes:           func(b []byte) any { return string(b) },
	}
}

// Options configures a single column's conversion.
type Options struct {
	Parsers Parsers

	// UTF8, when true, treats a plain BYTE_ARRAY column with no converted
	// type annotation as a UTF-8 string (spec.md §6's read option default).
	UTF8 bool

	// GeometryPaths names dotted schema paths ("a.b.c") whose BYTE_ARRAY /
	// FIXED_LEN_BYTE_ARRAY values are well-known-binary points to decode as
	// GeoJSON-shaped geometry (the GEOMETRY logical type supplement).
	GeometryPaths map[string]bool
}

// DefaultOptions returns Options with DefaultParsers and UTF8 enabled.
func DefaultOptions() Options {
	return Options{Parsers: DefaultParsers(), UTF8: true}
}

// Apply converts arr's physical values into their logical representation
// according to elem's converted/logical type, preserving arr's repetition
// and definition levels. physicalType is the column's PLAIN-encoding type
// (arr.Kind reflects it, or KindAny if values already went through
// dictionary dereference).
func Apply(opts Options, elem *format.SchemaElement, physicalType format.Type, path string, arr *value.Array) (*value.Array, error) {
	out, err := convertValues(opts, elem, physicalType, path, arr)
	if err != nil {
		return nil, err
	}
	out.RepetitionLevels = arr.RepetitionLevels
	out.DefinitionLevels = arr.DefinitionLevels
	return out, nil
}

func convertValues(opts Options, elem *format.SchemaElement, physicalType format.Type, path string, arr *value.Array) (*value.Array, error) {
	n := arr.Len()

	switch {
	case isDecimal(elem):
		scale := decimalScale(elem)
		out := make([]any, n)
		for i := 0; i < n; i++ {
			v, err := decodeDecimal(arr, i, scale)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case physicalType == format.Int96 && elem.ConvertedType == nil && (elem.LogicalType == nil || isZeroLogicalType(elem.LogicalType)):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = timestampFromInt96(opts.Parsers, arr.BytesFixed[i])
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case isDate(elem):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = opts.Parsers.DateFromDays(arr.Int32[i])
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case isTimestamp(elem):
		parse := timestampParser(opts.Parsers, elem)
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = parse(arr.Int64[i])
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case isJSON(elem):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			var v any
			if err := json.Unmarshal(arr.BytesVar[i], &v); err != nil {
				return nil, fmt.Errorf("parquet: JSON column %q: %w", path, err)
			}
			out[i] = v
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case elem.ConvertedType != nil && *elem.ConvertedType == format.Bson:
		return nil, &UnsupportedConvertedError{ConvertedType: format.Bson}

	case elem.ConvertedType != nil && *elem.ConvertedType == format.Interval:
		return nil, &UnsupportedConvertedError{ConvertedType: format.Interval}

	case isUUID(elem):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			id, err := uuid.FromBytes(arr.BytesFixed[i])
			if err != nil {
				return nil, fmt.Errorf("parquet: UUID column %q: %w", path, err)
			}
			out[i] = id
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case isFloat16(elem):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = decodeFloat16(arr.BytesFixed[i])
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case opts.GeometryPaths[path]:
		out := make([]any, n)
		for i := 0; i < n; i++ {
			geom, err := WKBPoint(bytesAt(arr, i))
			if err != nil {
				return nil, fmt.Errorf("parquet: geometry column %q: %w", path, err)
			}
			out[i] = geom
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	case isUnsignedInt(elem):
		return convertUnsigned(elem, arr)

	case isString(elem, physicalType, opts.UTF8):
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = opts.Parsers.StringFromBytes(bytesAt(arr, i))
		}
		return &value.Array{Kind: value.KindAny, Any: out}, nil

	default:
		return arr, nil
	}
}

func bytesAt(arr *value.Array, i int) []byte {
	if arr.Kind == value.KindBytesVar {
		return arr.BytesVar[i]
	}
	return arr.BytesFixed[i]
}

func isDecimal(elem *format.SchemaElement) bool {
	if elem.ConvertedType != nil && *elem.ConvertedType == format.Decimal {
		return true
	}
	return elem.LogicalType != nil && elem.LogicalType.DECIMAL != nil
}

func decimalScale(elem *format.SchemaElement) int32 {
	if elem.LogicalType != nil && elem.LogicalType.DECIMAL != nil {
		return elem.LogicalType.DECIMAL.Scale
	}
	if elem.Scale != nil {
		return *elem.Scale
	}
	return 0
}

func decodeDecimal(arr *value.Array, i int, scale int32) (float64, error) {
	scaleFactor := big.NewFloat(1)
	ten := big.NewFloat(10)
	for j := int32(0); j < scale; j++ {
		scaleFactor.Mul(scaleFactor, ten)
	}
	for j := int32(0); j > scale; j-- {
		scaleFactor.Quo(scaleFactor, ten)
	}

	var intVal *big.Int
	switch arr.Kind {
	case value.KindInt32:
		intVal = big.NewInt(int64(arr.Int32[i]))
	case value.KindInt64:
		intVal = big.NewInt(arr.Int64[i])
	case value.KindBytesVar, value.KindBytesFixed:
		intVal = bigIntFromTwosComplement(bytesAt(arr, i))
	default:
		return 0, fmt.Errorf("parquet: DECIMAL: unsupported source kind %s", arr.Kind)
	}

	f := new(big.Float).SetInt(intVal)
	f.Quo(f, scaleFactor)
	result, _ := f.Float64()
	return result, nil
}

// bigIntFromTwosComplement interprets b as a big-endian signed two's
// complement integer, as DECIMAL(bytes) stores it. An empty slice is 0.
func bigIntFromTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		bitLen := len(b) * 8
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(bitLen))
		v.Sub(v, modulus)
	}
	return v
}

func isDate(elem *format.SchemaElement) bool {
	if elem.ConvertedType != nil && *elem.ConvertedType == format.Date {
		return true
	}
	return elem.LogicalType != nil && elem.LogicalType.DATE != nil
}

func isZeroLogicalType(lt *format.LogicalType) bool {
	return *lt == format.LogicalType{}
}

func timestampFromInt96(p Parsers, b []byte) any {
	// low 8 bytes: nanoseconds within the day; high 4 bytes: Julian day number.
	nanos := int64(0)
	for i := 7; i >= 0; i-- {
		nanos = nanos<<8 | int64(b[i])
	}
	days := int32(0)
	for i := 11; i >= 8; i-- {
		days = days<<8 | int32(b[i])
	}
	sinceEpochDays := int64(days) - julianDayUnixEpoch
	return p.TimestampFromNanoseconds(sinceEpochDays*86400*1_000_000_000 + nanos)
}

func isTimestamp(elem *format.SchemaElement) bool {
	if elem.ConvertedType != nil {
		switch *elem.ConvertedType {
		case format.TimestampMillis, format.TimestampMicros:
			return true
		}
	}
	return elem.LogicalType != nil && elem.LogicalType.TIMESTAMP != nil
}

func timestampParser(p Parsers, elem *format.SchemaElement) func(int64) any {
	if elem.LogicalType != nil && elem.LogicalType.TIMESTAMP != nil {
		unit := elem.LogicalType.TIMESTAMP.Unit
		switch {
		case unit.Nanos != nil:
			return p.TimestampFromNanoseconds
		case unit.Micros != nil:
			return p.TimestampFromMicroseconds
		default:
			return p.TimestampFromMilliseconds
		}
	}
	if elem.ConvertedType != nil && *elem.ConvertedType == format.TimestampMicros {
		return p.TimestampFromMicroseconds
	}
	return p.TimestampFromMilliseconds
}

func isJSON(elem *format.SchemaElement) bool {
	if elem.ConvertedType != nil && *elem.ConvertedType == format.Json {
		return true
	}
	return elem.LogicalType != nil && elem.LogicalType.JSON != nil
}

func isUUID(elem *format.SchemaElement) bool {
	return elem.LogicalType != nil && elem.LogicalType.UUID != nil
}

func isFloat16(elem *format.SchemaElement) bool {
	return elem.LogicalType != nil && elem.LogicalType.FLOAT16 != nil
}

func isUnsignedInt(elem *format.SchemaElement) bool {
	if elem.ConvertedType != nil {
		switch *elem.ConvertedType {
		case format.Uint8, format.Uint16, format.Uint32, format.Uint64:
			return true
		}
	}
	return elem.LogicalType != nil && elem.LogicalType.INTEGER != nil && !elem.LogicalType.INTEGER.IsSigned
}

func convertUnsigned(elem *format.SchemaElement, arr *value.Array) (*value.Array, error) {
	n := arr.Len()
	out := make([]any, n)
	switch arr.Kind {
	case value.KindInt32:
		for i, v := range arr.Int32 {
			out[i] = uint32(v)
		}
	case value.KindInt64:
		for i, v := range arr.Int64 {
			out[i] = uint64(v)
		}
	default:
		return nil, fmt.Errorf("parquet: unsigned integer conversion: unsupported source kind %s", arr.Kind)
	}
	return &value.Array{Kind: value.KindAny, Any: out}, nil
}

func isString(elem *format.SchemaElement, physicalType format.Type, utf8Default bool) bool {
	if elem.LogicalType != nil && elem.LogicalType.STRING != nil {
		return true
	}
	if elem.ConvertedType != nil && *elem.ConvertedType == format.UTF8 {
		return true
	}
	return utf8Default && physicalType == format.ByteArray
}
