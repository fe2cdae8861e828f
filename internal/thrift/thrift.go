// Package thrift implements just enough of the Thrift Compact Protocol to
// decode the self-describing structs Parquet uses for its footer metadata
// and page headers.
//
// https://github.com/apache/thrift/blob/master/doc/specs/thrift-compact-protocol.md
//
// Decoded structs are represented as a sparse array keyed by field id rather
// than a generated, named record: this keeps the decoder forward compatible
// with fields the format grows later, and mirrors how both historical
// generations of Parquet tooling treat Thrift structs internally.
package thrift

import (
	"fmt"
	"io"
	"math"
)

// Compact protocol type tags (low nibble of a field header, or a list
// element-type byte).
const (
	typeStop         = 0x0
	typeBooleanTrue  = 0x1
	typeBooleanFalse = 0x2
	typeByte         = 0x3
	typeI16          = 0x4
	typeI32          = 0x5
	typeI64          = 0x6
	typeDouble       = 0x7
	typeBinary       = 0x8
	typeList         = 0x9
	typeSet          = 0xA
	typeMap          = 0xB
	typeStruct       = 0xC
)

// Kind identifies which field of Value holds a decoded element.
type Kind int8

const (
	KindBool Kind = iota
	KindI32
	KindI64
	KindDouble
	KindBytes
	KindList
	KindStruct
)

// Value is a decoded Thrift element: a closed tagged union over the element
// kinds the compact protocol can produce and Parquet metadata actually uses.
type Value struct {
	Kind   Kind
	Bool   bool
	I32    int32
	I64    int64
	Double float64
	Bytes  []byte
	List   []Value
	Struct Fields
}

func (v Value) String() string {
	return fmt.Sprintf("Value{Kind:%d}", v.Kind)
}

// Fields is a Thrift struct decoded into a sparse array indexed by field id.
// Missing ids are simply absent from the map.
type Fields map[int16]Value

// Bytes returns the raw bytes of field id, or nil if the field is absent or
// not a binary value.
func (f Fields) Bytes(id int16) []byte {
	if v, ok := f[id]; ok && v.Kind == KindBytes {
		return v.Bytes
	}
	return nil
}

// String decodes field id as UTF-8 text, or "" if absent.
func (f Fields) String(id int16) string {
	return string(f.Bytes(id))
}

// I32 returns field id as an int32, or 0 if absent.
func (f Fields) I32(id int16) int32 {
	if v, ok := f[id]; ok && v.Kind == KindI32 {
		return v.I32
	}
	return 0
}

// I32Ptr returns field id as *int32, or nil if absent — used for optional
// scalar fields where the zero value is a legitimate decoded value.
func (f Fields) I32Ptr(id int16) *int32 {
	if v, ok := f[id]; ok && v.Kind == KindI32 {
		n := v.I32
		return &n
	}
	return nil
}

// I64 returns field id as an int64, or 0 if absent.
func (f Fields) I64(id int16) int64 {
	if v, ok := f[id]; ok && v.Kind == KindI64 {
		return v.I64
	}
	return 0
}

// I64Ptr returns field id as *int64, or nil if absent.
func (f Fields) I64Ptr(id int16) *int64 {
	if v, ok := f[id]; ok && v.Kind == KindI64 {
		n := v.I64
		return &n
	}
	return nil
}

// Bool returns field id as a bool, or false if absent.
func (f Fields) Bool(id int16) bool {
	if v, ok := f[id]; ok && v.Kind == KindBool {
		return v.Bool
	}
	return false
}

// List returns field id as a list of Values, or nil if absent.
func (f Fields) List(id int16) []Value {
	if v, ok := f[id]; ok && v.Kind == KindList {
		return v.List
	}
	return nil
}

// Struct returns field id as a nested struct, or nil if absent.
func (f Fields) Struct(id int16) Fields {
	if v, ok := f[id]; ok && v.Kind == KindStruct {
		return v.Struct
	}
	return nil
}

// Has reports whether field id was present in the decoded struct.
func (f Fields) Has(id int16) bool {
	_, ok := f[id]
	return ok
}

// Error is returned for malformed Thrift compact protocol input.
type Error struct {
	Detail string
}

func (e *Error) Error() string { return "thrift: " + e.Detail }

func errorf(format string, args ...any) error {
	return &Error{Detail: fmt.Sprintf(format, args...)}
}

// Cursor reads the Thrift Compact Protocol sequentially over an in-memory
// buffer. Parquet footers and page headers are small enough that streaming
// isn't worthwhile; the caller slices the relevant bytes up front.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a Cursor reading from buf starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current read position within the cursor's buffer.
func (c *Cursor) Offset() int { return c.off }

// Len returns the number of unread bytes remaining.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

func (c *Cursor) readByte() (byte, error) {
	if c.off >= len(c.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// ReadVarint reads an unsigned LEB128 varint, 7 bits per byte, continuation
// bit 0x80.
func (c *Cursor) ReadVarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		if shift >= 70 {
			return 0, errorf("varint too long")
		}
		b, err := c.readByte()
		if err != nil {
			return 0, errorf("reading varint: %v", err)
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadZigzag32 reads a zigzag-encoded varint and decodes it to a signed
// 32-bit integer: (u >> 1) ^ -(u & 1).
func (c *Cursor) ReadZigzag32() (int32, error) {
	u, err := c.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int32(int64(u>>1) ^ -int64(u&1)), nil
}

// ReadZigzag64 reads a zigzag-encoded varint and decodes it to a signed
// 64-bit integer.
func (c *Cursor) ReadZigzag64() (int64, error) {
	u, err := c.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

func (c *Cursor) readDouble() (float64, error) {
	if c.Len() < 8 {
		return 0, errorf("double truncated")
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(c.buf[c.off+i]) << (8 * uint(i))
	}
	c.off += 8
	return math.Float64frombits(bits), nil
}

// ReadBinary reads a varint length followed by that many raw bytes, returned
// as a slice view into the cursor's backing buffer (zero-copy).
func (c *Cursor) ReadBinary() ([]byte, error) {
	n, err := c.ReadVarint()
	if err != nil {
		return nil, errorf("reading binary length: %v", err)
	}
	if uint64(c.Len()) < n {
		return nil, errorf("binary of length %d truncated", n)
	}
	b := c.buf[c.off : c.off+int(n)]
	c.off += int(n)
	return b, nil
}

// readFieldBegin reads one struct-field header: compactType is the low
// nibble, fid is resolved from the high-nibble delta (or, when the delta is
// 0, from a trailing zigzag varint). compactType == typeStop signals the end
// of the struct; the caller must not interpret fid in that case.
func (c *Cursor) readFieldBegin(lastFid int16) (compactType byte, fid int16, newLastFid int16, err error) {
	b, err := c.readByte()
	if err != nil {
		return 0, 0, lastFid, errorf("reading field header: %v", err)
	}
	compactType = b & 0x0F
	if compactType == typeStop {
		return typeStop, 0, lastFid, nil
	}
	delta := (b & 0xF0) >> 4
	if delta == 0 {
		id, err := c.ReadZigzag32()
		if err != nil {
			return 0, 0, lastFid, errorf("reading explicit field id: %v", err)
		}
		fid = int16(id)
	} else {
		fid = lastFid + int16(delta)
	}
	return compactType, fid, fid, nil
}

// DecodeStruct reads fields until a STOP marker, returning them as a sparse
// array keyed by field id.
func (c *Cursor) DecodeStruct() (Fields, error) {
	fields := Fields{}
	lastFid := int16(0)
	for {
		compactType, fid, next, err := c.readFieldBegin(lastFid)
		if err != nil {
			return nil, err
		}
		if compactType == typeStop {
			return fields, nil
		}
		lastFid = next

		v, err := c.readFieldValue(compactType)
		if err != nil {
			return nil, errorf("field %d: %v", fid, err)
		}
		fields[fid] = v
	}
}

// readFieldValue decodes the value that follows a field header. Booleans are
// special-cased: the compact protocol folds true/false into the type nibble
// itself, so no further bytes are consumed for them.
func (c *Cursor) readFieldValue(compactType byte) (Value, error) {
	switch compactType {
	case typeBooleanTrue:
		return Value{Kind: KindBool, Bool: true}, nil
	case typeBooleanFalse:
		return Value{Kind: KindBool, Bool: false}, nil
	default:
		return c.readElement(compactType)
	}
}

// readElement decodes a value of the given compact type where the type
// itself does not carry the payload (i.e. everywhere except a boolean struct
// field). Used for struct field values and list/set elements; a map
// (typeMap) is not decoded and yields an unsupported-type error.
func (c *Cursor) readElement(compactType byte) (Value, error) {
	switch compactType {
	case typeByte:
		v, err := c.readByte()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindI32, I32: int32(int8(v))}, nil
	case typeI16, typeI32:
		v, err := c.ReadZigzag32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindI32, I32: v}, nil
	case typeI64:
		v, err := c.ReadZigzag64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindI64, I64: v}, nil
	case typeDouble:
		v, err := c.readDouble()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDouble, Double: v}, nil
	case typeBinary:
		v, err := c.ReadBinary()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBytes, Bytes: v}, nil
	case typeList, typeSet:
		return c.readList()
	case typeStruct:
		s, err := c.DecodeStruct()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStruct, Struct: s}, nil
	default:
		return Value{}, errorf("unsupported compact type %#x", compactType)
	}
}

// readList decodes a LIST/SET header (one byte: element type in the low
// nibble, size in the high nibble — or, when the high nibble is 0xF, a
// trailing varint size) followed by that many elements.
func (c *Cursor) readList() (Value, error) {
	header, err := c.readByte()
	if err != nil {
		return Value{}, errorf("reading list header: %v", err)
	}
	elemType := header & 0x0F
	size := int(header&0xF0) >> 4
	if size == 0xF {
		n, err := c.ReadVarint()
		if err != nil {
			return Value{}, errorf("reading list size: %v", err)
		}
		size = int(n)
	}

	elems := make([]Value, 0, size)
	if elemType == typeBooleanTrue || elemType == typeBooleanFalse {
		// Lists of booleans store one raw byte per element (0x01 = true),
		// independent of the header's nominal element type.
		for i := 0; i < size; i++ {
			b, err := c.readByte()
			if err != nil {
				return Value{}, errorf("reading boolean list element %d: %v", i, err)
			}
			elems = append(elems, Value{Kind: KindBool, Bool: b == typeBooleanTrue})
		}
		return Value{Kind: KindList, List: elems}, nil
	}

	for i := 0; i < size; i++ {
		v, err := c.readElement(elemType)
		if err != nil {
			return Value{}, errorf("reading list element %d: %v", i, err)
		}
		elems = append(elems, v)
	}
	return Value{Kind: KindList, List: elems}, nil
}
