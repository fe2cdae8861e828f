package thrift

import "testing"

func TestReadVarint(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint64
	}{
		{[]byte{0x81, 0x01}, 129},
		{[]byte{0x83, 0x82, 0x01}, 16643},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}, 2147483647},
	}
	for _, tt := range tests {
		c := NewCursor(tt.in)
		got, err := c.ReadVarint()
		if err != nil {
			t.Fatalf("ReadVarint(%x): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ReadVarint(%x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func appendVarint(dst []byte, u uint64) []byte {
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func appendZigzag32(dst []byte, v int32) []byte {
	u := uint32(v<<1) ^ uint32(v>>31)
	return appendVarint(dst, uint64(u))
}

func appendZigzag64(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)
	return appendVarint(dst, u)
}

func TestZigzagRoundTrip32(t *testing.T) {
	values := []int32{0, 1, -1, 2, -2, 127, -128, 1 << 20, -(1 << 20), 1<<31 - 1, -(1 << 31)}
	for _, v := range values {
		buf := appendZigzag32(nil, v)
		c := NewCursor(buf)
		got, err := c.ReadZigzag32()
		if err != nil {
			t.Fatalf("ReadZigzag32(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadZigzag32 round-trip: got %d, want %d", got, v)
		}
	}
}

func TestZigzagRoundTrip64(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40), 1<<62 - 1, -(1 << 62)}
	for _, v := range values {
		buf := appendZigzag64(nil, v)
		c := NewCursor(buf)
		got, err := c.ReadZigzag64()
		if err != nil {
			t.Fatalf("ReadZigzag64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadZigzag64 round-trip: got %d, want %d", got, v)
		}
	}
}

// buildFieldHeader appends a struct field header (and, for explicit ids, a
// zigzag field id); the caller appends the value bytes.
func buildFieldHeader(dst []byte, compactType byte, fid, lastFid int16) []byte {
	delta := fid - lastFid
	if delta > 0 && delta < 16 {
		return append(dst, byte(delta)<<4|compactType)
	}
	dst = append(dst, compactType)
	return appendZigzag32(dst, int32(fid))
}

func TestDecodeStructPositionalFields(t *testing.T) {
	var buf []byte
	buf = buildFieldHeader(buf, typeI32, 1, 0)
	buf = appendZigzag32(buf, 42)
	buf = buildFieldHeader(buf, typeBinary, 4, 1)
	buf = appendVarint(buf, 5)
	buf = append(buf, "hello"...)
	buf = buildFieldHeader(buf, typeBooleanTrue, 5, 4)
	buf = append(buf, typeStop)

	c := NewCursor(buf)
	fields, err := c.DecodeStruct()
	if err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if got := fields.I32(1); got != 42 {
		t.Errorf("field 1 = %d, want 42", got)
	}
	if got := fields.String(4); got != "hello" {
		t.Errorf("field 4 = %q, want hello", got)
	}
	if got := fields.Bool(5); !got {
		t.Errorf("field 5 = false, want true")
	}
	if fields.Has(2) {
		t.Errorf("field 2 should be absent")
	}
}

func TestDecodeStructNestedListAndStruct(t *testing.T) {
	var inner []byte
	inner = buildFieldHeader(inner, typeI32, 1, 0)
	inner = appendZigzag32(inner, 7)
	inner = append(inner, typeStop)

	var buf []byte
	buf = buildFieldHeader(buf, typeStruct, 1, 0)
	buf = append(buf, inner...)

	buf = buildFieldHeader(buf, typeList, 2, 1)
	buf = append(buf, byte(3)<<4|typeI32) // 3 elements of type i32
	buf = appendZigzag32(buf, 1)
	buf = appendZigzag32(buf, 2)
	buf = appendZigzag32(buf, 3)
	buf = append(buf, typeStop)

	c := NewCursor(buf)
	fields, err := c.DecodeStruct()
	if err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	nested := fields.Struct(1)
	if nested == nil || nested.I32(1) != 7 {
		t.Fatalf("nested struct field 1 = %v, want 7", nested)
	}
	list := fields.List(2)
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for i, v := range list {
		if v.I32 != int32(i+1) {
			t.Errorf("list[%d] = %d, want %d", i, v.I32, i+1)
		}
	}
}

func TestDecodeStructTruncated(t *testing.T) {
	c := NewCursor([]byte{0x15}) // field header claiming an i32 value, no payload
	if _, err := c.DecodeStruct(); err == nil {
		t.Fatal("expected error decoding truncated struct")
	}
}
