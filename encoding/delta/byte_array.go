package delta

import "fmt"

// DecodeLengthByteArray decodes a DELTA_LENGTH_BYTE_ARRAY run: a
// DELTA_BINARY_PACKED array of lengths followed by the concatenated value
// bytes. The returned slices are views into buf.
func DecodeLengthByteArray(buf []byte) (values [][]byte, consumed int, err error) {
	lengths, pos, err := DecodeInt32(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("parquet: DELTA_LENGTH_BYTE_ARRAY: lengths: %w", err)
	}

	out := make([][]byte, len(lengths))
	for i, length := range lengths {
		if length < 0 || pos+int(length) > len(buf) {
			return nil, 0, &DecodeError{Detail: fmt.Sprintf("value %d of length %d exceeds remaining %d bytes", i, length, len(buf)-pos)}
		}
		out[i] = buf[pos : pos+int(length)]
		pos += int(length)
	}
	return out, pos, nil
}

// DecodeByteArray decodes a DELTA_BYTE_ARRAY run: two DELTA_BINARY_PACKED
// arrays — prefix lengths shared with the previous value, then suffix
// lengths — followed by the concatenated suffix bytes. Each returned value
// is freshly allocated, since it is reassembled from a shared-prefix byte of
// its predecessor and can't be a view into buf.
func DecodeByteArray(buf []byte) (values [][]byte, consumed int, err error) {
	prefixLens, pos, err := DecodeInt32(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("parquet: DELTA_BYTE_ARRAY: prefix lengths: %w", err)
	}
	suffixLens, n, err := DecodeInt32(buf[pos:])
	if err != nil {
		return nil, 0, fmt.Errorf("parquet: DELTA_BYTE_ARRAY: suffix lengths: %w", err)
	}
	pos += n

	if len(prefixLens) != len(suffixLens) {
		return nil, 0, &DecodeError{Detail: fmt.Sprintf("prefix/suffix length array mismatch: %d vs %d", len(prefixLens), len(suffixLens))}
	}

	out := make([][]byte, len(prefixLens))
	var prev []byte
	for i := range prefixLens {
		prefixLen := int(prefixLens[i])
		suffixLen := int(suffixLens[i])
		if prefixLen < 0 || prefixLen > len(prev) {
			return nil, 0, &DecodeError{Detail: fmt.Sprintf("value %d has invalid shared prefix length %d", i, prefixLen)}
		}
		if suffixLen < 0 || pos+suffixLen > len(buf) {
			return nil, 0, &DecodeError{Detail: fmt.Sprintf("value %d suffix of length %d exceeds remaining %d bytes", i, suffixLen, len(buf)-pos)}
		}
		v := make([]byte, prefixLen+suffixLen)
		copy(v, prev[:prefixLen])
		copy(v[prefixLen:], buf[pos:pos+suffixLen])
		pos += suffixLen

		out[i] = v
		prev = v
	}
	return out, pos, nil
}
