// Package value defines the decoded-array representation every decoding
// stage (page, column, assemble, convert) passes data through: a tagged
// variant of typed containers, the decoder picking whichever is narrowest
// for the physical type at hand rather than boxing every value.
package value

import "fmt"

// Kind identifies which field of Array holds live data.
type Kind int8

const (
	KindBool Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBytesFixed // fixed-width byte strings: INT96, FIXED_LEN_BYTE_ARRAY, FLOAT16
	KindBytesVar   // variable-width byte strings: BYTE_ARRAY
	KindAny        // converted/assembled values: logical scalars, nested lists/maps/records, or nil for null
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "BOOL"
	case KindInt32:
		return "INT32"
	case KindInt64:
		return "INT64"
	case KindFloat32:
		return "FLOAT32"
	case KindFloat64:
		return "FLOAT64"
	case KindBytesFixed:
		return "BYTES_FIXED"
	case KindBytesVar:
		return "BYTES_VAR"
	case KindAny:
		return "ANY"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}

// Array is a decoded, not-yet-converted column of values: exactly one of
// its typed slices is populated, selected by Kind.
type Array struct {
	Kind Kind

	Bool       []bool
	Int32      []int32
	Int64      []int64
	Float32    []float32
	Float64    []float64
	BytesFixed [][]byte
	BytesVar   [][]byte
	Any        []any

	// RepetitionLevels and DefinitionLevels are nil when the column has
	// max_rep==0 / every value defined, per spec.md §4.G's level-sizing rule.
	RepetitionLevels []int32
	DefinitionLevels []int32
}

// Len returns the number of elements in the populated slice.
func (a *Array) Len() int {
	switch a.Kind {
	case KindBool:
		return len(a.Bool)
	case KindInt32:
		return len(a.Int32)
	case KindInt64:
		return len(a.Int64)
	case KindFloat32:
		return len(a.Float32)
	case KindFloat64:
		return len(a.Float64)
	case KindBytesFixed:
		return len(a.BytesFixed)
	case KindBytesVar:
		return len(a.BytesVar)
	case KindAny:
		return len(a.Any)
	default:
		return 0
	}
}

// At returns element i of the populated slice, boxed as any.
func (a *Array) At(i int) any {
	switch a.Kind {
	case KindBool:
		return a.Bool[i]
	case KindInt32:
		return a.Int32[i]
	case KindInt64:
		return a.Int64[i]
	case KindFloat32:
		return a.Float32[i]
	case KindFloat64:
		return a.Float64[i]
	case KindBytesFixed:
		return a.BytesFixed[i]
	case KindBytesVar:
		return a.BytesVar[i]
	case KindAny:
		return a.Any[i]
	default:
		return nil
	}
}

// Append appends element i of src to dst and sets dst's Kind to src's —
// used to stitch dictionary-dereferenced or page-continuation
// values together without boxing through At/Any when both arrays share a
// kind.
func Append(dst *Array, src *Array, i int) {
	switch src.Kind {
	case KindBool:
		dst.Kind = KindBool
		dst.Bool = append(dst.Bool, src.Bool[i])
	case KindInt32:
		dst.Kind = KindInt32
		dst.Int32 = append(dst.Int32, src.Int32[i])
	case KindInt64:
		dst.Kind = KindInt64
		dst.Int64 = append(dst.Int64, src.Int64[i])
	case KindFloat32:
		dst.Kind = KindFloat32
		dst.Float32 = append(dst.Float32, src.Float32[i])
	case KindFloat64:
		dst.Kind = KindFloat64
		dst.Float64 = append(dst.Float64, src.Float64[i])
	case KindBytesFixed:
		dst.Kind = KindBytesFixed
		dst.BytesFixed = append(dst.BytesFixed, src.BytesFixed[i])
	case KindBytesVar:
		dst.Kind = KindBytesVar
		dst.BytesVar = append(dst.BytesVar, src.BytesVar[i])
	case KindAny:
		dst.Kind = KindAny
		dst.Any = append(dst.Any, src.Any[i])
	}
}

// Gather builds a new KindAny array by indexing src (a dictionary) with the
// integer indices in idx, used to dereference PLAIN_DICTIONARY/RLE_DICTIONARY
// encoded pages.
func Gather(src *Array, idx []int32) *Array {
	out := &Array{Kind: KindAny, Any: make([]any, len(idx))}
	for i, di := range idx {
		out.Any[i] = src.At(int(di))
	}
	return out
}
