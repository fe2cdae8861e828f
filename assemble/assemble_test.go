package assemble

import (
	"reflect"
	"testing"

	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/schema"
	"github.com/hyparquet-go/parquet/value"
)

func i32(v int32) *int32 { return &v }

func repetition(r format.FieldRepetitionType) *format.FieldRepetitionType { return &r }

func physType(t format.Type) *format.Type { return &t }

func convType(c format.ConvertedType) *format.ConvertedType { return &c }

// message root { optional int64 v; }
func optionalLeafSchema() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "root", NumChildren: i32(1)},
		{Name: "v", Type: physType(format.Int64), RepetitionType: repetition(format.Optional)},
	}
}

// message root { optional group tags (LIST) { repeated group list { required int64 element; } } }
func listSchema() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "root", NumChildren: i32(1)},
		{Name: "tags", RepetitionType: repetition(format.Optional), NumChildren: i32(1), ConvertedType: convType(format.List)},
		{Name: "list", RepetitionType: repetition(format.Repeated), NumChildren: i32(1)},
		{Name: "element", Type: physType(format.Int64), RepetitionType: repetition(format.Required)},
	}
}

func buildPath(t *testing.T, elems []format.SchemaElement, names ...string) []*schema.Node {
	t.Helper()
	root, err := schema.BuildTree(elems)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	path := []*schema.Node{root}
	n := root
	for _, name := range names {
		n = n.ChildByName(name)
		if n == nil {
			t.Fatalf("no child %q", name)
		}
		path = append(path, n)
	}
	return path
}

func TestLeafOptionalScalar(t *testing.T) {
	path := buildPath(t, optionalLeafSchema(), "v")

	arr := &value.Array{
		Kind:             value.KindInt64,
		Int64:            []int64{10, 20},
		DefinitionLevels: []int32{1, 0, 1}, // present, null, present
	}
	arr.Int64 = []int64{10, 20}

	got := Leaf(path, arr)
	want := []any{int64(10), nil, int64(20)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaf = %v, want %v", got, want)
	}
}

func TestLeafListReconstruction(t *testing.T) {
	path := buildPath(t, listSchema(), "tags", "list", "element")

	// Two rows, both with a present list: row0 = [1,2], row1 = [3].
	// max_def=2 (optional tags present=1, repeated list element present=2),
	// max_rep=1 (the repeated "list" node); rep=0 marks each row's first
	// element, rep=1 a continuation within the same row's list.
	arr := &value.Array{
		Kind:             value.KindInt64,
		Int64:            []int64{1, 2, 3},
		DefinitionLevels: []int32{2, 2, 2},
		RepetitionLevels: []int32{0, 1, 0},
	}

	got := Leaf(path, arr)
	want := []any{
		[]any{int64(1), int64(2)},
		[]any{int64(3)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaf = %#v, want %#v", got, want)
	}
}

func TestLeafListNullEmptyPresent(t *testing.T) {
	path := buildPath(t, listSchema(), "tags", "list", "element")

	// Three rows spanning all three definition-level states: row0 is
	// absent (tags itself null), row1 is present but empty (list has zero
	// elements), row2 is present with one element.
	arr := &value.Array{
		Kind:             value.KindInt64,
		Int64:            []int64{7},
		DefinitionLevels: []int32{0, 1, 2},
		RepetitionLevels: []int32{0, 0, 0},
	}

	got := Leaf(path, arr)
	want := []any{nil, []any{}, []any{int64(7)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaf = %#v, want %#v", got, want)
	}
}

func TestMergeStructZipsSiblings(t *testing.T) {
	a := []any{int64(1), nil, int64(3)}
	b := []any{"x", "y", nil}

	got := MergeStruct([]string{"a", "b"}, [][]any{a, b})
	want := []any{
		map[string]any{"a": int64(1), "b": "x"},
		map[string]any{"a": nil, "b": "y"},
		map[string]any{"a": int64(3), "b": nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeStruct = %#v, want %#v", got, want)
	}
}

func TestMapFromEntries(t *testing.T) {
	entries := []any{
		[]any{
			map[string]any{"key": "a", "value": int64(1)},
			map[string]any{"key": "b", "value": int64(2)},
		},
		nil,
	}
	got := MapFromEntries(entries)
	want0 := map[any]any{"a": int64(1), "b": int64(2)}
	m0, ok := got[0].(map[any]any)
	if !ok || !reflect.DeepEqual(m0, want0) {
		t.Errorf("MapFromEntries[0] = %#v, want %#v", got[0], want0)
	}
	if got[1] != nil {
		t.Errorf("MapFromEntries[1] = %#v, want nil", got[1])
	}
}

func TestMapAtDepthThroughListOfMaps(t *testing.T) {
	// one row: a list of two maps, each with one entry
	tree := []any{
		[]any{
			[]any{map[string]any{"key": "a", "value": int64(1)}},
			[]any{map[string]any{"key": "b", "value": int64(2)}},
		},
	}
	got := MapAtDepth(tree, 1)
	outer, ok := got[0].([]any)
	if !ok || len(outer) != 2 {
		t.Fatalf("MapAtDepth = %#v, want a 2-element list of maps", got[0])
	}
	m0 := outer[0].(map[any]any)
	m1 := outer[1].(map[any]any)
	if m0["a"] != int64(1) || m1["b"] != int64(2) {
		t.Errorf("MapAtDepth entries = %#v, %#v", m0, m1)
	}
}
