package parquet

import (
	"fmt"

	"github.com/hyparquet-go/parquet/assemble"
	"github.com/hyparquet-go/parquet/schema"
	"github.com/hyparquet-go/parquet/value"
)

// leafValues holds one leaf column's fully concatenated, converted values
// for a row group (spanning [pagesStartRow, pagesStartRow+rows)), keyed by
// the leaf's *schema.Node identity.
type leafValues struct {
	arr           *value.Array
	pagesStartRow int64
}

// assembleField runs spec.md §4.I's Dremel reconstruction over path (root
// first, the field being assembled last), recursing through list/map/struct
// shape per spec.md §3, and returns one entry per row covering
// [0, groupRows) relative to the row group's first row — callers slice the
// requested [selectStart, selectEnd) sub-range out of the result themselves,
// since a leaf's own pagesStartRow may already have trimmed the front.
func assembleField(path []*schema.Node, leaves map[*schema.Node]*leafValues, groupRows int64) ([]any, error) {
	node := path[len(path)-1]

	switch {
	case node.IsLeaf():
		lv, ok := leaves[node]
		if !ok {
			// A column that was skipped (e.g. ColumnTooLarge) contributes
			// an all-null column rather than aborting the whole read.
			return make([]any, groupRows), nil
		}
		rows := assemble.Leaf(path, lv.arr)
		return padLeafRows(rows, lv.pagesStartRow, groupRows), nil

	case schema.IsMap(node):
		repeated := node.Children[0]
		key, val := schema.MapKeyValue(node)
		repDepth := schema.MaxRepetitionLevel(path)

		keyPath := append(append(clonePath(path), repeated), key)
		valPath := append(append(clonePath(path), repeated), val)

		keyRows, err := assembleField(keyPath, leaves, groupRows)
		if err != nil {
			return nil, err
		}
		valRows, err := assembleField(valPath, leaves, groupRows)
		if err != nil {
			return nil, err
		}
		merged := assemble.MergeStruct([]string{"key", "value"}, [][]any{keyRows, valRows})
		return assemble.MapAtDepth(merged, repDepth), nil

	case schema.IsList(node):
		elemPath := append(append(clonePath(path), node.Children[0]), schema.ListElement(node))
		return assembleField(elemPath, leaves, groupRows)

	default: // struct
		fields := make([]string, 0, len(node.Children))
		trees := make([][]any, 0, len(node.Children))
		for _, child := range node.Children {
			childPath := append(clonePath(path), child)
			tree, err := assembleField(childPath, leaves, groupRows)
			if err != nil {
				return nil, fmt.Errorf("parquet: assembling field %q: %w", child.Name(), err)
			}
			fields = append(fields, child.Name())
			trees = append(trees, tree)
		}
		return assemble.MergeStruct(fields, trees), nil
	}
}

func clonePath(path []*schema.Node) []*schema.Node {
	out := make([]*schema.Node, len(path))
	copy(out, path)
	return out
}

// padLeafRows prepends pagesStartRow nils to rows so the result covers
// [0, groupRows) like every other field's output, keeping the final
// [selectStart:selectEnd) slice uniform regardless of whether this leaf's
// chunk was pre-trimmed to the selected range (the flat, no-null fast path)
// or decoded from the row group's first row (every nested/nullable column).
func padLeafRows(rows []any, pagesStartRow, groupRows int64) []any {
	if pagesStartRow == 0 {
		if int64(len(rows)) < groupRows {
			rows = append(rows, make([]any, groupRows-int64(len(rows)))...)
		}
		return rows
	}
	out := make([]any, pagesStartRow, groupRows)
	out = append(out, rows...)
	if int64(len(out)) < groupRows {
		out = append(out, make([]any, groupRows-int64(len(out)))...)
	}
	return out
}
