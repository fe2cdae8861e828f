// Package assemble implements the nested-record assembler (spec.md §4.I):
// turning a leaf column's flat (repetition level, definition level, value)
// triples back into the nested lists, maps, and structs the schema
// describes — the inverse of Dremel shredding.
package assemble

import (
	"github.com/hyparquet-go/parquet/schema"
	"github.com/hyparquet-go/parquet/value"
)

// levelNode is one non-root schema node's contribution to the repetition
// and definition level ceilings along a leaf column's path.
type levelNode struct {
	repeated bool
	cumDef   int
	cumRep   int
}

func buildLevelNodes(path []*schema.Node) []levelNode {
	nodes := make([]levelNode, 0, len(path)-1)
	def, rep := 0, 0
	for _, n := range path[1:] {
		if !n.IsRequired() {
			def++
		}
		if n.IsRepeated() {
			rep++
		}
		nodes = append(nodes, levelNode{repeated: n.IsRepeated(), cumDef: def, cumRep: rep})
	}
	return nodes
}

func presentNodeCount(nodes []levelNode, def int32) int {
	n := 0
	for _, nd := range nodes {
		if int32(nd.cumDef) <= def {
			n++
		} else {
			break
		}
	}
	return n
}

// repeatedPresentDepth returns how many of the leading repeated nodes (in path
// order) are still present at definition level def.
func repeatedPresentDepth(repNodes []levelNode, def int32) int {
	depth := 0
	for _, nd := range repNodes {
		if int32(nd.cumDef) <= def {
			depth++
		} else {
			break
		}
	}
	return depth
}

// repeatedContainerDepth returns how many of the leading repeated nodes (in
// path order) exist as a container at definition level def, even if empty —
// one less strict than repeatedPresentDepth, which additionally requires an
// actual element at this position. A repeated node's container exists once
// def has passed every ancestor up to, but not necessarily including, the
// repeated node's own cumDef (cumDef-1): that's the "zero elements" state;
// reaching cumDef itself means this position holds a concrete element.
func repeatedContainerDepth(repNodes []levelNode, def int32) int {
	depth := 0
	for _, nd := range repNodes {
		if int32(nd.cumDef)-1 <= def {
			depth++
		} else {
			break
		}
	}
	return depth
}

// repStartDepth returns the list-nesting depth (1-based into repNodes, 0
// meaning "start of a new row") that repetition level rep indicates a new
// element begins at.
func repStartDepth(repNodes []levelNode, rep int32) int {
	if rep == 0 {
		return 0
	}
	for i, nd := range repNodes {
		if int32(nd.cumRep) == rep {
			return i + 1
		}
	}
	return 0
}

func slotCount(arr *value.Array, maxDef int) int {
	if arr.DefinitionLevels != nil {
		return len(arr.DefinitionLevels)
	}
	if arr.RepetitionLevels != nil {
		return len(arr.RepetitionLevels)
	}
	return arr.Len()
}

func defAt(arr *value.Array, i int, maxDef int32) int32 {
	if arr.DefinitionLevels == nil {
		return maxDef
	}
	return arr.DefinitionLevels[i]
}

func repAt(arr *value.Array, i int) int32 {
	if arr.RepetitionLevels == nil {
		return 0
	}
	return arr.RepetitionLevels[i]
}

// Leaf reconstructs one leaf column's decoded, converted values (arr) into
// one entry per row: a nested []any tree wherever path passes through a
// REPEATED node, nil wherever an optional ancestor (or the leaf itself) is
// null, and an empty []any wherever a repeated ancestor produced zero
// elements. Non-repeated struct wrapping is the caller's concern (MergeStruct
// zips sibling leaves together; assemble.Leaf only rebuilds list nesting).
func Leaf(path []*schema.Node, arr *value.Array) []any {
	nodes := buildLevelNodes(path)
	maxDef := 0
	if len(nodes) > 0 {
		maxDef = nodes[len(nodes)-1].cumDef
	}

	var repNodes []levelNode
	for _, nd := range nodes {
		if nd.repeated {
			repNodes = append(repNodes, nd)
		}
	}

	n := slotCount(arr, maxDef)
	rows := &[]any{}
	containers := make([]*[]any, len(repNodes)+1)
	containers[0] = rows

	valueIdx := 0
	for i := 0; i < n; i++ {
		def := defAt(arr, i, int32(maxDef))
		rep := repAt(arr, i)
		startDepth := repStartDepth(repNodes, rep)

		containerDepth := repeatedContainerDepth(repNodes, def)
		if len(repNodes) > 0 && startDepth == 0 && containerDepth == 0 {
			// A brand-new row whose outermost repeated ancestor isn't even
			// an empty list — the whole field is null for this row. Every
			// row needs exactly one entry in the outer container, and the
			// creation loop below never touches depth 0 when containerDepth
			// is 0, so record it explicitly.
			*containers[0] = append(*containers[0], nil)
		} else {
			for d := startDepth + 1; d <= containerDepth; d++ {
				fresh := &[]any{}
				*containers[d-1] = append(*containers[d-1], fresh)
				containers[d] = fresh
			}
		}

		createUpTo := repeatedPresentDepth(repNodes, def)
		if createUpTo < len(repNodes) {
			// a repeated ancestor deeper than createUpTo is itself absent or
			// still empty: its container stays as created above (possibly
			// empty), no leaf placeholder is appended.
			continue
		}

		present := presentNodeCount(nodes, def)
		var leafVal any
		if present == len(nodes) {
			leafVal = arr.At(valueIdx)
			valueIdx++
		}

		if len(repNodes) == 0 {
			*rows = append(*rows, leafVal)
			continue
		}
		*containers[len(repNodes)] = append(*containers[len(repNodes)], leafVal)
	}

	return derefList(rows)
}

func deref(v any) any {
	if p, ok := v.(*[]any); ok {
		return derefList(p)
	}
	return v
}

func derefList(p *[]any) []any {
	if p == nil {
		return nil
	}
	out := make([]any, len(*p))
	for i, e := range *p {
		out[i] = deref(e)
	}
	return out
}
