// Package schema builds the Parquet schema tree from a flat, depth-first
// list of schema elements and exposes the repetition/definition level model
// Dremel-style nested record assembly depends on.
package schema

import (
	"fmt"

	"github.com/hyparquet-go/parquet/format"
)

// Node is one node of the schema tree. The tree is built once from a
// FileMetaData's flat schema list and is immutable thereafter.
type Node struct {
	Element  *format.SchemaElement
	Path     []string
	Children []*Node

	// SubtreeCount is the number of flat schema elements (including this
	// one) that this node's subtree consumed when the tree was built.
	SubtreeCount int
}

// Name returns the node's own name, or "" for the synthetic root.
func (n *Node) Name() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[len(n.Path)-1]
}

// IsRepeated reports whether the node's repetition is REPEATED.
func (n *Node) IsRepeated() bool {
	return n.Element.RepetitionType != nil && *n.Element.RepetitionType == format.Repeated
}

// IsRequired reports whether the node's repetition is REQUIRED (true for the
// synthetic root, whose RepetitionType is nil).
func (n *Node) IsRequired() bool {
	return n.Element.RepetitionType == nil || *n.Element.RepetitionType == format.Required
}

// IsLeaf reports whether the node has no children, i.e. it carries a
// physical type directly.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ChildByName returns the child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.Children {
		if c.Element.Name == name {
			return c
		}
	}
	return nil
}

// NotFoundError is returned when PathLookup cannot resolve a path segment.
type NotFoundError struct {
	Path []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("parquet: schema path not found: %v", e.Path)
}

// SchemaError reports a structurally invalid schema: element counts that
// don't add up, or a list/map node that is missing its repeated/key/value
// children.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string { return "parquet: schema: " + e.Detail }

// BuildTree constructs the schema tree from a FileMetaData's flat,
// depth-first schema element list. The returned root's SubtreeCount equals
// len(elements).
func BuildTree(elements []format.SchemaElement) (*Node, error) {
	if len(elements) == 0 {
		return nil, &SchemaError{Detail: "empty schema"}
	}
	root, consumed, err := buildTree(elements, 0, nil)
	if err != nil {
		return nil, err
	}
	if consumed != len(elements) {
		return nil, &SchemaError{Detail: fmt.Sprintf("schema declares %d elements but tree consumed %d", len(elements), consumed)}
	}
	return root, nil
}

func buildTree(elements []format.SchemaElement, index int, parentPath []string) (*Node, int, error) {
	if index >= len(elements) {
		return nil, 0, &SchemaError{Detail: fmt.Sprintf("schema element index %d out of range (len=%d)", index, len(elements))}
	}
	elem := elements[index]

	var path []string
	if index > 0 {
		path = make([]string, len(parentPath)+1)
		copy(path, parentPath)
		path[len(parentPath)] = elem.Name
	}

	node := &Node{Element: &elements[index], Path: path}

	numChildren := 0
	if elem.NumChildren != nil {
		numChildren = int(*elem.NumChildren)
	}

	consumed := 1
	for i := 0; i < numChildren; i++ {
		child, n, err := buildTree(elements, index+consumed, path)
		if err != nil {
			return nil, 0, err
		}
		node.Children = append(node.Children, child)
		consumed += n
	}

	node.SubtreeCount = consumed
	return node, consumed, nil
}

// PathLookup walks the tree from root following each name in path, and
// returns the ordered list of nodes visited (root first, the resolved node
// last).
func PathLookup(root *Node, path []string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(path)+1)
	nodes = append(nodes, root)
	cur := root
	for _, name := range path {
		next := cur.ChildByName(name)
		if next == nil {
			return nil, &NotFoundError{Path: path}
		}
		nodes = append(nodes, next)
		cur = next
	}
	return nodes, nil
}

// MaxRepetitionLevel returns the number of REPEATED elements along path
// (root excluded — the root's repetition is undefined and always counts 0).
func MaxRepetitionLevel(path []*Node) int {
	n := 0
	for _, node := range path[1:] {
		if node.IsRepeated() {
			n++
		}
	}
	return n
}

// MaxDefinitionLevel returns the number of non-REQUIRED elements along path
// (root excluded).
func MaxDefinitionLevel(path []*Node) int {
	n := 0
	for _, node := range path[1:] {
		if !node.IsRequired() {
			n++
		}
	}
	return n
}

// IsFlatColumn reports whether path is a two-element path (root, leaf) whose
// leaf is non-repeated and has no children — spec.md §4.C's definition of a
// flat column.
func IsFlatColumn(path []*Node) bool {
	if len(path) != 2 {
		return false
	}
	leaf := path[1]
	return !leaf.IsRepeated() && leaf.IsLeaf()
}

func hasListAnnotation(n *Node) bool {
	if n.Element.ConvertedType != nil && *n.Element.ConvertedType == format.List {
		return true
	}
	return n.Element.LogicalType != nil && n.Element.LogicalType.LIST != nil
}

func hasMapAnnotation(n *Node) bool {
	if n.Element.ConvertedType != nil &&
		(*n.Element.ConvertedType == format.Map || *n.Element.ConvertedType == format.MapKeyValue) {
		return true
	}
	return n.Element.LogicalType != nil && n.Element.LogicalType.MAP != nil
}

// IsList reports whether n is list-like per spec.md §3: LIST converted/
// logical type annotation, exactly one REPEATED child, whose single child is
// the element type.
func IsList(n *Node) bool {
	if !hasListAnnotation(n) || len(n.Children) != 1 {
		return false
	}
	repeated := n.Children[0]
	return repeated.IsRepeated() && len(repeated.Children) == 1
}

// IsMap reports whether n is map-like per spec.md §3: MAP converted/logical
// type annotation, one REPEATED child with exactly two non-repeated children
// named "key" and "value".
func IsMap(n *Node) bool {
	if !hasMapAnnotation(n) || len(n.Children) != 1 {
		return false
	}
	repeated := n.Children[0]
	if !repeated.IsRepeated() || len(repeated.Children) != 2 {
		return false
	}
	key, value := repeated.Children[0], repeated.Children[1]
	if key.Element.Name != "key" || value.Element.Name != "value" {
		return false
	}
	return !key.IsRepeated() && !value.IsRepeated()
}

// IsStruct reports whether n is a nested record with named fields: not
// list-like, not map-like, and not a leaf.
func IsStruct(n *Node) bool {
	return !n.IsLeaf() && !IsList(n) && !IsMap(n)
}

// ListElement returns the single child node representing a list's element
// type. The caller must have checked IsList(n) first.
func ListElement(n *Node) *Node {
	return n.Children[0].Children[0]
}

// MapKeyValue returns a map-like node's REPEATED child's key and value
// nodes. The caller must have checked IsMap(n) first.
func MapKeyValue(n *Node) (key, value *Node) {
	repeated := n.Children[0]
	return repeated.Children[0], repeated.Children[1]
}
