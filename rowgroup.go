package parquet

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/hyparquet-go/parquet/column"
	"github.com/hyparquet-go/parquet/convert"
	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/page"
	"github.com/hyparquet-go/parquet/plan"
	"github.com/hyparquet-go/parquet/prefetch"
	"github.com/hyparquet-go/parquet/schema"
)

// columnByteRange returns the exact [start, end) byte range column.Read
// needs for colMeta, independent of whether the planner aggregated it into
// a single group-wide fetch (plan.Build §4.D) — the prefetch.Buffer resolves
// either way.
func columnByteRange(colMeta *format.ColumnMetaData) (int64, int64) {
	start := colMeta.DataPageOffset
	if colMeta.DictionaryPageOffset != nil {
		start = *colMeta.DictionaryPageOffset
	}
	return start, colMeta.DataPageOffset + colMeta.TotalCompressedSize
}

func dottedPath(path []string) string { return strings.Join(path, ".") }

// readGroup decodes every requested column of one row group, assembles the
// requested top-level fields, and transposes the result into rows covering
// gp's own [SelectStart, SelectEnd) range.
func readGroup(ctx context.Context, gp plan.GroupPlan, root *schema.Node, buf *prefetch.Buffer, columns map[string]bool, convOpts convert.Options, opts *ReadOptions) ([]any, error) {
	rg := gp.RowGroup

	type result struct {
		node *schema.Node
		lv   *leafValues
	}
	results := make([]*result, len(rg.Columns))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		firstErr error
	)

	for ci := range rg.Columns {
		cc := &rg.Columns[ci]
		if cc.MetaData == nil {
			continue
		}
		nodes, err := schema.PathLookup(root, cc.MetaData.PathInSchema)
		if err != nil {
			return nil, err
		}
		leaf := nodes[len(nodes)-1]
		topName := nodes[1].Name()
		if columns != nil && !columns[topName] {
			continue
		}

		wg.Add(1)
		go func(ci int, nodes []*schema.Node, leaf *schema.Node, colMeta *format.ColumnMetaData) {
			defer wg.Done()

			lv, err := readColumn(ctx, colMeta, nodes, leaf, buf, gp, convOpts, opts)
			if err != nil {
				if _, ok := err.(*column.TooLargeError); ok {
					log.Printf("parquet: skipping column %v: %v", colMeta.PathInSchema, err)
					return
				}
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			results[ci] = &result{node: leaf, lv: lv}
			mu.Unlock()
		}(ci, nodes, leaf, cc.MetaData)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	leaves := make(map[*schema.Node]*leafValues)
	for _, r := range results {
		if r != nil {
			leaves[r.node] = r.lv
		}
	}

	fieldNames, fieldRows, err := assembleTopLevel(root, leaves, columns, gp.SelectEnd)
	if err != nil {
		return nil, err
	}

	numRows := gp.SelectEnd - gp.SelectStart
	rows := make([]any, numRows)
	for i := int64(0); i < numRows; i++ {
		rows[i] = buildRow(opts.RowFormat, fieldNames, fieldRows, gp.SelectStart+i)
	}

	for _, name := range fieldNames {
		if opts.OnChunk != nil {
			opts.OnChunk(ChunkEvent{
				Column:   name,
				RowStart: gp.GroupStart + gp.SelectStart,
				RowEnd:   gp.GroupStart + gp.SelectEnd,
			})
		}
	}

	return rows, nil
}

func readColumn(ctx context.Context, colMeta *format.ColumnMetaData, nodes []*schema.Node, leaf *schema.Node, buf *prefetch.Buffer, gp plan.GroupPlan, convOpts convert.Options, opts *ReadOptions) (*leafValues, error) {
	typeLength := 0
	if leaf.Element.TypeLength != nil {
		typeLength = int(*leaf.Element.TypeLength)
	}
	col := page.Column{
		PhysicalType: colMeta.Type,
		TypeLength:   typeLength,
		MaxRepLevel:  schema.MaxRepetitionLevel(nodes),
		MaxDefLevel:  schema.MaxDefinitionLevel(nodes),
		IsFlat:       schema.IsFlatColumn(nodes),
	}

	start, end := columnByteRange(colMeta)
	chunkBytes, err := buf.Slice(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("parquet: column %v: %w", colMeta.PathInSchema, err)
	}

	chunk, err := column.Read(colMeta, col, leaf.Element, dottedPath(colMeta.PathInSchema), convOpts, chunkBytes, start, gp.SelectStart, gp.SelectEnd)
	if err != nil {
		return nil, err
	}

	pagesStartRow := int64(0)
	if col.IsFlat {
		anyNulls := false
		for _, p := range chunk.Pages {
			if p.Values.DefinitionLevels != nil {
				anyNulls = true
				break
			}
		}
		if !anyNulls {
			pagesStartRow = gp.SelectStart
		}
	}

	if opts.OnPage != nil {
		rowCursor := pagesStartRow
		name := dottedPath(colMeta.PathInSchema)
		for _, p := range chunk.Pages {
			opts.OnPage(PageEvent{
				Column:   name,
				RowStart: gp.GroupStart + rowCursor,
				RowEnd:   gp.GroupStart + rowCursor + int64(p.NumRows),
			})
			rowCursor += int64(p.NumRows)
		}
	}

	arr := concatLeaf(chunk.Pages, col.MaxDefLevel)
	return &leafValues{arr: arr, pagesStartRow: pagesStartRow}, nil
}

// assembleTopLevel runs spec.md §4.I over every requested top-level schema
// child, in schema order, and slices each field's result down to
// [0, selectEnd) — readGroup further slices to [SelectStart, SelectEnd).
func assembleTopLevel(root *schema.Node, leaves map[*schema.Node]*leafValues, columns map[string]bool, selectEnd int64) ([]string, map[string][]any, error) {
	var names []string
	rows := make(map[string][]any)

	for _, child := range root.Children {
		if columns != nil && !columns[child.Name()] {
			continue
		}
		tree, err := assembleField([]*schema.Node{root, child}, leaves, selectEnd)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, child.Name())
		rows[child.Name()] = tree
	}
	return names, rows, nil
}
