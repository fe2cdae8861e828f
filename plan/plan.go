// Package plan turns a file's row groups and a requested row range into the
// byte ranges a byte source must fetch before any column can be decoded.
package plan

import (
	"fmt"

	"github.com/hyparquet-go/parquet/format"
)

// AggregateThreshold is the span size below which a row group's column
// ranges are merged into a single fetch instead of one fetch per column.
const AggregateThreshold = 32 * 1024 * 1024

// ExternalFileError is returned when a column chunk's data lives in a file
// other than the one being read (ColumnChunk.FilePath set) — the external
// file reference this module refuses to follow.
type ExternalFileError struct {
	GroupIndex, ColumnIndex int
	FilePath                string
}

func (e *ExternalFileError) Error() string {
	return fmt.Sprintf("parquet: row group %d column %d: external file reference %q not supported", e.GroupIndex, e.ColumnIndex, e.FilePath)
}

// FetchRange is a single byte range a ByteSource must supply.
type FetchRange struct {
	Start, End int64
}

// ColumnFetch pairs a FetchRange with the index of the column chunk it
// covers within its row group's Columns slice.
type ColumnFetch struct {
	ColumnIndex int
	FetchRange
}

// GroupPlan describes the work needed to read the overlap between a
// requested row range and one row group.
type GroupPlan struct {
	GroupIndex int
	RowGroup   *format.RowGroup

	// GroupStart is this row group's first row index in the file.
	GroupStart int64

	// SelectStart/SelectEnd are row indices relative to GroupStart, i.e.
	// [SelectStart, SelectEnd) is the overlap with the caller's requested
	// range, clamped to this group's own row count.
	SelectStart, SelectEnd int64

	// Aggregated is true when Fetches holds a single range spanning every
	// column (span < AggregateThreshold); false when Fetches holds one
	// range per column, in column order.
	Aggregated bool
	Fetches    []ColumnFetch
}

// Build computes a GroupPlan per row group overlapping [rowStart, rowEnd),
// in row-group order.
func Build(meta *format.FileMetaData, rowStart, rowEnd int64) ([]GroupPlan, error) {
	var plans []GroupPlan
	groupStart := int64(0)

	for gi := range meta.RowGroups {
		rg := &meta.RowGroups[gi]
		groupEnd := groupStart + rg.NumRows

		if groupEnd > rowStart && groupStart < rowEnd {
			gp, err := buildGroup(gi, rg, groupStart, rowStart, rowEnd)
			if err != nil {
				return nil, err
			}
			plans = append(plans, gp)
		}

		groupStart = groupEnd
	}

	return plans, nil
}

func buildGroup(gi int, rg *format.RowGroup, groupStart, rowStart, rowEnd int64) (GroupPlan, error) {
	selectStart := rowStart - groupStart
	if selectStart < 0 {
		selectStart = 0
	}
	selectEnd := rowEnd - groupStart
	if selectEnd > rg.NumRows {
		selectEnd = rg.NumRows
	}

	ranges := make([]FetchRange, len(rg.Columns))
	minStart, maxEnd := int64(-1), int64(-1)

	for ci := range rg.Columns {
		col := &rg.Columns[ci]
		if col.FilePath != nil {
			return GroupPlan{}, &ExternalFileError{GroupIndex: gi, ColumnIndex: ci, FilePath: *col.FilePath}
		}
		md := col.MetaData
		start := md.DataPageOffset
		if md.DictionaryPageOffset != nil {
			start = *md.DictionaryPageOffset
		}
		end := md.DataPageOffset + md.TotalCompressedSize
		ranges[ci] = FetchRange{Start: start, End: end}

		if minStart < 0 || start < minStart {
			minStart = start
		}
		if end > maxEnd {
			maxEnd = end
		}
	}

	gp := GroupPlan{
		GroupIndex:  gi,
		RowGroup:    rg,
		GroupStart:  groupStart,
		SelectStart: selectStart,
		SelectEnd:   selectEnd,
	}

	if len(rg.Columns) == 0 {
		return gp, nil
	}

	if maxEnd-minStart < AggregateThreshold {
		gp.Aggregated = true
		gp.Fetches = []ColumnFetch{{ColumnIndex: -1, FetchRange: FetchRange{Start: minStart, End: maxEnd}}}
		return gp, nil
	}

	gp.Fetches = make([]ColumnFetch, len(ranges))
	for ci, r := range ranges {
		gp.Fetches[ci] = ColumnFetch{ColumnIndex: ci, FetchRange: r}
	}
	return gp, nil
}
