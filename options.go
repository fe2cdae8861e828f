package parquet

import (
	"github.com/hyparquet-go/parquet/convert"
	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/source"
)

// RowFormat selects how Read shapes each assembled row.
type RowFormat int

const (
	// RowFormatArray emits each row as a positional []any, one slot per
	// requested top-level column, in schema order.
	RowFormatArray RowFormat = iota
	// RowFormatObject emits each row as a map[string]any keyed by
	// top-level column name.
	RowFormatObject
)

// ChunkEvent describes one pushed chunk of fully-assembled rows for a
// single top-level column within a row group (spec.md §5: on_chunk events
// are emitted in column-within-group, then group order).
type ChunkEvent struct {
	Column          string
	RowStart, RowEnd int64
}

// PageEvent describes one decoded data page of a single column chunk
// (spec.md §5: on_page events for a single column are emitted in strictly
// increasing RowStart order).
type PageEvent struct {
	Column          string
	RowStart, RowEnd int64
}

// ReadOptions configures a single Read call. Source is required; everything
// else defaults per spec.md §6.
type ReadOptions struct {
	Source source.ByteSource

	// Metadata, if set, skips the footer fetch/parse this call would
	// otherwise perform (e.g. when a caller already holds a FileMetaData
	// from an earlier ReadMetadata call and is issuing several reads
	// against the same file).
	Metadata *format.FileMetaData

	// Columns restricts assembly to the named top-level schema fields.
	// A nil slice reads every column.
	Columns []string

	// RowStart/RowEnd select the half-open row range to read, relative to
	// the whole file. RowEnd<=0 means "through the last row".
	RowStart, RowEnd int64

	// UTF8, when true (the default), treats a plain BYTE_ARRAY column
	// with no converted/logical type annotation as a UTF-8 string.
	UTF8 bool

	// Parsers overrides the physical-to-logical conversion hooks
	// (timestamps, dates, strings). The zero value uses convert.DefaultParsers.
	Parsers *convert.Parsers

	// GeometryPaths names dotted schema paths whose WKB-encoded bytes
	// should be decoded as GeoJSON-shaped geometry (the GEOMETRY logical
	// type supplement documented in SPEC_FULL.md).
	GeometryPaths map[string]bool

	RowFormat RowFormat

	OnChunk    func(ChunkEvent)
	OnPage     func(PageEvent)
	OnComplete func(rows []any)
}

// NewReadOptions returns a ReadOptions with spec.md §6's defaults applied
// (UTF8 enabled, array row format, the whole file). Callers building
// ReadOptions{} directly get UTF8: false since Go zero-values a bool to
// false, not spec.md's documented default of true — use this constructor
// unless a caller genuinely wants UTF8 off.
func NewReadOptions(src source.ByteSource) ReadOptions {
	return ReadOptions{Source: src, UTF8: true, RowFormat: RowFormatArray}
}

func (o *ReadOptions) convertOptions() convert.Options {
	opts := convert.DefaultOptions()
	opts.UTF8 = o.UTF8
	if o.Parsers != nil {
		opts.Parsers = *o.Parsers
	}
	if o.GeometryPaths != nil {
		opts.GeometryPaths = o.GeometryPaths
	}
	return opts
}
