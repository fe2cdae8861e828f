package parquet

import "context"

// ReadObjects is a buffering convenience wrapper (spec.md §6) over Read that
// forces RowFormatObject and returns every assembled row as a
// map[string]any, synchronously.
func ReadObjects(ctx context.Context, opts ReadOptions) ([]map[string]any, error) {
	opts.RowFormat = RowFormatObject
	var rows []map[string]any
	opts.OnComplete = func(r []any) {
		rows = make([]map[string]any, len(r))
		for i, row := range r {
			rows[i], _ = row.(map[string]any)
		}
	}
	if err := Read(ctx, opts); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadArrays is a buffering convenience wrapper (spec.md §6) over Read that
// forces RowFormatArray and returns every assembled row as a positional
// []any, synchronously.
func ReadArrays(ctx context.Context, opts ReadOptions) ([][]any, error) {
	opts.RowFormat = RowFormatArray
	var rows [][]any
	opts.OnComplete = func(r []any) {
		rows = make([][]any, len(r))
		for i, row := range r {
			rows[i], _ = row.([]any)
		}
	}
	if err := Read(ctx, opts); err != nil {
		return nil, err
	}
	return rows, nil
}
