package parquet

func buildRow(format RowFormat, names []string, fieldRows map[string][]any, idx int64) any {
	if format == RowFormatObject {
		row := make(map[string]any, len(names))
		for _, name := range names {
			row[name] = fieldRows[name][idx]
		}
		return row
	}
	row := make([]any, len(names))
	for i, name := range names {
		row[i] = fieldRows[name][idx]
	}
	return row
}
