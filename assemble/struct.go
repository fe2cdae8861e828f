package assemble

// MergeStruct zips sibling fields' Leaf output into one tree of
// map[string]any, assuming (per spec.md §3's shape invariant) that sibling
// leaves under the same struct share identical list nesting at every
// corresponding position. trees[i] is the Leaf/MergeStruct output for
// fields[i]; all trees must have the same outer length.
func MergeStruct(fields []string, trees [][]any) []any {
	if len(trees) == 0 {
		return nil
	}
	n := len(trees[0])
	rows := make([]any, n)
	for i := 0; i < n; i++ {
		rows[i] = mergeOne(fields, trees, i)
	}
	return rows
}

func mergeOne(fields []string, trees [][]any, i int) any {
	length := -1
	for _, t := range trees {
		if lst, ok := t[i].([]any); ok {
			length = len(lst)
			break
		}
	}

	if length >= 0 {
		out := make([]any, length)
		for k := 0; k < length; k++ {
			sub := make([][]any, len(trees))
			for fi, t := range trees {
				if lst, ok := t[i].([]any); ok {
					sub[fi] = []any{lst[k]}
				} else {
					sub[fi] = []any{nil}
				}
			}
			out[k] = mergeOne(fields, sub, 0)
		}
		return out
	}

	allNil := true
	for _, t := range trees {
		if t[i] != nil {
			allNil = false
			break
		}
	}
	if allNil {
		return nil
	}

	rec := make(map[string]any, len(fields))
	for fi, f := range fields {
		rec[f] = trees[fi][i]
	}
	return rec
}

// MapAtDepth applies MapFromEntries at the given list-nesting depth instead
// of at tree's own top level, for a map node that sits beneath depth further
// REPEATED ancestors (e.g. a list of maps): at depth 0 it's MapFromEntries
// itself; otherwise it descends one list level per depth and recurses,
// passing nil through for rows that aren't lists (an absent outer element).
func MapAtDepth(tree []any, depth int) []any {
	if depth <= 0 {
		return MapFromEntries(tree)
	}
	out := make([]any, len(tree))
	for i, v := range tree {
		lst, ok := v.([]any)
		if !ok {
			out[i] = nil
			continue
		}
		out[i] = MapAtDepth(lst, depth-1)
	}
	return out
}

// MapFromEntries converts the list-of-{"key","value"}-struct rows MergeStruct
// produces for a map-shaped node (spec.md §3) into a Go map per row.
func MapFromEntries(rows []any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		lst, ok := r.([]any)
		if !ok {
			out[i] = nil
			continue
		}
		m := make(map[any]any, len(lst))
		for _, e := range lst {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			m[entry["key"]] = entry["value"]
		}
		out[i] = m
	}
	return out
}
