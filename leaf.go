package parquet

import (
	"github.com/hyparquet-go/parquet/column"
	"github.com/hyparquet-go/parquet/value"
)

// concatLeaf concatenates a column chunk's decoded, converted pages into a
// single value.Array spanning all of them, normalising each page's
// definition levels to a uniform presence (nil only when no page in the
// chunk carries any, matching value.Array's "nil means every value defined"
// convention) so the combined array can be handed to assemble.Leaf as if it
// had come from one page.
func concatLeaf(pages []column.Page, maxDefLevel int) *value.Array {
	if len(pages) == 0 {
		return &value.Array{}
	}

	needDefLevels := false
	needRepLevels := false
	for _, p := range pages {
		if p.Values.DefinitionLevels != nil {
			needDefLevels = true
		}
		if p.Values.RepetitionLevels != nil {
			needRepLevels = true
		}
	}

	out := &value.Array{Kind: pages[0].Values.Kind}
	for _, p := range pages {
		arr := p.Values
		n := arr.Len()
		for i := 0; i < n; i++ {
			value.Append(out, &arr, i)
		}

		if needDefLevels {
			if arr.DefinitionLevels != nil {
				out.DefinitionLevels = append(out.DefinitionLevels, arr.DefinitionLevels...)
			} else {
				for i := 0; i < n; i++ {
					out.DefinitionLevels = append(out.DefinitionLevels, int32(maxDefLevel))
				}
			}
		}
		if needRepLevels && arr.RepetitionLevels != nil {
			out.RepetitionLevels = append(out.RepetitionLevels, arr.RepetitionLevels...)
		}
	}
	return out
}
