package outline

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// FontStats summarizes the font sizes observed in one document.
type FontStats struct {
	Mean  float64   // Arithmetic mean over all spans
	Ranks []float64 // Distinct sizes, largest first
}

// ComputeFontStats returns the mean size and the descending distinct sizes
// of spans. The zero value is returned for no spans.
func ComputeFontStats(spans []doctree.Span) FontStats {
	if len(spans) == 0 {
		return FontStats{}
	}

	var sum float64
	seen := make(map[float64]bool, 8)
	ranks := make([]float64, 0, 8)
	for _, s := range spans {
		sum += s.Size
		if !seen[s.Size] {
			seen[s.Size] = true
			ranks = append(ranks, s.Size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranks)))

	return FontStats{
		Mean:  sum / float64(len(spans)),
		Ranks: ranks,
	}
}
