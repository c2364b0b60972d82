package hazard

import "sort"

// Rank filters and orders evaluated results for presentation: a result is
// kept when it is contained or within radiusMiles, and survivors are sorted
// ascending by full-precision distance. The sort is stable, so results at
// equal distance keep their fetch order. The input slice is not modified.
func Rank(results []Result, radiusMiles float64) []Result {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Contained || r.DistanceMiles <= radiusMiles {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].DistanceMiles < kept[j].DistanceMiles
	})
	return kept
}
