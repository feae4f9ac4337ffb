// Package merge implements supply hole detection for aggregated power plants.
//
// Every entity contributes the set of production values it can currently take.
// Detect folds those sets left to right: the running aggregate is combined
// with the next entity by pairwise interval addition and the resulting,
// possibly overlapping, intervals are merged back into a sorted list of
// disjoint ranges. Gaps between consecutive ranges are supply holes, values
// the group cannot produce because of on/off combinatorics.
//
// Example:
//
//	res := merge.Detect([]interval.Set{
//	    {interval.Zero(), interval.New(24.0, 36.0)},
//	    {interval.Zero(), interval.New(15.0, 20.0)},
//	})
//	// res.Regions: {[0 0], [15 20], [24 36], [39 56]}
//	// res.Holes:   {[0 15], [20 24], [36 39]}
package merge
