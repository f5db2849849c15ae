package report

import "eveanchor/internal/domain/harvest"

type Summary struct {
	Arrays    float64 `json:"arrays"`
	Value     float64 `json:"value"`
	Locations int     `json:"locations"`
}

// Summarize totals the arrays placed and the ISK they produce over days.
// Resources missing from values contribute no ISK.
func Summarize(allocs []harvest.Allocation, values harvest.ValueTable, days float64) Summary {
	var s Summary
	seen := map[int64]bool{}
	for _, a := range allocs {
		if a.Arrays == 0 {
			continue
		}
		s.Arrays += a.Arrays
		if !seen[a.Record.LocationID] {
			seen[a.Record.LocationID] = true
			s.Locations++
		}
		v, err := values.ValueOf(a.Record.ResourceID)
		if err != nil {
			continue
		}
		s.Value += v * a.Record.OutputRate * a.Arrays * days * harvest.HoursPerDay
	}
	return s
}
