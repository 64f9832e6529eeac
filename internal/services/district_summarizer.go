package services

import (
	"slices"
	"transit-reachability-service/internal/domain"
)

// SummarizeDistricts recomputes the summary of every district from its current members
// and writes it into the district's properties for the renderer.
func SummarizeDistricts(districts []*domain.District) {
	for _, d := range districts {
		stations := d.Stations()
		durations := make([]int, 0, len(stations))
		for _, s := range stations {
			durations = append(durations, s.WeightedDuration())
		}
		d.SetSummary(Summarize(durations))
	}
}

// Summarize computes the best-decile summary of a multiset of weighted durations.
//
// The average only considers the fastest 10% (rounded up) of the values: a district
// is judged by its best served stops. Min, max and count cover all values.
func Summarize(durations []int) domain.Summary {
	if len(durations) == 0 {
		return domain.Summary{Count: 0}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	n := (len(sorted) + 9) / 10
	sum := 0
	for _, d := range sorted[:n] {
		sum += d
	}

	average := sum / n
	lo := sorted[0]
	hi := sorted[len(sorted)-1]

	return domain.Summary{
		WeightedAverage: &average,
		Min:             &lo,
		Max:             &hi,
		Count:           len(sorted),
	}
}
