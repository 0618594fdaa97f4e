package stats

import (
	"errors"

	"osplits/internal/domain"
)

// IndexPoint is a runner's performance index on one leg. Values above 1 are
// faster than the leg baseline.
type IndexPoint struct {
	Leg   int     `json:"leg"`
	Index float64 `json:"index"`
}

// LegBaseline is the mean leg time, in whole seconds, of the fastest quarter
// of the runners ranked on the leg.
type LegBaseline struct {
	Leg     int     `json:"leg"`
	Seconds float64 `json:"seconds"`
	Sample  int     `json:"sample"`
}

// PerformanceIndexes holds per-leg baselines and, for each runner in race
// order, the indexes on the legs the runner was ranked on.
type PerformanceIndexes struct {
	Baselines []LegBaseline
	Series    [][]IndexPoint
}

// PerformanceIndex computes leg baselines, records them on the race and
// scores every ranked runner against them. The baseline sample is a quarter
// of the ranked runners, never fewer than one.
func PerformanceIndex(race *domain.Race) (*PerformanceIndexes, error) {
	runners := race.Runners()
	index := make(map[*domain.Runner]int, len(runners))
	for i, r := range runners {
		index[r] = i
	}

	out := &PerformanceIndexes{Series: make([][]IndexPoint, len(runners))}
	for leg := 1; leg <= race.Controls(); leg++ {
		order, err := race.OrderOnLeg(leg)
		if errors.Is(err, domain.ErrEmptyRanking) {
			continue
		}
		if err != nil {
			return nil, err
		}

		sample := len(order) / 4
		if sample < 1 {
			sample = 1
		}
		total := 0
		for _, runner := range order[:sample] {
			total += runner.Legs[leg-1].Time.ToSeconds()
		}
		baseline := float64(total) / float64(sample)
		if err := race.SetBaseline(leg, baseline); err != nil {
			return nil, err
		}
		out.Baselines = append(out.Baselines, LegBaseline{Leg: leg, Seconds: baseline, Sample: sample})

		for _, runner := range order {
			own := runner.Legs[leg-1].Time.ToSeconds()
			if own == 0 {
				continue
			}
			i := index[runner]
			out.Series[i] = append(out.Series[i], IndexPoint{Leg: leg, Index: baseline / float64(own)})
		}
	}
	return out, nil
}

// MeanIndex averages a runner's series.
func MeanIndex(points []IndexPoint) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range points {
		sum += p.Index
	}
	return sum / float64(len(points)), true
}
