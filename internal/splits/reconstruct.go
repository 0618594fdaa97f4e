package splits

import (
	"fmt"

	"osplits/internal/domain"
)

// Reconstruct walks the course in order and turns per-position leg and split
// cells into punches:
//   - leg and split present: a punch for the course leg at that position;
//   - split only: the runner skipped controls, so one punch bridges from the
//     last accepted punch to this position's control;
//   - no split: the control was missed and nothing is emitted.
//
// The result may be shorter than the course.
func Reconstruct(course *domain.Course, legs, splits []domain.TimeRank) ([]domain.Punch, error) {
	if len(legs) != len(splits) {
		return nil, fmt.Errorf("%w: %d legs and %d splits", domain.ErrControlCountMismatch, len(legs), len(splits))
	}
	if len(legs) != len(course.Legs) {
		return nil, fmt.Errorf("%w: %d timed legs for a %d leg course", domain.ErrControlCountMismatch, len(legs), len(course.Legs))
	}

	punches := make([]domain.Punch, 0, len(course.Legs))
	for i, def := range course.Legs {
		leg, split := legs[i], splits[i]
		switch {
		case !split.HasTime:
			continue
		case leg.HasTime:
			punches = append(punches, domain.Punch{From: def.From, To: def.To, Leg: leg.Time, Split: split.Time})
		default:
			if len(punches) == 0 {
				return nil, fmt.Errorf("%w: split without leg time at control %d", domain.ErrNoPriorPunch, i+1)
			}
			prev := punches[len(punches)-1]
			elapsed, err := split.Time.Sub(prev.Split)
			if err != nil {
				return nil, fmt.Errorf("failed to bridge %d -> %d: %w", prev.To, def.To, err)
			}
			punches = append(punches, domain.Punch{From: prev.To, To: def.To, Leg: elapsed, Split: split.Time})
		}
	}
	return punches, nil
}

// BuildRunner parses a scraped runner and reconstructs its punches.
func BuildRunner(course *domain.Course, raw domain.RawRunner) (*domain.Runner, error) {
	legs := ParseCells(raw.Legs)
	splits := ParseCells(raw.Splits)

	punches, err := Reconstruct(course, legs, splits)
	if err != nil {
		return nil, err
	}

	var result domain.TimeRank
	result.Time, result.HasTime = domain.ParseDuration(raw.TimeText)
	result.Rank, result.HasRank = ParseRank(raw.RankText)

	return domain.NewRunner(raw.Name, result, legs, splits, punches, course), nil
}
