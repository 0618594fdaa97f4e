// Package stats derives comparative statistics from race results.
package stats

import (
	"errors"
	"fmt"

	"osplits/internal/domain"
)

// ControlLeader is the fastest cumulative split at one control.
type ControlLeader struct {
	Control int             `json:"control"`
	Name    string          `json:"name"`
	Split   domain.Duration `json:"split"`
}

// LeaderPoint is one runner's deficit to the leader at a control.
type LeaderPoint struct {
	Control int             `json:"control"`
	Leader  domain.Duration `json:"leader"`
	Behind  domain.Duration `json:"behind"`
}

// BehindLeader holds, for each runner of the race in race order, the series
// of deficits at every control the runner reached with a ranked split.
// Starts are treated as simultaneous. A runner whose split is shorter than
// the rank-1 split gets no point at that control.
type BehindLeader struct {
	Leaders []ControlLeader
	Series  [][]LeaderPoint
}

func TimeBehindLeader(race *domain.Race) (*BehindLeader, error) {
	runners := race.Runners()
	index := make(map[*domain.Runner]int, len(runners))
	for i, r := range runners {
		index[r] = i
	}

	out := &BehindLeader{Series: make([][]LeaderPoint, len(runners))}
	for control := 1; control <= race.Controls(); control++ {
		order, err := race.OrderAtControl(control)
		if errors.Is(err, domain.ErrEmptyRanking) {
			continue
		}
		if err != nil {
			return nil, err
		}

		fastest := order[0].Splits[control-1].Time
		out.Leaders = append(out.Leaders, ControlLeader{Control: control, Name: order[0].Name, Split: fastest})

		for _, runner := range order {
			behind, err := runner.Splits[control-1].Time.Sub(fastest)
			if errors.Is(err, domain.ErrNegativeDuration) {
				// ranked behind the leader on a shorter split; no deficit to report
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to compute deficit of %q at control %d: %w", runner.Name, control, err)
			}
			i := index[runner]
			out.Series[i] = append(out.Series[i], LeaderPoint{Control: control, Leader: fastest, Behind: behind})
		}
	}
	return out, nil
}
