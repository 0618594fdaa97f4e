package domain

import (
	"fmt"
	"sort"
)

// Exclusion records a runner that could not be admitted to the results.
type Exclusion struct {
	Name   string
	Reason error
}

// LegLoss is the time a runner gave away on a leg against the fastest runner.
type LegLoss struct {
	Name string
	Rank int
	Leg  Duration
	Lost Duration
}

// Race holds the results of every runner on one course.
type Race struct {
	Name string

	runners  []*Runner
	controls int
	sized    bool
	excluded []Exclusion

	// performance-index baseline per leg, index 0 is leg 1
	baselines   []float64
	hasBaseline []bool
}

func NewRace(name string) *Race {
	return &Race{Name: name}
}

// AddRunner appends a runner. The first runner fixes the control count;
// later runners must match it.
func (r *Race) AddRunner(runner *Runner) error {
	if len(runner.Splits) != len(runner.Legs) {
		return fmt.Errorf("%w: runner %q has %d legs and %d splits",
			ErrControlCountMismatch, runner.Name, len(runner.Legs), len(runner.Splits))
	}
	if !r.sized {
		r.controls = len(runner.Legs)
		r.sized = true
		r.baselines = make([]float64, r.controls)
		r.hasBaseline = make([]bool, r.controls)
	} else if len(runner.Legs) != r.controls {
		return fmt.Errorf("%w: runner %q has %d controls, race has %d",
			ErrControlCountMismatch, runner.Name, len(runner.Legs), r.controls)
	}
	r.runners = append(r.runners, runner)
	return nil
}

// Exclude records a runner left out of the results and why.
func (r *Race) Exclude(name string, reason error) {
	r.excluded = append(r.excluded, Exclusion{Name: name, Reason: reason})
}

func (r *Race) Excluded() []Exclusion {
	return append([]Exclusion(nil), r.excluded...)
}

// Runners returns the runners in the order they were added.
func (r *Race) Runners() []*Runner {
	return append([]*Runner(nil), r.runners...)
}

func (r *Race) Controls() int {
	return r.controls
}

// OrderOnLeg returns the runners ranked on leg (1-based), fastest first.
// Runners without a ranked time on the leg are left out.
func (r *Race) OrderOnLeg(leg int) ([]*Runner, error) {
	if leg < 1 || leg > r.controls {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLeg, leg)
	}
	return r.order(fmt.Sprintf("leg %d", leg), func(runner *Runner) TimeRank {
		return runner.Legs[leg-1]
	})
}

// OrderAtControl returns the runners ranked by cumulative split at control
// (1-based), fastest first.
func (r *Race) OrderAtControl(control int) ([]*Runner, error) {
	if control < 1 || control > r.controls {
		return nil, fmt.Errorf("%w: %d", ErrUnknownControl, control)
	}
	return r.order(fmt.Sprintf("control %d", control), func(runner *Runner) TimeRank {
		return runner.Splits[control-1]
	})
}

func (r *Race) order(what string, cell func(*Runner) TimeRank) ([]*Runner, error) {
	ranked := make([]*Runner, 0, len(r.runners))
	for _, runner := range r.runners {
		if cell(runner).Ranked() {
			ranked = append(ranked, runner)
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRanking, what)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return cell(ranked[i]).Rank < cell(ranked[j]).Rank
	})
	return ranked, nil
}

// TimeLostOnLeg lists every ranked runner's deficit on leg against the
// rank-1 runner, fastest first.
func (r *Race) TimeLostOnLeg(leg int) ([]LegLoss, error) {
	order, err := r.OrderOnLeg(leg)
	if err != nil {
		return nil, err
	}
	fastest := order[0].Legs[leg-1].Time
	losses := make([]LegLoss, 0, len(order))
	for _, runner := range order {
		cell := runner.Legs[leg-1]
		lost, err := cell.Time.Sub(fastest)
		if err != nil {
			return nil, fmt.Errorf("failed to compute time lost by %q on leg %d: %w", runner.Name, leg, err)
		}
		losses = append(losses, LegLoss{Name: runner.Name, Rank: cell.Rank, Leg: cell.Time, Lost: lost})
	}
	return losses, nil
}

func (r *Race) SetBaseline(leg int, seconds float64) error {
	if leg < 1 || leg > r.controls {
		return fmt.Errorf("%w: %d", ErrUnknownLeg, leg)
	}
	r.baselines[leg-1] = seconds
	r.hasBaseline[leg-1] = true
	return nil
}

// Baseline returns the performance-index baseline for leg in seconds, if it
// has been computed.
func (r *Race) Baseline(leg int) (float64, bool) {
	if leg < 1 || leg > r.controls || !r.hasBaseline[leg-1] {
		return 0, false
	}
	return r.baselines[leg-1], true
}

// Finishers returns the runners who completed the course, ordered by finish
// time. Ties keep insertion order.
func (r *Race) Finishers() []*Runner {
	var finishers []*Runner
	for _, runner := range r.runners {
		if runner.Finished() {
			finishers = append(finishers, runner)
		}
	}
	sort.SliceStable(finishers, func(i, j int) bool {
		a, _ := finishers[i].FinishTime()
		b, _ := finishers[j].FinishTime()
		return a.Less(b)
	})
	return finishers
}
