package domain

// Runner is one competitor's result on a course. Finished and the finish
// time are derived once in NewRunner and never change afterwards.
type Runner struct {
	Name    string
	Result  TimeRank
	Legs    []TimeRank
	Splits  []TimeRank
	Punches []Punch
	Course  *Course

	finished   bool
	finishTime Duration
}

// NewRunner takes ownership of legs, splits and punches.
func NewRunner(name string, result TimeRank, legs, splits []TimeRank, punches []Punch, course *Course) *Runner {
	r := &Runner{
		Name:    name,
		Result:  result,
		Legs:    legs,
		Splits:  splits,
		Punches: punches,
		Course:  course,
	}
	r.finished = r.VerifyCourse()
	if r.finished {
		r.finishTime = punches[len(punches)-1].Split
	}
	return r
}

func (r *Runner) Finished() bool {
	return r.finished
}

// FinishTime is the split of the last punch; ok is false for runners who
// did not complete the course.
func (r *Runner) FinishTime() (Duration, bool) {
	return r.finishTime, r.finished
}

// Path lists the (from, to) pairs of the runner's punches in order.
func (r *Runner) Path() []Leg {
	path := make([]Leg, len(r.Punches))
	for i, p := range r.Punches {
		path[i] = p.Path()
	}
	return path
}

// VerifyCourse reports whether every course leg appears on the runner's path
// in course order and the path has exactly as many legs as the course.
func (r *Runner) VerifyCourse() bool {
	if r.Course == nil || len(r.Course.Legs) == 0 {
		return false
	}
	path := r.Path()
	next := 0
	for _, required := range r.Course.Legs {
		found := false
		for next < len(path) {
			hop := path[next]
			next++
			if hop == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return len(path) == len(r.Course.Legs)
}

// Leg returns the cell for leg n, counted from 1.
func (r *Runner) Leg(n int) (TimeRank, bool) {
	if n < 1 || n > len(r.Legs) {
		return TimeRank{}, false
	}
	return r.Legs[n-1], true
}

// Split returns the cell for control n, counted from 1.
func (r *Runner) Split(n int) (TimeRank, bool) {
	if n < 1 || n > len(r.Splits) {
		return TimeRank{}, false
	}
	return r.Splits[n-1], true
}
