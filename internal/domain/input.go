package domain

import "context"

// TimeRank is one results-table cell: a time and the runner's placement for
// it. Either half may be missing; a missing time is never a zero time.
type TimeRank struct {
	Time    Duration
	HasTime bool
	Rank    int
	HasRank bool
}

// Ranked reports whether the cell carries both a time and a placement.
func (tr TimeRank) Ranked() bool {
	return tr.HasTime && tr.HasRank
}

// RawCell is an unparsed (time, rank) pair as scraped.
type RawCell struct {
	TimeText string `json:"time"`
	RankText string `json:"rank"`
}

// RawRunner is one runner's row pair from the results table.
type RawRunner struct {
	Name     string    `json:"name"`
	RankText string    `json:"rank"`
	TimeText string    `json:"time"`
	Legs     []RawCell `json:"legs"`
	Splits   []RawCell `json:"splits"`
}

// RaceInput is everything the analysis needs from a results source.
type RaceInput struct {
	EventName    string      `json:"event_name"`
	CourseName   string      `json:"course_name"`
	CourseLabels []string    `json:"course_labels"`
	Runners      []RawRunner `json:"runners"`
	Source       string      `json:"source"`
}

// RaceSource produces raw race input, typically by scraping a results page.
type RaceSource interface {
	ProduceRaceInput(ctx context.Context) (*RaceInput, error)
}
