package domain

const (
	StartControl  = 0
	FinishControl = 999
)

// Leg is one required control-to-control movement of a course.
type Leg struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Course is shared read-only by every runner attempting it.
type Course struct {
	Name string `json:"name"`
	Legs []Leg  `json:"legs"`
}

// Controls is the number of timed controls, the finish included.
func (c *Course) Controls() int {
	return len(c.Legs)
}
