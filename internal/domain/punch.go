package domain

import "fmt"

// Punch is one reconstructed movement between two controls. Leg is the time
// spent on the movement, Split the cumulative time from the start.
type Punch struct {
	From  int      `json:"from"`
	To    int      `json:"to"`
	Leg   Duration `json:"leg"`
	Split Duration `json:"split"`
}

func (p Punch) Path() Leg {
	return Leg{From: p.From, To: p.To}
}

func (p Punch) String() string {
	switch {
	case p.From == StartControl:
		return fmt.Sprintf("Start -> %d: %s", p.To, p.Leg)
	case p.To == FinishControl:
		return fmt.Sprintf("%d > Finish: %s", p.From, p.Leg)
	default:
		return fmt.Sprintf("%d ---> %d: %s", p.From, p.To, p.Leg)
	}
}
