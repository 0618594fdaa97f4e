package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ranked(t *testing.T, seconds, rank int) TimeRank {
	return TimeRank{Time: secs(t, seconds), HasTime: true, Rank: rank, HasRank: true}
}

func newTestRunner(name string, legs, splits []TimeRank) *Runner {
	return NewRunner(name, TimeRank{}, legs, splits, nil, threeLegCourse())
}

func TestAddRunnerFixesControlCount(t *testing.T) {
	race := NewRace("test")
	cells := []TimeRank{{}, {}, {}}
	require.NoError(t, race.AddRunner(newTestRunner("a", cells, cells)))
	require.Equal(t, 3, race.Controls())

	short := []TimeRank{{}, {}}
	err := race.AddRunner(newTestRunner("b", short, short))
	require.ErrorIs(t, err, ErrControlCountMismatch)
	require.Len(t, race.Runners(), 1)
}

func TestAddRunnerRejectsLegSplitDisagreement(t *testing.T) {
	race := NewRace("test")
	err := race.AddRunner(newTestRunner("a", []TimeRank{{}, {}}, []TimeRank{{}}))
	require.ErrorIs(t, err, ErrControlCountMismatch)
}

func legRace(t *testing.T) *Race {
	race := NewRace("test")
	require.NoError(t, race.AddRunner(newTestRunner("second",
		[]TimeRank{ranked(t, 50, 2)}, []TimeRank{ranked(t, 50, 2)})))
	require.NoError(t, race.AddRunner(newTestRunner("first",
		[]TimeRank{ranked(t, 40, 1)}, []TimeRank{ranked(t, 40, 1)})))
	require.NoError(t, race.AddRunner(newTestRunner("absent",
		[]TimeRank{{}}, []TimeRank{{}})))
	return race
}

func TestOrderOnLegDropsUnranked(t *testing.T) {
	order, err := legRace(t).OrderOnLeg(1)
	require.NoError(t, err)
	require.Len(t, order, 2)
	require.Equal(t, "first", order[0].Name)
	require.Equal(t, "second", order[1].Name)
}

func TestOrderIsStableOnTies(t *testing.T) {
	race := NewRace("test")
	for _, name := range []string{"x", "y", "z"} {
		require.NoError(t, race.AddRunner(newTestRunner(name,
			[]TimeRank{ranked(t, 40, 1)}, []TimeRank{ranked(t, 40, 1)})))
	}
	order, err := race.OrderAtControl(1)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "z"}, []string{order[0].Name, order[1].Name, order[2].Name})
}

func TestOrderFailsWhenNobodyRanked(t *testing.T) {
	race := NewRace("test")
	require.NoError(t, race.AddRunner(newTestRunner("a", []TimeRank{{}}, []TimeRank{{}})))

	_, err := race.OrderOnLeg(1)
	require.ErrorIs(t, err, ErrEmptyRanking)
	_, err = race.OrderAtControl(1)
	require.ErrorIs(t, err, ErrEmptyRanking)
}

func TestOrderRejectsUnknownIDs(t *testing.T) {
	race := legRace(t)
	_, err := race.OrderOnLeg(2)
	require.ErrorIs(t, err, ErrUnknownLeg)
	_, err = race.OrderAtControl(0)
	require.ErrorIs(t, err, ErrUnknownControl)
}

func TestTimeLostOnLeg(t *testing.T) {
	losses, err := legRace(t).TimeLostOnLeg(1)
	require.NoError(t, err)
	require.Len(t, losses, 2)

	require.Equal(t, "first", losses[0].Name)
	require.True(t, losses[0].Lost.Equal(Duration{}))
	require.Equal(t, "second", losses[1].Name)
	require.True(t, losses[1].Lost.Equal(secs(t, 10)))
}

func TestTimeLostOnLegRejectsRanksThatContradictTimes(t *testing.T) {
	race := NewRace("test")
	require.NoError(t, race.AddRunner(newTestRunner("ranked first",
		[]TimeRank{ranked(t, 50, 1)}, []TimeRank{ranked(t, 50, 1)})))
	require.NoError(t, race.AddRunner(newTestRunner("quicker",
		[]TimeRank{ranked(t, 45, 2)}, []TimeRank{ranked(t, 45, 2)})))

	_, err := race.TimeLostOnLeg(1)
	require.ErrorIs(t, err, ErrNegativeDuration)
}

func TestBaselineBookkeeping(t *testing.T) {
	race := legRace(t)
	_, ok := race.Baseline(1)
	require.False(t, ok)

	require.NoError(t, race.SetBaseline(1, 42.5))
	v, ok := race.Baseline(1)
	require.True(t, ok)
	require.Equal(t, 42.5, v)
	require.ErrorIs(t, race.SetBaseline(9, 1), ErrUnknownLeg)
}

func TestFinishersOrderedByFinishTime(t *testing.T) {
	course := threeLegCourse()
	full := func(total int) []Punch {
		return []Punch{
			{From: 0, To: 101, Leg: secs(t, 10), Split: secs(t, 10)},
			{From: 101, To: 102, Leg: secs(t, 10), Split: secs(t, 20)},
			{From: 102, To: FinishControl, Leg: secs(t, total-20), Split: secs(t, total)},
		}
	}
	cells := []TimeRank{{}, {}, {}}
	race := NewRace("test")
	require.NoError(t, race.AddRunner(NewRunner("slow", TimeRank{}, cells, cells, full(300), course)))
	require.NoError(t, race.AddRunner(NewRunner("dnf", TimeRank{}, cells, cells, full(300)[:2], course)))
	require.NoError(t, race.AddRunner(NewRunner("fast", TimeRank{}, cells, cells, full(200), course)))

	finishers := race.Finishers()
	require.Len(t, finishers, 2)
	require.Equal(t, "fast", finishers[0].Name)
	require.Equal(t, "slow", finishers[1].Name)
}
