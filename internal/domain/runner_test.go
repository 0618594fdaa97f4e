package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func secs(t *testing.T, n int) Duration {
	t.Helper()
	d, err := DurationFromSeconds(n)
	require.NoError(t, err)
	return d
}

func threeLegCourse() *Course {
	return &Course{Name: "Brown", Legs: []Leg{{0, 101}, {101, 102}, {102, FinishControl}}}
}

func TestRunnerWithFullPathFinishes(t *testing.T) {
	course := threeLegCourse()
	punches := []Punch{
		{From: 0, To: 101, Leg: secs(t, 60), Split: secs(t, 60)},
		{From: 101, To: 102, Leg: secs(t, 90), Split: secs(t, 150)},
		{From: 102, To: FinishControl, Leg: secs(t, 30), Split: secs(t, 180)},
	}

	r := NewRunner("Ann", TimeRank{}, nil, nil, punches, course)
	require.True(t, r.VerifyCourse())
	require.True(t, r.Finished())
	finish, ok := r.FinishTime()
	require.True(t, ok)
	require.True(t, finish.Equal(secs(t, 180)))
}

func TestRunnerMissingLegDoesNotFinish(t *testing.T) {
	course := threeLegCourse()
	punches := []Punch{
		{From: 0, To: 101, Leg: secs(t, 60), Split: secs(t, 60)},
		{From: 101, To: FinishControl, Leg: secs(t, 120), Split: secs(t, 180)},
	}

	r := NewRunner("Bob", TimeRank{}, nil, nil, punches, course)
	require.False(t, r.Finished())
	_, ok := r.FinishTime()
	require.False(t, ok)
}

func TestRunnerOutOfOrderPathDoesNotFinish(t *testing.T) {
	course := threeLegCourse()
	punches := []Punch{
		{From: 101, To: 102, Leg: secs(t, 90), Split: secs(t, 90)},
		{From: 0, To: 101, Leg: secs(t, 60), Split: secs(t, 150)},
		{From: 102, To: FinishControl, Leg: secs(t, 30), Split: secs(t, 180)},
	}

	r := NewRunner("Cid", TimeRank{}, nil, nil, punches, course)
	require.False(t, r.Finished())
}

func TestRunnerWithoutPunchesDoesNotFinish(t *testing.T) {
	r := NewRunner("Dee", TimeRank{}, nil, nil, nil, threeLegCourse())
	require.False(t, r.Finished())
}

func TestPunchString(t *testing.T) {
	require.Equal(t, "Start -> 101: 0:01:00", Punch{From: 0, To: 101, Leg: secs(t, 60)}.String())
	require.Equal(t, "102 > Finish: 0:00:30", Punch{From: 102, To: FinishControl, Leg: secs(t, 30)}.String())
	require.Equal(t, "101 ---> 102: 0:01:30", Punch{From: 101, To: 102, Leg: secs(t, 90)}.String())
}
