package splits

import (
	"testing"

	"github.com/stretchr/testify/require"

	"osplits/internal/domain"
)

func TestBuildCourse(t *testing.T) {
	course, err := BuildCourse("Brown", []string{"S-1 (101)", "1-2 (145)", "2-3 (101)", "3-F"})
	require.NoError(t, err)
	require.Equal(t, "Brown", course.Name)
	require.Equal(t, []domain.Leg{
		{From: 0, To: 101},
		{From: 101, To: 145},
		{From: 145, To: 101},
		{From: 101, To: domain.FinishControl},
	}, course.Legs)
	require.Equal(t, 4, course.Controls())
}

func TestBuildCourseRejectsMalformedLabels(t *testing.T) {
	cases := map[string][]string{
		"gap":            {"S-1 (101)", "2-3 (102)", "3-F"},
		"out of order":   {"S-2 (101)", "2-1 (102)", "1-F"},
		"missing code":   {"S-1", "1-F"},
		"unparseable":    {"S-1 (101)", "Total", "1-F"},
		"no finish":      {"S-1 (101)", "1-2 (102)"},
		"after finish":   {"S-1 (101)", "1-F", "F-2 (103)"},
		"empty":          {},
		"zero leg label": {"S-0 (100)", "0-F"},
	}
	for name, labels := range cases {
		t.Run(name, func(t *testing.T) {
			course, err := BuildCourse("x", labels)
			require.ErrorIs(t, err, domain.ErrMalformedCourseDefinition)
			require.Nil(t, course)
		})
	}
}

func TestIsLegLabel(t *testing.T) {
	require.True(t, IsLegLabel("S-1 (101)"))
	require.True(t, IsLegLabel("12-F"))
	require.False(t, IsLegLabel("Name"))
	require.False(t, IsLegLabel("Time"))
}

func TestParseRank(t *testing.T) {
	rank, ok := ParseRank("(3)")
	require.True(t, ok)
	require.Equal(t, 3, rank)

	rank, ok = ParseRank(" 12 ")
	require.True(t, ok)
	require.Equal(t, 12, rank)

	for _, bad := range []string{"", "-", "()", "mp", "(0)"} {
		_, ok := ParseRank(bad)
		require.False(t, ok, bad)
	}
}
