package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"osplits/internal/config"
	"osplits/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseWinSplits(t *testing.T) {
	f, err := os.Open("testdata/wiol7.html")
	require.NoError(t, err)
	defer f.Close()

	input, err := ParseWinSplits(f)
	require.NoError(t, err)

	require.Equal(t, "WIOL #7 - Brown", input.EventName)
	require.Equal(t, []string{"S-1 (101)", "1-2 (102)", "2-F"}, input.CourseLabels)
	require.Len(t, input.Runners, 3)

	ann := input.Runners[0]
	require.Equal(t, "Ann Smith", ann.Name)
	require.Equal(t, "1", ann.RankText)
	require.Equal(t, "12.30", ann.TimeText)
	require.Equal(t, []domain.RawCell{
		{TimeText: "4.00", RankText: "(1)"},
		{TimeText: "5.00", RankText: "(1)"},
		{TimeText: "3.30", RankText: "(1)"},
	}, ann.Legs)
	require.Equal(t, domain.RawCell{TimeText: "12.30", RankText: "(1)"}, ann.Splits[2])

	cy := input.Runners[2]
	require.Equal(t, "mp", cy.TimeText)
	require.Equal(t, domain.RawCell{TimeText: "-"}, cy.Legs[1])
}

func TestParseWinSplitsRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no rows", `<html><body><p>nothing</p></body></html>`},
		{"unpaired runner row", `<table><tr><td>a</td></tr><tr><td>b</td></tr><tr><td>1</td><td>A</td><td>1.00</td><td></td><td>1.00</td><td>(1)</td><td></td></tr></table>`},
		{"odd leg cells", `<table><tr><td>a</td></tr><tr><td>b</td></tr>
			<tr><td>1</td><td>A</td><td>1.00</td><td></td><td>1.00</td><td></td></tr>
			<tr><td></td><td>1.00</td><td>(1)</td><td></td></tr></table>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWinSplits(strings.NewReader(tt.page))
			require.ErrorIs(t, err, ErrMalformedTable)
		})
	}
}

func TestFileSource(t *testing.T) {
	input, err := FileSource{Path: "testdata/wiol7.html", CourseName: "Brown"}.ProduceRaceInput(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Brown", input.CourseName)
	require.Equal(t, "file:testdata/wiol7.html", input.Source)

	_, err = FileSource{Path: "testdata/missing.html"}.ProduceRaceInput(context.Background())
	require.Error(t, err)
}

func TestWinSplitsClientFetch(t *testing.T) {
	page, err := os.ReadFile("testdata/wiol7.html")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiol7" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write(page)
	}))
	defer srv.Close()

	client := NewWinSplitsClient(&config.Config{FetchTimeout: 5 * time.Second, MaxUploadBytes: 1 << 20}, zerolog.Nop())

	src := URLSource{Client: client, URL: srv.URL + "/wiol7", CourseName: "Brown"}
	input, err := src.ProduceRaceInput(context.Background())
	require.NoError(t, err)
	require.Len(t, input.Runners, 3)
	require.Equal(t, "Brown", input.CourseName)
	require.Equal(t, srv.URL+"/wiol7", input.Source)

	_, err = client.Fetch(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "404")

	_, err = client.Fetch(context.Background(), "ftp://localhost/results")
	require.ErrorIs(t, err, ErrInvalidURL)
}
