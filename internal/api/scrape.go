// Package api reads WinSplits results tables, from disk or over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"osplits/internal/domain"
	"osplits/internal/splits"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrMalformedTable = errors.New("malformed results table")
	ErrInvalidURL     = errors.New("invalid results url")
)

// Each runner takes two table rows: the first carries rank, name, time and
// the time behind the winner followed by leg pairs, the second the split
// pairs between a leading and a trailing filler cell.
const (
	headerRows    = 2
	rowsPerRunner = 2
	resultCells   = 4
)

// ParseWinSplits extracts race input from a WinSplits "table" view page.
func ParseWinSplits(r io.Reader) (*domain.RaceInput, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var rows [][]string
	var title string
	walk(doc, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.Title:
			if title == "" {
				title = strings.TrimSpace(textOf(n))
			}
			return false
		case atom.Tr:
			rows = append(rows, rowCells(n))
			return false
		}
		return true
	})

	if len(rows) < headerRows {
		return nil, fmt.Errorf("%w: %d rows, need at least %d header rows", ErrMalformedTable, len(rows), headerRows)
	}
	body := rows[headerRows:]
	if len(body)%rowsPerRunner != 0 {
		return nil, fmt.Errorf("%w: runner rows do not come in pairs", ErrMalformedTable)
	}

	input := &domain.RaceInput{EventName: title}
	for _, cell := range rows[1] {
		if splits.IsLegLabel(cell) {
			input.CourseLabels = append(input.CourseLabels, cell)
		}
	}

	for i := 0; i < len(body); i += rowsPerRunner {
		runner, err := scrapeRunner(body[i], body[i+1])
		if err != nil {
			return nil, fmt.Errorf("runner rows %d-%d: %w", headerRows+i+1, headerRows+i+2, err)
		}
		input.Runners = append(input.Runners, runner)
	}
	return input, nil
}

func scrapeRunner(first, second []string) (domain.RawRunner, error) {
	if len(first) < resultCells+1 || len(second) < 2 {
		return domain.RawRunner{}, fmt.Errorf("%w: too few cells", ErrMalformedTable)
	}
	legs, err := pairs(first[resultCells : len(first)-1])
	if err != nil {
		return domain.RawRunner{}, err
	}
	cumulative, err := pairs(second[1 : len(second)-1])
	if err != nil {
		return domain.RawRunner{}, err
	}
	return domain.RawRunner{
		RankText: first[0],
		Name:     first[1],
		TimeText: first[2],
		Legs:     legs,
		Splits:   cumulative,
	}, nil
}

func pairs(cells []string) ([]domain.RawCell, error) {
	if len(cells)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of time/rank cells", ErrMalformedTable)
	}
	out := make([]domain.RawCell, 0, len(cells)/2)
	for i := 0; i < len(cells); i += 2 {
		out = append(out, domain.RawCell{TimeText: cells[i], RankText: cells[i+1]})
	}
	return out, nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, strings.TrimSpace(textOf(c)))
		}
	}
	return cells
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// walk visits n and its descendants depth first; visit returns false to skip
// a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// FileSource reads a saved WinSplits page.
type FileSource struct {
	Path       string
	CourseName string
}

func (s FileSource) ProduceRaceInput(ctx context.Context) (*domain.RaceInput, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results page: %w", err)
	}
	defer f.Close()

	input, err := ParseWinSplits(f)
	if err != nil {
		return nil, err
	}
	input.CourseName = s.CourseName
	input.Source = "file:" + s.Path
	return input, nil
}

// ReaderSource parses a page already in hand, such as an upload.
type ReaderSource struct {
	Reader     io.Reader
	CourseName string
	Source     string
}

func (s ReaderSource) ProduceRaceInput(ctx context.Context) (*domain.RaceInput, error) {
	input, err := ParseWinSplits(s.Reader)
	if err != nil {
		return nil, err
	}
	input.CourseName = s.CourseName
	input.Source = s.Source
	return input, nil
}
