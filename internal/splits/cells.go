package splits

import (
	"strconv"
	"strings"

	"osplits/internal/domain"
)

// ParseRank reads a placement cell such as "(3)" or "3". Anything else,
// including "-" and empty cells, is absent.
func ParseRank(text string) (int, bool) {
	text = strings.Trim(strings.TrimSpace(text), "()")
	rank, err := strconv.Atoi(text)
	if err != nil || rank < 1 {
		return 0, false
	}
	return rank, true
}

func ParseCell(cell domain.RawCell) domain.TimeRank {
	var tr domain.TimeRank
	tr.Time, tr.HasTime = domain.ParseDuration(cell.TimeText)
	tr.Rank, tr.HasRank = ParseRank(cell.RankText)
	return tr
}

func ParseCells(cells []domain.RawCell) []domain.TimeRank {
	out := make([]domain.TimeRank, len(cells))
	for i, cell := range cells {
		out[i] = ParseCell(cell)
	}
	return out
}
