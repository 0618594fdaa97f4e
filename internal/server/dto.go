package server

import (
	"time"

	"osplits/internal/domain"
	"osplits/internal/service"
	"osplits/internal/stats"
)

type importRequest struct {
	URL    string `json:"url"`
	Course string `json:"course"`
}

type legDTO struct {
	Leg  int `json:"leg"`
	From int `json:"from"`
	To   int `json:"to"`
}

type runnerDTO struct {
	Name       string           `json:"name"`
	Rank       *int             `json:"rank,omitempty"`
	Time       *domain.Duration `json:"time,omitempty"`
	Finished   bool             `json:"finished"`
	FinishTime *domain.Duration `json:"finish_time,omitempty"`
	Punches    []string         `json:"punches"`
}

type exclusionDTO struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type raceResponse struct {
	ID         string         `json:"id"`
	Slug       string         `json:"slug"`
	EventName  string         `json:"event_name"`
	CourseName string         `json:"course_name"`
	Source     string         `json:"source"`
	CreatedAt  time.Time      `json:"created_at"`
	Controls   int            `json:"controls"`
	Course     []legDTO       `json:"course"`
	Finishers  []runnerDTO    `json:"finishers"`
	Runners    []runnerDTO    `json:"runners"`
	Excluded   []exclusionDTO `json:"excluded"`
}

type placingDTO struct {
	Name string          `json:"name"`
	Rank int             `json:"rank"`
	Time domain.Duration `json:"time"`
}

type orderResponse struct {
	Leg     int          `json:"leg,omitempty"`
	Control int          `json:"control,omitempty"`
	Runners []placingDTO `json:"runners"`
}

type lossDTO struct {
	Name string          `json:"name"`
	Rank int             `json:"rank"`
	Time domain.Duration `json:"time"`
	Lost domain.Duration `json:"lost"`
}

type timeLostResponse struct {
	Leg    int       `json:"leg"`
	Losses []lossDTO `json:"losses"`
}

type behindSeriesDTO struct {
	Name   string              `json:"name"`
	Points []stats.LeaderPoint `json:"points"`
}

type behindLeaderResponse struct {
	Leaders []stats.ControlLeader `json:"leaders"`
	Runners []behindSeriesDTO     `json:"runners"`
}

type indexSeriesDTO struct {
	Name   string             `json:"name"`
	Mean   *float64           `json:"mean,omitempty"`
	Points []stats.IndexPoint `json:"points"`
}

type performanceResponse struct {
	Baselines []stats.LegBaseline `json:"baselines"`
	Runners   []indexSeriesDTO    `json:"runners"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func toRunnerDTO(r *domain.Runner) runnerDTO {
	dto := runnerDTO{Name: r.Name, Finished: r.Finished(), Punches: make([]string, len(r.Punches))}
	if r.Result.HasRank {
		rank := r.Result.Rank
		dto.Rank = &rank
	}
	if r.Result.HasTime {
		t := r.Result.Time
		dto.Time = &t
	}
	if finish, ok := r.FinishTime(); ok {
		dto.FinishTime = &finish
	}
	for i, p := range r.Punches {
		dto.Punches[i] = p.String()
	}
	return dto
}

func toRaceResponse(a *service.Analysis) raceResponse {
	resp := raceResponse{
		ID:         a.ID,
		Slug:       a.Slug,
		EventName:  a.EventName,
		CourseName: a.CourseName,
		Source:     a.Source,
		CreatedAt:  a.CreatedAt,
		Controls:   a.Race.Controls(),
		Course:     make([]legDTO, len(a.Course.Legs)),
		Finishers:  []runnerDTO{},
		Runners:    []runnerDTO{},
		Excluded:   []exclusionDTO{},
	}
	for i, leg := range a.Course.Legs {
		resp.Course[i] = legDTO{Leg: i + 1, From: leg.From, To: leg.To}
	}
	for _, r := range a.Race.Finishers() {
		resp.Finishers = append(resp.Finishers, toRunnerDTO(r))
	}
	for _, r := range a.Race.Runners() {
		resp.Runners = append(resp.Runners, toRunnerDTO(r))
	}
	for _, ex := range a.Race.Excluded() {
		resp.Excluded = append(resp.Excluded, exclusionDTO{Name: ex.Name, Reason: ex.Reason.Error()})
	}
	return resp
}

func toPlacings(runners []*domain.Runner, cell func(*domain.Runner) domain.TimeRank) []placingDTO {
	out := make([]placingDTO, len(runners))
	for i, r := range runners {
		c := cell(r)
		out[i] = placingDTO{Name: r.Name, Rank: c.Rank, Time: c.Time}
	}
	return out
}
