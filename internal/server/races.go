// Package server exposes race imports and analyses over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"osplits/internal/api"
	"osplits/internal/config"
	"osplits/internal/domain"
	"osplits/internal/middleware"
	"osplits/internal/service"
	"osplits/internal/stats"

	"github.com/rs/zerolog"
)

var errBadRequest = errors.New("bad request")

type RaceServer struct {
	svc       *service.RaceService
	maxUpload int64
	logger    zerolog.Logger
}

func NewRaceServer(svc *service.RaceService, cfg *config.Config, logger zerolog.Logger) *RaceServer {
	return &RaceServer{svc: svc, maxUpload: int64(cfg.MaxUploadBytes), logger: logger}
}

// Register mounts the race routes on mux.
func (s *RaceServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/races", s.importRace)
	mux.HandleFunc("GET /api/v1/races", s.listRaces)
	mux.HandleFunc("GET /api/v1/races/{id}", s.getRace)
	mux.HandleFunc("DELETE /api/v1/races/{id}", s.deleteRace)
	mux.HandleFunc("GET /api/v1/races/{id}/legs/{leg}/order", s.legOrder)
	mux.HandleFunc("GET /api/v1/races/{id}/legs/{leg}/time-lost", s.timeLost)
	mux.HandleFunc("GET /api/v1/races/{id}/controls/{control}/order", s.controlOrder)
	mux.HandleFunc("GET /api/v1/races/{id}/behind-leader", s.behindLeader)
	mux.HandleFunc("GET /api/v1/races/{id}/performance-index", s.performanceIndex)
}

// importRace accepts either a JSON body naming a results URL or the raw
// WinSplits page, with the course name in the "course" query parameter.
func (s *RaceServer) importRace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	var (
		analysis *service.Analysis
		err      error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req importRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, decodeErr))
			return
		}
		if req.URL == "" {
			s.writeError(w, r, fmt.Errorf("%w: url is required", errBadRequest))
			return
		}
		analysis, err = s.svc.ImportURL(r.Context(), req.URL, req.Course)
	} else {
		analysis, err = s.svc.Import(r.Context(), api.ReaderSource{
			Reader:     r.Body,
			CourseName: r.URL.Query().Get("course"),
			Source:     "upload",
		})
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/races/"+analysis.ID)
	s.writeJSON(w, http.StatusCreated, toRaceResponse(analysis))
}

func (s *RaceServer) listRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, races)
}

func (s *RaceServer) getRace(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, toRaceResponse(analysis))
}

func (s *RaceServer) deleteRace(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *RaceServer) legOrder(w http.ResponseWriter, r *http.Request) {
	leg, ok := s.pathInt(w, r, "leg")
	if !ok {
		return
	}
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	order, err := analysis.Race.OrderOnLeg(leg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orderResponse{
		Leg:     leg,
		Runners: toPlacings(order, func(rn *domain.Runner) domain.TimeRank { return rn.Legs[leg-1] }),
	})
}

func (s *RaceServer) controlOrder(w http.ResponseWriter, r *http.Request) {
	control, ok := s.pathInt(w, r, "control")
	if !ok {
		return
	}
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	order, err := analysis.Race.OrderAtControl(control)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orderResponse{
		Control: control,
		Runners: toPlacings(order, func(rn *domain.Runner) domain.TimeRank { return rn.Splits[control-1] }),
	})
}

func (s *RaceServer) timeLost(w http.ResponseWriter, r *http.Request) {
	leg, ok := s.pathInt(w, r, "leg")
	if !ok {
		return
	}
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	losses, err := analysis.Race.TimeLostOnLeg(leg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := timeLostResponse{Leg: leg, Losses: make([]lossDTO, len(losses))}
	for i, l := range losses {
		resp.Losses[i] = lossDTO{Name: l.Name, Rank: l.Rank, Time: l.Leg, Lost: l.Lost}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *RaceServer) behindLeader(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	resp := behindLeaderResponse{Leaders: analysis.BehindLeader.Leaders, Runners: []behindSeriesDTO{}}
	if resp.Leaders == nil {
		resp.Leaders = []stats.ControlLeader{}
	}
	for i, runner := range analysis.Race.Runners() {
		points := analysis.BehindLeader.Series[i]
		if points == nil {
			points = []stats.LeaderPoint{}
		}
		resp.Runners = append(resp.Runners, behindSeriesDTO{Name: runner.Name, Points: points})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *RaceServer) performanceIndex(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.analysis(w, r)
	if !ok {
		return
	}
	resp := performanceResponse{Baselines: analysis.Performance.Baselines, Runners: []indexSeriesDTO{}}
	if resp.Baselines == nil {
		resp.Baselines = []stats.LegBaseline{}
	}
	for i, runner := range analysis.Race.Runners() {
		series := indexSeriesDTO{Name: runner.Name, Points: analysis.Performance.Series[i]}
		if mean, ok := stats.MeanIndex(series.Points); ok {
			series.Mean = &mean
		}
		if series.Points == nil {
			series.Points = []stats.IndexPoint{}
		}
		resp.Runners = append(resp.Runners, series)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *RaceServer) analysis(w http.ResponseWriter, r *http.Request) (*service.Analysis, bool) {
	analysis, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return analysis, true
}

func (s *RaceServer) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %s must be a number", errBadRequest, name))
		return 0, false
	}
	return n, true
}

func (s *RaceServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write response")
	}
}

func (s *RaceServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(r.Context())})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrRaceNotFound),
		errors.Is(err, domain.ErrUnknownLeg),
		errors.Is(err, domain.ErrUnknownControl):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyRanking),
		errors.Is(err, domain.ErrMalformedCourseDefinition),
		errors.Is(err, domain.ErrControlCountMismatch),
		errors.Is(err, domain.ErrNegativeDuration):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, api.ErrMalformedTable),
		errors.Is(err, api.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
