package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"osplits/internal/constants"
	"osplits/internal/domain"
	"osplits/internal/observability"
	"osplits/internal/splits"
	"osplits/internal/stats"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Analysis is a race built from stored input together with its derived
// statistics.
type Analysis struct {
	ID         string
	Slug       string
	EventName  string
	CourseName string
	Source     string
	CreatedAt  time.Time

	Course       *domain.Course
	Race         *domain.Race
	BehindLeader *stats.BehindLeader
	Performance  *stats.PerformanceIndexes
}

// Analyze builds the course, reconstructs every runner and computes both
// statistics. A course that cannot be built fails the whole race; a runner
// that cannot be reconstructed or admitted is excluded with its reason.
func Analyze(ctx context.Context, logger zerolog.Logger, input *domain.RaceInput) (analysis *Analysis, err error) {
	start := time.Now()
	defer func() { observability.RecordAnalysis(err, time.Since(start)) }()

	course, err := splits.BuildCourse(input.CourseName, input.CourseLabels)
	if err != nil {
		return nil, err
	}

	// the course is shared read-only; each worker owns its slot
	built := make([]*domain.Runner, len(input.Runners))
	failed := make([]error, len(input.Runners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ReconstructWorkers)
	for i, raw := range input.Runners {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			built[i], failed[i] = splits.BuildRunner(course, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to reconstruct runners: %w", err)
	}

	race := domain.NewRace(raceName(input))
	for i, raw := range input.Runners {
		reason := failed[i]
		if reason == nil {
			reason = race.AddRunner(built[i])
		}
		if reason != nil {
			race.Exclude(raw.Name, reason)
			logger.Debug().Err(reason).Str("runner", raw.Name).Msg("runner excluded")
		}
	}

	behind, err := stats.TimeBehindLeader(race)
	if err != nil {
		return nil, fmt.Errorf("failed to compute time behind leader: %w", err)
	}
	performance, err := stats.PerformanceIndex(race)
	if err != nil {
		return nil, fmt.Errorf("failed to compute performance index: %w", err)
	}

	logger.Info().
		Str("race", race.Name).
		Int("runners", len(race.Runners())).
		Int("excluded", len(race.Excluded())).
		Int("controls", race.Controls()).
		Dur("elapsed", time.Since(start)).
		Msg("race analyzed")

	return &Analysis{
		EventName:    input.EventName,
		CourseName:   input.CourseName,
		Source:       input.Source,
		Course:       course,
		Race:         race,
		BehindLeader: behind,
		Performance:  performance,
	}, nil
}

// recordAdmissions counts a newly imported race's admitted and excluded
// runners. Rebuilding a stored race must not count them again.
func recordAdmissions(race *domain.Race) {
	observability.RecordRunnersAccepted(len(race.Runners()))
	for _, ex := range race.Excluded() {
		observability.RecordRunnerExcluded(exclusionLabel(ex.Reason))
	}
}

func raceName(input *domain.RaceInput) string {
	switch {
	case input.CourseName == "":
		return input.EventName
	case input.EventName == "":
		return input.CourseName
	}
	return input.EventName + " / " + input.CourseName
}

func exclusionLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrControlCountMismatch):
		return "control_count_mismatch"
	case errors.Is(err, domain.ErrNoPriorPunch):
		return "no_prior_punch"
	case errors.Is(err, domain.ErrNegativeDuration):
		return "negative_duration"
	}
	return "other"
}
