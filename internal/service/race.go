// Package service imports race results and serves their analyses.
package service

import (
	"context"
	"fmt"

	"osplits/internal/api"
	"osplits/internal/config"
	"osplits/internal/constants"
	"osplits/internal/domain"
	"osplits/internal/repository"

	"github.com/rs/zerolog"
)

type RaceService struct {
	repo   *repository.RaceRepository
	client *api.WinSplitsClient
	cache  *Cache
	logger zerolog.Logger
}

func NewRaceService(repo *repository.RaceRepository, client *api.WinSplitsClient, cache *Cache, logger zerolog.Logger) *RaceService {
	return &RaceService{repo: repo, client: client, cache: cache, logger: logger}
}

// NewCacheFromConfig sizes the analysis cache TTL from configuration.
func NewCacheFromConfig(cfg *config.Config) *Cache {
	return NewCache(cfg.CacheTTL)
}

// Import reads a race from source, analyzes it and stores its input. Input
// whose course cannot be built is rejected before anything is stored.
func (s *RaceService) Import(ctx context.Context, source domain.RaceSource) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.AnalysisTimeout)
	defer cancel()

	input, err := source.ProduceRaceInput(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read race input")
		return nil, err
	}

	analysis, err := Analyze(ctx, s.logger, input)
	if err != nil {
		s.logger.Warn().Err(err).Str("event", input.EventName).Msg("race rejected")
		return nil, err
	}

	stored, err := s.repo.Save(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("event", input.EventName).Msg("failed to store race")
		return nil, fmt.Errorf("failed to store race: %w", err)
	}
	analysis.ID = stored.ID
	analysis.Slug = stored.Slug
	analysis.CreatedAt = stored.CreatedAt
	recordAdmissions(analysis.Race)

	s.cache.Put(analysis)
	s.logger.Info().Str("race_id", stored.ID).Str("slug", stored.Slug).Msg("race imported")
	return analysis, nil
}

// ImportURL fetches a WinSplits page and imports it.
func (s *RaceService) ImportURL(ctx context.Context, url, courseName string) (*Analysis, error) {
	return s.Import(ctx, api.URLSource{Client: s.client, URL: url, CourseName: courseName})
}

// Get returns the analysis of a stored race, rebuilding it from the stored
// input when it is not cached.
func (s *RaceService) Get(ctx context.Context, idOrSlug string) (*Analysis, error) {
	if analysis, ok := s.cache.Get(idOrSlug); ok {
		s.logger.Debug().Str("race_id", analysis.ID).Msg("analysis cache hit")
		return analysis, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.AnalysisTimeout)
	defer cancel()

	stored, err := s.repo.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	analysis, err := Analyze(ctx, s.logger, stored.Input)
	if err != nil {
		s.logger.Error().Err(err).Str("race_id", stored.ID).Msg("stored race no longer analyzes")
		return nil, err
	}
	analysis.ID = stored.ID
	analysis.Slug = stored.Slug
	analysis.CreatedAt = stored.CreatedAt

	s.cache.Put(analysis)
	return analysis, nil
}

func (s *RaceService) List(ctx context.Context) ([]repository.RaceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx, constants.RaceListLimit)
}

// Delete removes a stored race, addressed by id or slug.
func (s *RaceService) Delete(ctx context.Context, idOrSlug string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := s.repo.Delete(ctx, idOrSlug)
	if err != nil {
		return err
	}
	s.cache.Remove(id)
	s.logger.Info().Str("race_id", id).Msg("race deleted")
	return nil
}
