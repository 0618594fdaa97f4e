package service

import (
	"fmt"

	"osplits/internal/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// NewCacheJanitor returns a scheduler that evicts expired analyses every
// CacheEvictionInterval. The caller starts and shuts it down.
func NewCacheJanitor(cache *Cache, logger zerolog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(constants.CacheEvictionInterval),
		gocron.NewTask(func() {
			evicted := cache.EvictExpired()
			if evicted > 0 {
				logger.Debug().Int("evicted", evicted).Int("remaining", cache.Len()).Msg("analysis cache swept")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule cache eviction: %w", err)
	}
	return sched, nil
}
