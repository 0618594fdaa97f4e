package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"osplits/internal/constants"
	"osplits/internal/db"
	"osplits/internal/domain"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// StoredRace is an imported results table as it was scraped.
type StoredRace struct {
	ID        string
	Slug      string
	CreatedAt time.Time
	Input     *domain.RaceInput
}

type RaceSummary struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	EventName  string    `json:"event_name"`
	CourseName string    `json:"course_name"`
	Runners    int       `json:"runners"`
	CreatedAt  time.Time `json:"created_at"`
}

type RaceRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewRaceRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *RaceRepository {
	return &RaceRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Save stores the raw input of a race under a fresh id and a unique slug.
func (r *RaceRepository) Save(ctx context.Context, input *domain.RaceInput) (*StoredRace, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}
	labels, err := json.Marshal(input.CourseLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode course labels: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	raceSlug, err := uniqueSlug(ctx, qtx, input.EventName, input.CourseName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = qtx.InsertRace(ctx, db.InsertRaceParams{
		ID:           id,
		Slug:         raceSlug,
		EventName:    input.EventName,
		CourseName:   input.CourseName,
		Source:       input.Source,
		CourseLabels: string(labels),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert race %s: %w", id, err)
	}

	for i, runner := range input.Runners {
		legs, err := json.Marshal(runner.Legs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode legs of %q: %w", runner.Name, err)
		}
		splits, err := json.Marshal(runner.Splits)
		if err != nil {
			return nil, fmt.Errorf("failed to encode splits of %q: %w", runner.Name, err)
		}
		err = qtx.InsertRaceRunner(ctx, db.InsertRaceRunnerParams{
			RaceID:   id,
			Position: int64(i),
			Name:     runner.Name,
			RankText: runner.RankText,
			TimeText: runner.TimeText,
			Legs:     string(legs),
			Splits:   string(splits),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to insert runner %q of race %s: %w", runner.Name, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit race %s: %w", id, err)
	}

	r.logger.Debug().
		Str("race_id", id).
		Str("slug", raceSlug).
		Int("runners", len(input.Runners)).
		Msg("race stored")

	return &StoredRace{ID: id, Slug: raceSlug, CreatedAt: now, Input: input}, nil
}

// Get loads a race by id or slug.
func (r *RaceRepository) Get(ctx context.Context, idOrSlug string) (*StoredRace, error) {
	race, err := r.queries.GetRace(ctx, idOrSlug)
	if errors.Is(err, sql.ErrNoRows) {
		id, slugErr := r.queries.GetRaceIDBySlug(ctx, idOrSlug)
		if errors.Is(slugErr, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRaceNotFound, idOrSlug)
		}
		if slugErr != nil {
			return nil, slugErr
		}
		race, err = r.queries.GetRace(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	input := &domain.RaceInput{
		EventName:  race.EventName,
		CourseName: race.CourseName,
		Source:     race.Source,
	}
	if err := json.Unmarshal([]byte(race.CourseLabels), &input.CourseLabels); err != nil {
		return nil, fmt.Errorf("failed to decode course labels of race %s: %w", race.ID, err)
	}

	rows, err := r.queries.ListRaceRunners(ctx, race.ID)
	if err != nil {
		return nil, err
	}
	input.Runners = make([]domain.RawRunner, len(rows))
	for i, row := range rows {
		runner := domain.RawRunner{
			Name:     row.Name,
			RankText: row.RankText,
			TimeText: row.TimeText,
		}
		if err := json.Unmarshal([]byte(row.Legs), &runner.Legs); err != nil {
			return nil, fmt.Errorf("failed to decode legs of %q: %w", row.Name, err)
		}
		if err := json.Unmarshal([]byte(row.Splits), &runner.Splits); err != nil {
			return nil, fmt.Errorf("failed to decode splits of %q: %w", row.Name, err)
		}
		input.Runners[i] = runner
	}

	return &StoredRace{ID: race.ID, Slug: race.Slug, CreatedAt: race.CreatedAt, Input: input}, nil
}

func (r *RaceRepository) List(ctx context.Context, limit int) ([]RaceSummary, error) {
	rows, err := r.queries.ListRaces(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	result := make([]RaceSummary, len(rows))
	for i, row := range rows {
		result[i] = RaceSummary{
			ID:         row.ID,
			Slug:       row.Slug,
			EventName:  row.EventName,
			CourseName: row.CourseName,
			Runners:    int(row.RunnerCount),
			CreatedAt:  row.CreatedAt,
		}
	}
	return result, nil
}

// Delete removes a race by id or slug and reports the id it removed.
func (r *RaceRepository) Delete(ctx context.Context, idOrSlug string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	id, err := resolveID(ctx, qtx, idOrSlug)
	if err != nil {
		return "", err
	}
	if err := qtx.DeleteRaceRunners(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete runners of race %s: %w", id, err)
	}
	affected, err := qtx.DeleteRace(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to delete race %s: %w", id, err)
	}
	if affected == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrRaceNotFound, idOrSlug)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit delete of race %s: %w", id, err)
	}
	return id, nil
}

// resolveID maps a slug to its race id. Anything that is not a known slug
// is taken to be an id.
func resolveID(ctx context.Context, q *db.Queries, idOrSlug string) (string, error) {
	id, err := q.GetRaceIDBySlug(ctx, idOrSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return idOrSlug, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve race %q: %w", idOrSlug, err)
	}
	return id, nil
}

func uniqueSlug(ctx context.Context, q *db.Queries, eventName, courseName string) (string, error) {
	base := slug.Make(strings.TrimSpace(eventName + " " + courseName))
	if base == "" {
		base = "race"
	}
	if len(base) > constants.SlugMaxLength {
		base = strings.TrimRight(base[:constants.SlugMaxLength], "-")
	}

	candidate := base
	for n := 2; ; n++ {
		_, err := q.GetRaceIDBySlug(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
