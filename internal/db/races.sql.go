package db

import (
	"context"
	"time"
)

const insertRace = `
INSERT INTO races (id, slug, event_name, course_name, source, course_labels, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertRaceParams struct {
	ID           string
	Slug         string
	EventName    string
	CourseName   string
	Source       string
	CourseLabels string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) InsertRace(ctx context.Context, arg InsertRaceParams) error {
	_, err := q.db.ExecContext(ctx, insertRace,
		arg.ID,
		arg.Slug,
		arg.EventName,
		arg.CourseName,
		arg.Source,
		arg.CourseLabels,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const insertRaceRunner = `
INSERT INTO race_runners (race_id, position, name, rank_text, time_text, legs, splits)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertRaceRunnerParams struct {
	RaceID   string
	Position int64
	Name     string
	RankText string
	TimeText string
	Legs     string
	Splits   string
}

func (q *Queries) InsertRaceRunner(ctx context.Context, arg InsertRaceRunnerParams) error {
	_, err := q.db.ExecContext(ctx, insertRaceRunner,
		arg.RaceID,
		arg.Position,
		arg.Name,
		arg.RankText,
		arg.TimeText,
		arg.Legs,
		arg.Splits,
	)
	return err
}

const getRace = `
SELECT id, slug, event_name, course_name, source, course_labels, created_at, updated_at
FROM races
WHERE id = ?
`

func (q *Queries) GetRace(ctx context.Context, id string) (Race, error) {
	row := q.db.QueryRowContext(ctx, getRace, id)
	var i Race
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.EventName,
		&i.CourseName,
		&i.Source,
		&i.CourseLabels,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRaceIDBySlug = `
SELECT id FROM races WHERE slug = ?
`

func (q *Queries) GetRaceIDBySlug(ctx context.Context, slug string) (string, error) {
	row := q.db.QueryRowContext(ctx, getRaceIDBySlug, slug)
	var id string
	err := row.Scan(&id)
	return id, err
}

const listRaces = `
SELECT r.id, r.slug, r.event_name, r.course_name, r.created_at, COUNT(rr.position) AS runner_count
FROM races r
LEFT JOIN race_runners rr ON rr.race_id = r.id
GROUP BY r.id
ORDER BY r.created_at DESC, r.id
LIMIT ?
`

func (q *Queries) ListRaces(ctx context.Context, limit int64) ([]ListRacesRow, error) {
	rows, err := q.db.QueryContext(ctx, listRaces, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRacesRow
	for rows.Next() {
		var i ListRacesRow
		if err := rows.Scan(
			&i.ID,
			&i.Slug,
			&i.EventName,
			&i.CourseName,
			&i.CreatedAt,
			&i.RunnerCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRaceRunners = `
SELECT race_id, position, name, rank_text, time_text, legs, splits
FROM race_runners
WHERE race_id = ?
ORDER BY position
`

func (q *Queries) ListRaceRunners(ctx context.Context, raceID string) ([]RaceRunner, error) {
	rows, err := q.db.QueryContext(ctx, listRaceRunners, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RaceRunner
	for rows.Next() {
		var i RaceRunner
		if err := rows.Scan(
			&i.RaceID,
			&i.Position,
			&i.Name,
			&i.RankText,
			&i.TimeText,
			&i.Legs,
			&i.Splits,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRaceRunners = `
DELETE FROM race_runners WHERE race_id = ?
`

func (q *Queries) DeleteRaceRunners(ctx context.Context, raceID string) error {
	_, err := q.db.ExecContext(ctx, deleteRaceRunners, raceID)
	return err
}

const deleteRace = `
DELETE FROM races WHERE id = ?
`

func (q *Queries) DeleteRace(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRace, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
