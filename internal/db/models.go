package db

import (
	"time"
)

type Race struct {
	ID           string
	Slug         string
	EventName    string
	CourseName   string
	Source       string
	CourseLabels string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RaceRunner struct {
	RaceID   string
	Position int64
	Name     string
	RankText string
	TimeText string
	Legs     string
	Splits   string
}

type ListRacesRow struct {
	ID          string
	Slug        string
	EventName   string
	CourseName  string
	CreatedAt   time.Time
	RunnerCount int64
}
