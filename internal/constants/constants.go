package constants

import "time"

const (
	CacheEvictionInterval = 1 * time.Minute
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	AnalysisTimeout = 20 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// concurrent per-runner reconstructions during one analysis
	ReconstructWorkers = 8
	RaceListLimit      = 50
	SlugMaxLength      = 64
)
