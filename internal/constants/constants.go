package constants

import "time"

const (
	ExternalAPITimeout = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	SyncTimeout        = 30 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	// Persistence of admitted logs may run in parallel across distinct log
	// ids, never across operations on the same log.
	PersistWorkers = 4
)

const (
	// The archive caps search results at 10000 entries per request.
	SearchLimitMax = 10000
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	ReportLimitDefault = 20
	ReportLimitMax     = 500
)
