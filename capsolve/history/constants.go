package history

import "time"

const (
	EnabledByDefault = true

	SQLiteFilename = "history.db"
)

const (
	DBBusyTimeout  = 120 * time.Second
	DBCacheSizeKiB = 64 * 1024

	WriteRetryInitialInterval = 100 * time.Millisecond
	WriteRetryMaxElapsed      = 5 * time.Second

	DefaultListLimit = 50
)
