package api

import "time"

const (
	// InputCleanupDelay is the delay before removing the uploaded PDF after
	// the extraction response is sent
	InputCleanupDelay = 2 * time.Second

	// JobTTL is how long a finished job and its extracted images stay on
	// disk before being cleaned up
	JobTTL = 30 * time.Minute

	// DefaultFilePermissions for temp and output directory creation
	DefaultFilePermissions = 0755
)
