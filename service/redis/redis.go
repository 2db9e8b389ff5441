package redis

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")

	// ErrGapTime is returned when no pool can serve the command
	ErrGapTime = errors.New("no pool available")
)

// Forever marks a key without expiry
const Forever = time.Duration(-1)
