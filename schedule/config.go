package schedule

import (
	"io"
	"log/slog"
	"runtime"
)

// Config holds the tuning knobs of a Schedule
type Config struct {
	// Logger receives debug records for registrations and queries
	Logger *slog.Logger

	// Sorting
	ParallelSortThreshold int // Occurrence count at which the final sort is split across workers; 0 disables
	SortWorkers           int // Number of chunks sorted concurrently
}

// DefaultConfig provides sensible defaults for most schedules
var DefaultConfig = Config{
	ParallelSortThreshold: 4096,
	SortWorkers:           runtime.GOMAXPROCS(0),
}

// SequentialConfig never sorts in parallel, for callers that already fan out
var SequentialConfig = Config{
	ParallelSortThreshold: 0,
	SortWorkers:           1,
}

// HighThroughputConfig splits smaller buffers across more workers
var HighThroughputConfig = Config{
	ParallelSortThreshold: 1024,
	SortWorkers:           2 * runtime.GOMAXPROCS(0),
}

// Option configures a Schedule
type Option func(*Config)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithParallelSortThreshold sets the buffer size at which sorting goes parallel
func WithParallelSortThreshold(n int) Option {
	return func(c *Config) {
		c.ParallelSortThreshold = n
	}
}

// WithSortWorkers sets the number of concurrent sort chunks
func WithSortWorkers(n int) Option {
	return func(c *Config) {
		c.SortWorkers = n
	}
}

func (c Config) normalize() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.ParallelSortThreshold < 0 {
		c.ParallelSortThreshold = 0
	}
	if c.SortWorkers < 1 {
		c.SortWorkers = 1
	}
	return c
}
