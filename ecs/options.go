package ecs

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures an Entities instance.
type Options struct {
	// ChunkSize is the byte size of each chunk.
	ChunkSize int
	// Workers bounds the goroutines used by ParallelForEach. Zero means GOMAXPROCS.
	Workers int
	// Debug makes panics raised by query callbacks propagate to the caller.
	// When false they are logged and iteration continues with the next entity.
	Debug bool
	Logger zerolog.Logger
	// NewDataContainer creates the auxiliary container attached to each entity.
	// A nil func disables auxiliary containers.
	NewDataContainer func(EntityId) DataContainer
	// InitialCapacity sizes the entity location map.
	InitialCapacity int
}

// DefaultOptions returns the options used by NewEntities.
func DefaultOptions() Options {
	return Options{
		ChunkSize:        DefaultChunkSize,
		Workers:          runtime.GOMAXPROCS(0),
		Logger:           log.Logger,
		NewDataContainer: NewPushedData,
		InitialCapacity:  1024,
	}
}

func (o Options) normalized() Options {
	if o.ChunkSize <= chunkHeaderSize {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.InitialCapacity <= 0 {
		o.InitialCapacity = 1024
	}
	return o
}
