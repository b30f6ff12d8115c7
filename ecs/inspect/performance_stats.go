package inspect

import (
	"fmt"
	"io"
	"time"

	"github.com/plus3/ecscore/ecs"
	"github.com/rs/zerolog"
)

// FrameHistory keeps the durations of the most recent frames.
type FrameHistory struct {
	frames []time.Duration
	next   int
	filled bool
}

func NewFrameHistory(historyFrames int) *FrameHistory {
	return &FrameHistory{frames: make([]time.Duration, max(historyFrames, 1))}
}

// Record adds a frame, evicting the oldest one once the history is full.
func (h *FrameHistory) Record(d time.Duration) {
	h.frames[h.next] = d
	h.next = (h.next + 1) % len(h.frames)
	if h.next == 0 {
		h.filled = true
	}
}

// Len returns the number of recorded frames still held.
func (h *FrameHistory) Len() int {
	if h.filled {
		return len(h.frames)
	}
	return h.next
}

// Frames returns the held frames, oldest first.
func (h *FrameHistory) Frames() []time.Duration {
	if !h.filled {
		return append([]time.Duration(nil), h.frames[:h.next]...)
	}
	out := make([]time.Duration, 0, len(h.frames))
	out = append(out, h.frames[h.next:]...)
	return append(out, h.frames[:h.next]...)
}

func (h *FrameHistory) Average() time.Duration {
	n := h.Len()
	if n == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range h.frames[:n] {
		total += d
	}
	return total / time.Duration(n)
}

func (h *FrameHistory) Max() time.Duration {
	var longest time.Duration
	for _, d := range h.frames[:h.Len()] {
		longest = max(longest, d)
	}
	return longest
}

// FPS is the frame rate implied by the average frame time.
func (h *FrameHistory) FPS() float64 {
	avg := h.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

// GetDeltaTime returns the seconds elapsed since the previous call, in the
// unit Scheduler.Once expects.
func (ft *FrameTimer) GetDeltaTime() float64 {
	now := time.Now()
	delta := now.Sub(ft.lastFrameTime).Seconds()
	ft.lastFrameTime = now
	return delta
}

// WriteSummary writes entity totals and, when history is non-nil, frame timings.
func WriteSummary(w io.Writer, e *ecs.Entities, history *FrameHistory) error {
	stats := e.CollectStats()
	_, err := fmt.Fprintf(w, "Total Entities: %d (%d without components)\nGroups: %d\nChunks: %d (%d KiB)\n",
		stats.TotalEntityCount, stats.EmptyEntityCount, stats.GroupCount,
		stats.ChunkCount, stats.AllocatedBytes/1024)
	if err != nil || history == nil || history.Len() == 0 {
		return err
	}
	_, err = fmt.Fprintf(w, "Avg Frame Time: %.2f ms (%.0f FPS), max %.2f ms\n",
		ms(history.Average()), history.FPS(), ms(history.Max()))
	return err
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// LogStats emits the storage totals at info level and one debug line per group.
func LogStats(log zerolog.Logger, e *ecs.Entities) {
	stats := e.CollectStats()
	log.Info().
		Int("entities", stats.TotalEntityCount).
		Int("groups", stats.GroupCount).
		Int("chunks", stats.ChunkCount).
		Int("bytes", stats.AllocatedBytes).
		Msg("entity storage")

	for _, g := range stats.GroupBreakdown {
		log.Debug().
			Int("group", g.Index).
			Strs("components", g.ComponentTypes).
			Int("entities", g.EntityCount).
			Int("chunks", g.ChunkCount).
			Int("capacity", g.ChunkCapacity).
			Msg("entity group")
	}
}
