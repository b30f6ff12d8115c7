package main

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/ecscore/ecs"
	"github.com/plus3/ecscore/ecs/inspect"
)

// maxReportedGroups caps the group table, which grows combinatorially.
const maxReportedGroups = 15

type Report struct {
	// Configuration
	Duration   time.Duration
	Entities   int
	Components int
	Systems    int
	Workers    int
	ChunkSize  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     *inspect.FrameHistory
	Expired        int64
	TeamCensus     int
	Scheduler      *ecs.SchedulerStats
	Storage        ecs.StorageStats
	Groups         []inspect.GroupInfo
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// UpdateStats summarizes the recorded frame times.
type UpdateStats struct {
	Min, Max, Avg time.Duration
	FPS           float64
}

func (r *Report) Updates() UpdateStats {
	frames := r.UpdateTime.Frames()
	if len(frames) == 0 {
		return UpdateStats{}
	}
	s := UpdateStats{
		Min: frames[0],
		Max: r.UpdateTime.Max(),
		Avg: r.UpdateTime.Average(),
		FPS: r.UpdateTime.FPS(),
	}
	for _, f := range frames {
		s.Min = min(s.Min, f)
	}
	return s
}

func (r *Report) GroupTable() (string, error) {
	groups := r.Groups
	if len(groups) > maxReportedGroups {
		groups = groups[:maxReportedGroups]
	}
	var buf bytes.Buffer
	if err := inspect.WriteGroups(&buf, groups); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Component Types:** {{.Components}}
- **Systems:** {{.Systems}}
- **Workers:** {{.Workers}}
- **Chunk Size:** {{.ChunkSize}} bytes

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
{{with .Updates -}}
- **Update Time (last frames):**
  - **Avg:** {{.Avg}} ({{printf "%.0f" .FPS}} updates/s)
  - **Min:** {{.Min}}
  - **Max:** {{.Max}}
{{- end}}
- **Expired and respawned:** {{.Expired}}
- **Team census (last frame):** {{.TeamCensus}}

## Systems
{{range .Scheduler.Systems}}- {{.Name}}: avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}} over {{.ExecutionCount}} runs
{{end}}
## Storage
- Live entities:  {{.Storage.TotalEntityCount}} ({{.Storage.EmptyEntityCount}} without components)
- Groups:         {{.Storage.GroupCount}}
- Chunks:         {{.Storage.ChunkCount}} ({{.Storage.AllocatedBytes | mb}} MiB)

{{.GroupTable}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v int) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
