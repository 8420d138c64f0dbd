package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// FileStatus is the outcome of one input file in a batch.
type FileStatus string

const (
	StatusCompleted   FileStatus = "completed"
	StatusDegraded    FileStatus = "degraded"
	StatusWriteFailed FileStatus = "write_failed"
)

// FileResult records what happened to one input file.
type FileResult struct {
	File     string        `json:"file"`
	Output   string        `json:"output"`
	Status   FileStatus    `json:"status"`
	Title    string        `json:"title"`
	Headings int           `json:"headings"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	ContentHash string `json:"content_hash,omitempty"`
}

// Report aggregates a batch run. It is safe for concurrent reads while
// the runner appends to it.
type Report struct {
	mu sync.Mutex

	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	files []FileResult
}

func NewReport(runID string) *Report {
	return &Report{
		RunID:     runID,
		StartedAt: time.Now(),
	}
}

// Add records a file result.
func (r *Report) Add(res FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, res)
}

// Finish stamps the completion time.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
}

// Counts tallies results per status.
type Counts struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Degraded    int `json:"degraded"`
	WriteFailed int `json:"write_failed"`
}

// ReportSnapshot is a read-only, JSON-safe copy of report state.
type ReportSnapshot struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Counts     Counts        `json:"counts"`
	Files      []FileResult  `json:"files"`
	Latency    StatsSnapshot `json:"latency"`
}

// Snapshot returns a JSON-safe copy of the report with latency figures
// computed from the recorded file durations.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]FileResult, len(r.files))
	copy(files, r.files)

	var c Counts
	durations := make([]int64, 0, len(files))
	for _, f := range files {
		c.Total++
		switch f.Status {
		case StatusCompleted:
			c.Completed++
		case StatusDegraded:
			c.Degraded++
		case StatusWriteFailed:
			c.WriteFailed++
		}
		durations = append(durations, f.Duration.Milliseconds())
	}

	return ReportSnapshot{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Counts:     c,
		Files:      files,
		Latency:    summarize(durations),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
