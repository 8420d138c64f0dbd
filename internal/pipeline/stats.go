package pipeline

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// StatsSnapshot aggregates per-document extraction latencies. It is shared
// by the rolling window and by a finished Report.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// LatencyStats keeps the extraction latencies recorded within the last
// window. Samples are appended in arrival order, so expiry only ever
// trims the front.
type LatencyStats struct {
	mu     sync.Mutex
	window time.Duration
	at     []time.Time
	ms     []int64
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{window: window}
}

// Record adds one document's extraction time. Negative durations count
// as zero.
func (s *LatencyStats) Record(d time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire(now)
	s.at = append(s.at, now)
	s.ms = append(s.ms, max(d.Milliseconds(), 0))
}

func (s *LatencyStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	s.expire(now)
	values := slices.Clone(s.ms)
	s.mu.Unlock()

	return summarize(values)
}

// expire drops samples older than the window. Caller holds mu.
func (s *LatencyStats) expire(now time.Time) {
	cutoff := now.Add(-s.window)
	n := sort.Search(len(s.at), func(i int) bool { return !s.at[i].Before(cutoff) })
	if n == 0 {
		return
	}
	s.at = slices.Delete(s.at, 0, n)
	s.ms = slices.Delete(s.ms, 0, n)
}

// summarize sorts values in place and aggregates them.
func summarize(values []int64) StatsSnapshot {
	if len(values) == 0 {
		return StatsSnapshot{}
	}
	slices.Sort(values)

	var sum int64
	for _, v := range values {
		sum += v
	}
	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: quantile(values, 0.50),
		P95Ms: quantile(values, 0.95),
		P99Ms: quantile(values, 0.99),
	}
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []int64, q float64) float64 {
	last := len(sorted) - 1
	pos := q * float64(last)
	i := int(pos)
	if i >= last {
		return float64(sorted[last])
	}
	frac := pos - float64(i)
	return float64(sorted[i]) + frac*float64(sorted[i+1]-sorted[i])
}
