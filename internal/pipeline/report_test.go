package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestReport_Counts(t *testing.T) {
	r := NewReport("run-1")
	r.Add(FileResult{File: "a.pdf", Status: StatusCompleted, Duration: 10 * time.Millisecond})
	r.Add(FileResult{File: "b.pdf", Status: StatusDegraded, Duration: 30 * time.Millisecond})
	r.Add(FileResult{File: "c.pdf", Status: StatusCompleted, Duration: 20 * time.Millisecond})
	r.Add(FileResult{File: "d.pdf", Status: StatusWriteFailed, Duration: 40 * time.Millisecond})
	r.Finish()

	snap := r.Snapshot()
	want := Counts{Total: 4, Completed: 2, Degraded: 1, WriteFailed: 1}
	if snap.Counts != want {
		t.Errorf("expected %+v, got %+v", want, snap.Counts)
	}
	if snap.RunID != "run-1" {
		t.Errorf("expected run id %q, got %q", "run-1", snap.RunID)
	}
	if snap.Latency.Count != 4 || snap.Latency.MinMs != 10 || snap.Latency.MaxMs != 40 {
		t.Errorf("unexpected latency %+v", snap.Latency)
	}
	if snap.FinishedAt.Before(snap.StartedAt) {
		t.Error("expected finish after start")
	}
}

func TestReport_SnapshotIsCopy(t *testing.T) {
	r := NewReport("run-2")
	r.Add(FileResult{File: "a.pdf", Status: StatusCompleted})

	snap := r.Snapshot()
	snap.Files[0].File = "changed"

	if r.Snapshot().Files[0].File != "a.pdf" {
		t.Error("snapshot mutation leaked into report")
	}
}
