package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/testpdf"
)

func newTestServer(t *testing.T, apiKey string) (*Server, config.Config) {
	t.Helper()
	cfg := config.Config{
		InputDir:         t.TempDir(),
		OutputDir:        t.TempDir(),
		Extensions:       []string{".pdf", ".md"},
		TitleMinSize:     16,
		H1MinSize:        14,
		H2MinSize:        12,
		H3MinSize:        11,
		ValidateOutput:   true,
		DocoutlineAPIKey: apiKey,
		MaxUploadBytes:   1 << 20,
		StatsWindow:      time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(outline.NewExtractor(cfg.Thresholds(), log), nil, log, cfg), cfg
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/outline", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeOutline(t *testing.T, rec *httptest.ResponseRecorder) doctree.Outline {
	t.Helper()
	var out doctree.Outline
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestOutline_PDF(t *testing.T) {
	srv, _ := newTestServer(t, "")
	pdf := testpdf.Build(testpdf.Doc{
		Pages: [][]testpdf.Line{{
			{Font: "Helvetica-Bold", Size: 22, X: 72, Y: 720, Text: "Design Notes"},
			{Font: "Helvetica", Size: 10, X: 72, Y: 690, Text: "Short body paragraph here."},
			{Font: "Helvetica", Size: 10, X: 72, Y: 676, Text: "Another body paragraph."},
			{Font: "Helvetica-Bold", Size: 14, X: 72, Y: 650, Text: "1. Scope"},
		}},
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "notes.pdf", pdf))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(DegradedHeader) != "" {
		t.Error("did not expect degraded header")
	}
	if rec.Header().Get("X-Content-Hash") == "" {
		t.Error("expected content hash header")
	}
	out := decodeOutline(t, rec)
	if out.Title != "Design Notes" {
		t.Errorf("expected title %q, got %q", "Design Notes", out.Title)
	}
	if len(out.Headings) != 1 || out.Headings[0].Text != "1. Scope" || out.Headings[0].Level != doctree.LevelH1 {
		t.Errorf("unexpected headings %+v", out.Headings)
	}
}

func TestOutline_CorruptUploadIsDegraded(t *testing.T) {
	srv, _ := newTestServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "../../broken.pdf", []byte("garbage")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(DegradedHeader) != "true" {
		t.Error("expected degraded header")
	}
	out := decodeOutline(t, rec)
	if out.Title != "broken" || out.Headings == nil || len(out.Headings) != 0 {
		t.Errorf("expected fallback record, got %+v", out)
	}
}

func TestOutline_Rejections(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "sheet.xlsx", []byte("x")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported type: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "page.html", []byte("<h1>x</h1>")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("extension not enabled: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/outline", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing form: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "huge.md", bytes.Repeat([]byte("a"), 2<<20)))
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized upload: expected 400 or 413, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", rec.Code)
	}
}

func TestStats_CountsExtractions(t *testing.T) {
	srv, _ := newTestServer(t, "")
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, uploadRequest(t, "doc.md", []byte("# Doc\n\n## Part\n")))
		if rec.Code != http.StatusOK {
			t.Fatalf("upload %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	var resp struct {
		Window string `json:"window"`
		Stats  struct {
			Count int `json:"count"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.Count != 2 {
		t.Errorf("expected 2 samples, got %d", resp.Stats.Count)
	}
	if resp.Window != "1h0m0s" {
		t.Errorf("unexpected window %q", resp.Window)
	}
}

func TestOutlineRecords(t *testing.T) {
	srv, cfg := newTestServer(t, "")
	record := []byte("{\n  \"title\": \"Report\",\n  \"outline\": []\n}\n")
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, "report.json"), record, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outlines", nil))
	var list struct {
		Outlines []recordSummary `json:"outlines"`
		Count    int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Outlines[0].Stem != "report" || list.Outlines[0].Title != "Report" {
		t.Errorf("unexpected listing %+v", list)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outlines/report", nil))
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), record) {
		t.Errorf("expected stored record, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outlines/a..b", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsafe name, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/outlines/report", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outlines/report", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":        "report.pdf",
		"../../etc/x.pdf":   "x.pdf",
		`C:\docs\file.pdf`:  "C:_docs_file.pdf",
		"":                  "unnamed",
		"a..b.pdf":          "a_b.pdf",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
