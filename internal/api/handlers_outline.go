package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/schema"
)

// DegradedHeader is set on responses carrying the fallback record.
const DegradedHeader = "X-Outline-Degraded"

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) || !s.cfg.Accepts(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res := s.extract(filename, data)

	body, err := pipeline.EncodeOutline(res.Outline)
	if err == nil && s.cfg.ValidateOutput {
		err = schema.Validate(body)
	}
	if err != nil {
		s.log.Error("encode outline failed", "file", filename, "error", err)
		jsonError(w, "failed to encode outline", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Hash", pipeline.ContentHashHex(data))
	if res.Degraded() {
		w.Header().Set(DegradedHeader, "true")
	}
	w.Write(body)
}

// extract runs one document through the engine while holding the server
// lock.
func (s *Server) extract(filename string, data []byte) outline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res := s.extractor.Process(filename, pipeline.Stem(filename), func() (outline.Source, error) {
		return pipeline.ParseDocument(bytes.NewReader(data), filename)
	})
	elapsed := time.Since(start)
	s.stats.Record(elapsed)

	if res.Degraded() {
		s.log.Warn("extraction failed, returning fallback", "file", filename, "error", res.Err)
	} else {
		s.log.Info("outline extracted", "file", filename,
			"title", res.Outline.Title,
			"headings", len(res.Outline.Headings),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return res
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"window": s.cfg.StatsWindow.String(),
		"stats":  s.stats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
