package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/go-chi/chi/v5"
)

// recordSummary describes one outline record in the output directory.
type recordSummary struct {
	Stem       string    `json:"stem"`
	Title      string    `json:"title"`
	Headings   int       `json:"headings"`
	ModifiedAt time.Time `json:"modified_at"`
}

// handleListOutlines lists the records written to the output directory.
func (s *Server) handleListOutlines(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "failed to list outlines: "+err.Error(), http.StatusInternalServerError)
		return
	}

	records := make([]recordSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, e.Name()))
		if err != nil {
			continue
		}
		var out doctree.Outline
		if err := json.Unmarshal(data, &out); err != nil {
			s.log.Warn("skipping unreadable record", "file", e.Name(), "error", err)
			continue
		}
		rec := recordSummary{
			Stem:     strings.TrimSuffix(e.Name(), ".json"),
			Title:    out.Title,
			Headings: len(out.Headings),
		}
		if info, err := e.Info(); err == nil {
			rec.ModifiedAt = info.ModTime().UTC()
		}
		records = append(records, rec)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"outlines": records,
		"count":    len(records),
	})
}

// handleGetOutline returns a stored record verbatim.
func (s *Server) handleGetOutline(w http.ResponseWriter, r *http.Request) {
	path, ok := s.recordPath(w, r)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "outline not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to read outline", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDeleteOutline removes a stored record.
func (s *Server) handleDeleteOutline(w http.ResponseWriter, r *http.Request) {
	path, ok := s.recordPath(w, r)
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "outline not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete outline: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("outline deleted", "stem", filepath.Base(path))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	stem := chi.URLParam(r, "stem")
	if stem == "" || sanitizeFilename(stem) != stem {
		jsonError(w, "invalid outline name", http.StatusBadRequest)
		return "", false
	}
	return filepath.Join(s.cfg.OutputDir, stem+".json"), true
}
