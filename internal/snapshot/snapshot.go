// Package snapshot serializes the final schedule to its persisted form.
// The document shape ({"updated_at", "movies"}) is the external contract
// consumed downstream and must stay stable.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// UpdatedAtLayout formats the generation timestamp.
const UpdatedAtLayout = "2006-01-02 15:04:05"

// Document is the persisted snapshot: a generation timestamp plus the
// ordered, deduplicated listings.
type Document struct {
	UpdatedAt string             `json:"updated_at"`
	Movies    []pipeline.Listing `json:"movies"`
}

// NewDocument builds a Document. Movies is never nil so the serialized
// form always carries an array.
func NewDocument(listings []pipeline.Listing, now time.Time) Document {
	if listings == nil {
		listings = []pipeline.Listing{}
	}
	return Document{
		UpdatedAt: now.Format(UpdatedAtLayout),
		Movies:    listings,
	}
}

// Writer persists snapshot documents to a JSON file.
type Writer struct {
	path string
}

// NewWriter builds a Writer targeting path.
func NewWriter(path string) (*Writer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return &Writer{path: path}, nil
}

// Write serializes the document, replacing any previous snapshot. The file
// is written whole via a temp file and rename so readers never observe a
// partial document.
func (w *Writer) Write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".marquee-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Holder keeps the latest document in memory for the HTTP read surface.
type Holder struct {
	mu  sync.RWMutex
	doc Document
	set bool
}

// Set replaces the held document.
func (h *Holder) Set(doc Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = doc
	h.set = true
}

// Get returns the held document and whether one has been set yet.
func (h *Holder) Get() (Document, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc, h.set
}
