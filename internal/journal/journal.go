// Package journal keeps the catch log on disk and derives per-player
// bestiaries and odds exports from it.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// CatchRecord is one finished encounter, landed or lost.
type CatchRecord struct {
	At       string  `csv:"at"`
	Player   string  `csv:"player"`
	Zone     string  `csv:"zone"`
	RodID    string  `csv:"rod"`
	BaitID   string  `csv:"bait"`
	FishID   string  `csv:"fish"`
	FishName string  `csv:"fish_name"`
	Rarity   string  `csv:"rarity"`
	Success  bool    `csv:"success"`
	Reason   string  `csv:"reason"`
	Luck     float64 `csv:"luck"`
}

// Stamp sets At from t in RFC 3339 UTC.
func (r *CatchRecord) Stamp(t time.Time) {
	r.At = t.UTC().Format(time.RFC3339)
}

// Journal appends catch records to a CSV file. A nil *Journal discards.
type Journal struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// Open opens path for appending, creating it and its directory if needed.
// Returns nil if path is empty (journal disabled).
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return &Journal{file: f, headerWritten: fi.Size() > 0}, nil
}

// Append writes one record, with the header first if the file was empty.
func (j *Journal) Append(rec CatchRecord) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	records := []CatchRecord{rec}
	if !j.headerWritten {
		if err := gocsv.Marshal(records, j.file); err != nil {
			return fmt.Errorf("writing catch: %w", err)
		}
		j.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, j.file); err != nil {
		return fmt.Errorf("writing catch: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadCatches decodes a catch log.
func ReadCatches(r io.Reader) ([]CatchRecord, error) {
	var out []CatchRecord
	if err := gocsv.Unmarshal(r, &out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catches: %w", err)
	}
	return out, nil
}

// ReadFile decodes the catch log at path. A missing file is an empty log.
func ReadFile(path string) ([]CatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catches: %w", err)
	}
	defer f.Close()
	return ReadCatches(f)
}
