// Package storage persists finished runs: a directory per run holding
// metadata.json and trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes rec and trace. A record without an id gets one.
func (s *Store) Save(rec *Record, trace Trace) (string, error) {
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s_%s", rec.Algorithm, uuid.New().String()[:8])
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, rec.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTraceCSV(csvFile, trace); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// List returns every readable record, newest first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	runs := make([]Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		runs = append(runs, rec)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) LoadTrace(runID string) (Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return ReadTraceCSV(r)
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}
