// Package checkpoint persists the single resume slot for an interrupted
// encode. At most one checkpoint exists at a time; it names one file and the
// absolute frame to resume from.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint records where an interrupted encode should resume.
type Checkpoint struct {
	File      string `json:"file"`
	Frame     int64  `json:"frame"`
	Timestamp int64  `json:"timestamp"`
}

// Store manages the checkpoint file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save atomically overwrites the checkpoint slot. The record is written to a
// temporary file in the same directory and renamed into place so a crash
// mid-write leaves either the old record or the new one, never a torn file.
func (s *Store) Save(file string, frame int64) error {
	record := Checkpoint{File: file, Frame: frame, Timestamp: time.Now().Unix()}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Load returns the stored checkpoint, or nil when the slot is absent or
// unreadable. Corruption is treated as absence and never surfaces an error.
func (s *Store) Load() *Checkpoint {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var record Checkpoint
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	if record.File == "" || record.Frame < 0 {
		return nil
	}
	return &record
}

// Clear removes the checkpoint slot. Clearing an absent slot is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
