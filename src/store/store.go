// backend/src/store/store.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/models"
)

var (
	ErrStoreNotFound  = errors.New("store document not found")
	ErrStoreMalformed = errors.New("store document is malformed")
)

const reportsKey = "dailyReports"

// Store owns the JSON document shared with the data-store origin. Reads and the
// read-modify-write of AppendReport are serialised by mu; the document is rewritten through a
// temp file and a rename so a failed write never leaves a truncated file behind.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the typed view of the document. Missing top-level keys decode to zero values.
func (s *Store) Snapshot() (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return models.Snapshot{}, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrStoreMalformed, err)
	}
	return snap, nil
}

// HasReport reports whether a daily report for day is already persisted.
func (s *Store) HasReport(day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return false, err
	}
	reports, err := decodeReports(doc)
	if err != nil {
		return false, err
	}
	return indexOfDay(reports, day) >= 0, nil
}

// Reports returns the persisted daily reports, newest date first.
func (s *Store) Reports() ([]models.DailyReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	reports := snap.DailyReports
	if reports == nil {
		reports = []models.DailyReport{}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Date > reports[j].Date
	})
	return reports, nil
}

// Report returns the persisted report for day, if any.
func (s *Store) Report(day string) (*models.DailyReport, bool, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, false, err
	}
	for i := range snap.DailyReports {
		if snap.DailyReports[i].Date == day {
			return &snap.DailyReports[i], true, nil
		}
	}
	return nil, false, nil
}

// AppendReport persists report unless one with the same date already exists, in which case it
// returns created=false and leaves the document untouched.
func (s *Store) AppendReport(report *models.DailyReport) (bool, error) {
	if report == nil {
		return false, errors.New("nil report")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return false, err
	}
	reports, err := decodeReports(doc)
	if err != nil {
		return false, err
	}
	if indexOfDay(reports, report.Date) >= 0 {
		return false, nil
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("failed to encode report for %s: %w", report.Date, err)
	}
	reports = append(reports, raw)
	encoded, err := json.Marshal(reports)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", reportsKey, err)
	}
	doc[reportsKey] = encoded

	if err := s.write(doc); err != nil {
		return false, err
	}
	logger.L.Info("Daily report persisted", "date", report.Date, "path", s.path, "reportCount", len(reports))
	return true, nil
}

// Version fingerprints the document by modification time and size. Any write through this store or
// the data-store origin changes it.
func (s *Store) Version() (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrStoreNotFound, s.path)
		}
		return "", fmt.Errorf("failed to stat store %s: %w", s.path, err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}
	return data, nil
}

// readDocument decodes only the top level so keys this package does not model keep their values.
func (s *Store) readDocument() (map[string]json.RawMessage, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrStoreMalformed)
	}
	return doc, nil
}

func (s *Store) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for store: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write store temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync store temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close store temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}
	return nil
}

func decodeReports(doc map[string]json.RawMessage) ([]json.RawMessage, error) {
	raw, ok := doc[reportsKey]
	if !ok || string(raw) == "null" {
		return []json.RawMessage{}, nil
	}
	var reports []json.RawMessage
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array: %v", ErrStoreMalformed, reportsKey, err)
	}
	return reports, nil
}

func indexOfDay(reports []json.RawMessage, day string) int {
	for i, raw := range reports {
		var head struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			continue
		}
		if head.Date == day {
			return i
		}
	}
	return -1
}
