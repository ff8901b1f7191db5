package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileStore stores traces as JSON files in a directory, one file per
// trace. Intended for CLI usage where no server-side backend exists.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

// NewFileStore creates a file-based trace store rooted at dir. If dir is
// empty it defaults to ~/.config/popover/traces/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "popover", "traces")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	return &FileStore{dir: dir, ttl: DefaultTTL}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Put writes the trace to its file.
func (s *FileStore) Put(ctx context.Context, tr *Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}
	if err := os.WriteFile(s.path(tr.ID), data, 0600); err != nil {
		return fmt.Errorf("write trace file: %w", err)
	}
	return nil
}

// Get reads a trace file. Expired traces are removed and reported as
// missing.
func (s *FileStore) Get(ctx context.Context, id string) (*Trace, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path(id))
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read trace file: %w", err)
	}

	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	if s.expired(tr) {
		// Removal mutates the directory, so it needs the write lock.
		s.mu.Lock()
		_ = os.Remove(s.path(id))
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return &tr, nil
}

// List reads all trace files and returns the newest first.
func (s *FileStore) List(ctx context.Context, limit int) ([]*Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read trace dir: %w", err)
	}

	var traces []*Trace
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var tr Trace
		if err := json.Unmarshal(data, &tr); err != nil {
			continue
		}
		if s.expired(tr) {
			continue
		}
		traces = append(traces, &tr)
	}

	sort.Slice(traces, func(i, j int) bool {
		return traces[i].CreatedAt.After(traces[j].CreatedAt)
	})
	if len(traces) > limit {
		traces = traces[:limit]
	}
	return traces, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) expired(tr Trace) bool {
	return s.ttl > 0 && time.Since(tr.CreatedAt) > s.ttl
}

var _ Store = (*FileStore)(nil)
