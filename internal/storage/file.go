package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"weddingbot/internal/schedule"
	logx "weddingbot/pkg/logx"
)

// fileStore persists the schedule as one JSON document. Saves go through a
// temp file and an atomic rename so readers never observe a partial write.
type fileStore struct {
	log  logx.Logger
	mu   sync.Mutex
	path string
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) LoadSchedule(ctx context.Context) ([]schedule.Announcement, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// First run.
			return nil, nil
		}
		return nil, err
	}

	var list []schedule.Announcement
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *fileStore) SaveSchedule(ctx context.Context, list []schedule.Announcement) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if list == nil {
		list = []schedule.Announcement{}
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	s.log.Debug("schedule saved", logx.String("path", s.path), logx.Int("count", len(list)))
	return nil
}
