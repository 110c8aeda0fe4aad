package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/origincode/arcmugbot/internal/domain"
)

// SnapshotStore implements Repository over a single JSON snapshot
// file. The whole store is loaded once at construction and rewritten
// wholesale after every mutation, keyed by stringified user id to stay
// compatible with existing record files.
//
// All access goes through one RWMutex: a submission's mutate-persist
// sequence holds the write lock end to end, so concurrent submissions
// for the same user and level cannot lose an update.
type SnapshotStore struct {
	mu      sync.RWMutex
	path    string
	records map[uint64]*domain.UserRecords
}

// NewSnapshot opens the record store backed by the given snapshot
// file. A missing file is not an error: each calendar period gets its
// own file, so a fresh period starts from an empty store.
func NewSnapshot(path string) (*SnapshotStore, error) {
	s := &SnapshotStore{
		path:    path,
		records: make(map[uint64]*domain.UserRecords),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("No record snapshot for this period, starting empty", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("decode record snapshot %s: %w", path, err)
	}
	return s, nil
}

// GetRecord retrieves the stored record for a (user, level) pair.
func (s *SnapshotStore) GetRecord(ctx context.Context, userID uint64, level int) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.records[userID]
	if !ok {
		return domain.Record{}, ErrNotFound
	}
	rec, ok := user.Records[level]
	if !ok {
		return domain.Record{}, ErrNotFound
	}
	return rec, nil
}

// PutRecord inserts or overwrites the record for a (user, level) pair
// and rewrites the snapshot file synchronously.
func (s *SnapshotStore) PutRecord(ctx context.Context, userID uint64, fullname string, level int, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.records[userID]
	if !ok {
		user = &domain.UserRecords{Records: make(map[int]domain.Record)}
		s.records[userID] = user
	}
	user.Fullname = fullname
	user.Records[level] = rec

	if err := s.persistLocked(); err != nil {
		// The in-memory record is deliberately kept: the next
		// successful write re-converges the snapshot.
		return fmt.Errorf("persist record snapshot: %w", err)
	}
	return nil
}

// persistLocked rewrites the snapshot via a temp file and rename so a
// crash mid-write cannot truncate the previous snapshot. Caller must
// hold the write lock.
func (s *SnapshotStore) persistLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Rank returns the users who passed the given level, life descending,
// ties by user id ascending.
func (s *SnapshotStore) Rank(ctx context.Context, level int) ([]RankEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []RankEntry
	for id, user := range s.records {
		rec, ok := user.Records[level]
		if !ok || rec.Status != domain.Passed {
			continue
		}
		entries = append(entries, RankEntry{UserID: id, Fullname: user.Fullname, Life: rec.Life})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Life != entries[j].Life {
			return entries[i].Life > entries[j].Life
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}

// Passed returns every user's passed levels, users by id ascending,
// levels ascending within a user.
func (s *SnapshotStore) Passed(ctx context.Context) ([]PassedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []PassedEntry
	for id, user := range s.records {
		var levels []int
		for level, rec := range user.Records {
			if rec.Status == domain.Passed {
				levels = append(levels, level)
			}
		}
		if len(levels) == 0 {
			continue
		}
		sort.Ints(levels)
		entries = append(entries, PassedEntry{UserID: id, Fullname: user.Fullname, Levels: levels})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries, nil
}
