// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/origincode/arcmugbot/internal/domain"
)

// ErrNotFound indicates a user has no stored record for the requested
// course level. This is a normal empty-result outcome, distinct from
// any I/O failure.
var ErrNotFound = errors.New("record not found")

// RankEntry is one row of a course ranking.
type RankEntry struct {
	UserID   uint64
	Fullname string
	Life     int
}

// PassedEntry lists the levels one user has passed, in ascending
// level order.
type PassedEntry struct {
	UserID   uint64
	Fullname string
	Levels   []int
}

// Repository defines the interface for persisting course records.
type Repository interface {
	// GetRecord retrieves the stored record for a (user, level) pair.
	// Returns ErrNotFound if the user never submitted that level.
	GetRecord(ctx context.Context, userID uint64, level int) (domain.Record, error)

	// PutRecord inserts or overwrites the record for a (user, level)
	// pair, refreshes the user's display name, and persists the whole
	// store before returning. A persistence error is returned to the
	// caller but the in-memory mutation is kept.
	PutRecord(ctx context.Context, userID uint64, fullname string, level int, rec domain.Record) error

	// Rank returns the users who passed the given level, ordered by
	// life remaining descending. Ties are broken by user id ascending
	// so the ordering is reproducible.
	Rank(ctx context.Context, level int) ([]RankEntry, error)

	// Passed returns every user's passed levels, users ordered by id
	// ascending. Users with no passed course are omitted.
	Passed(ctx context.Context) ([]PassedEntry, error)
}
