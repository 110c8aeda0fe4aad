// Package courses implements the course-attempt operations: submit,
// score lookup, catalog query, ranking, and the passed-courses
// listing.
package courses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/origincode/arcmugbot/internal/domain"
	"github.com/origincode/arcmugbot/internal/store"
)

// RankNotifier receives the refreshed ranking of a level after an
// accepted submission. Implementations must not block.
type RankNotifier interface {
	Publish(level int, course string, entries []store.RankEntry)
}

// Service owns the course catalog and the record repository and
// exposes the typed command surface.
type Service struct {
	catalog  domain.Catalog
	repo     store.Repository
	rule     domain.Rule
	notifier RankNotifier
}

// New creates a Service. notifier may be nil.
func New(catalog domain.Catalog, repo store.Repository, rule domain.Rule, notifier RankNotifier) *Service {
	return &Service{
		catalog:  catalog,
		repo:     repo,
		rule:     rule,
		notifier: notifier,
	}
}

// SubmitResult is the outcome of an accepted submission, including the
// course metadata the presentation layer needs.
type SubmitResult struct {
	Course       string
	StartingLife int
	Record       domain.Record
}

// ScoreResult is a stored record joined with its course metadata.
type ScoreResult struct {
	Course       string
	StartingLife int
	Record       domain.Record
}

// RankResult is the ranking of one course level. Entries is empty when
// nobody has passed the course yet; that is a valid outcome, not an
// error.
type RankResult struct {
	Course  string
	Entries []store.RankEntry
}

// PassedCourses lists the course names one user has passed, in
// ascending level order.
type PassedCourses struct {
	Fullname string
	Courses  []string
}

// resolveRule returns the custom rule if one was supplied, otherwise
// the service default. The simulator only ever sees a concrete rule.
func (s *Service) resolveRule(custom *domain.Rule) domain.Rule {
	if custom != nil {
		return *custom
	}
	return s.rule
}

// Calc runs the survival simulation on caller-supplied parameters
// without touching the store.
func (s *Service) Calc(life, heal int, custom *domain.Rule, results []domain.Triple) (int, domain.Status) {
	return domain.Simulate(domain.Submission{
		Life:    life,
		Heal:    heal,
		Rule:    s.resolveRule(custom),
		Results: results,
	})
}

// Submit simulates a course attempt and stores the outcome as the
// user's latest record for that level, overwriting any previous one.
// The record snapshot is persisted before Submit returns; on a
// persistence failure the in-memory record is kept and the error is
// surfaced.
func (s *Service) Submit(ctx context.Context, userID uint64, fullname string, level int, custom *domain.Rule, results []domain.Triple) (SubmitResult, error) {
	course, err := s.catalog.At(level)
	if err != nil {
		return SubmitResult{}, err
	}

	life, status := domain.Simulate(domain.Submission{
		Life:    course.Life,
		Heal:    course.Heal,
		Rule:    s.resolveRule(custom),
		Results: results,
	})
	rec := domain.Record{Life: life, Status: status}

	if err := s.repo.PutRecord(ctx, userID, fullname, level, rec); err != nil {
		return SubmitResult{}, fmt.Errorf("store record for level %d: %w", level, err)
	}

	s.notifyRank(ctx, level, course.Name)

	return SubmitResult{
		Course:       course.Name,
		StartingLife: course.Life,
		Record:       rec,
	}, nil
}

// notifyRank pushes the refreshed ranking to the feed. Best effort: a
// ranking read failure only loses one push, never the submission.
func (s *Service) notifyRank(ctx context.Context, level int, course string) {
	if s.notifier == nil {
		return
	}
	entries, err := s.repo.Rank(ctx, level)
	if err != nil {
		slog.Warn("Failed to refresh ranking for feed", "level", level, "error", err)
		return
	}
	s.notifier.Publish(level, course, entries)
}

// Score looks up the user's stored record for a level. Returns
// store.ErrNotFound when the user never attempted the course.
func (s *Service) Score(ctx context.Context, userID uint64, level int) (ScoreResult, error) {
	course, err := s.catalog.At(level)
	if err != nil {
		return ScoreResult{}, err
	}
	rec, err := s.repo.GetRecord(ctx, userID, level)
	if err != nil {
		return ScoreResult{}, err
	}
	return ScoreResult{
		Course:       course.Name,
		StartingLife: course.Life,
		Record:       rec,
	}, nil
}

// Query returns the course definition for a level. Catalog only; the
// record store is not consulted.
func (s *Service) Query(level int) (*domain.Course, error) {
	return s.catalog.At(level)
}

// Rank returns the passed-only ranking for a level, life descending,
// ties by user id ascending.
func (s *Service) Rank(ctx context.Context, level int) (RankResult, error) {
	course, err := s.catalog.At(level)
	if err != nil {
		return RankResult{}, err
	}
	entries, err := s.repo.Rank(ctx, level)
	if err != nil {
		return RankResult{}, fmt.Errorf("rank level %d: %w", level, err)
	}
	return RankResult{Course: course.Name, Entries: entries}, nil
}

// Passed lists every user's passed courses by name. Records pointing
// at levels no longer in the catalog (a shrunk catalog mid-period) are
// skipped rather than failing the whole listing.
func (s *Service) Passed(ctx context.Context) ([]PassedCourses, error) {
	entries, err := s.repo.Passed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list passed courses: %w", err)
	}

	out := make([]PassedCourses, 0, len(entries))
	for _, e := range entries {
		var names []string
		for _, level := range e.Levels {
			course, err := s.catalog.At(level)
			if err != nil {
				slog.Warn("Stored record references unknown level", "user_id", e.UserID, "level", level)
				continue
			}
			names = append(names, course.Name)
		}
		if len(names) == 0 {
			continue
		}
		out = append(out, PassedCourses{Fullname: e.Fullname, Courses: names})
	}
	return out, nil
}
