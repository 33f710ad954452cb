package service

import (
	"context"
	"errors"

	"github.com/talentbridge/staffing-platform/internal/repository"
)

// SavedJobStore is the persistence surface for bookmarks.  Insert must
// be backed by a unique (user_id, job_id) index mapping violations to
// repository.ErrSaveExists.
type SavedJobStore interface {
	Insert(ctx context.Context, userID, jobID uint64) error
	Delete(ctx context.Context, userID, jobID uint64) (bool, error)
	Exists(ctx context.Context, userID, jobID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.SavedJobDetail, error)
}

// SavedJobService implements the idempotent save toggle.
type SavedJobService struct {
	saves SavedJobStore
	jobs  JobStore
}

// NewSavedJobService constructs the registry.  Both stores must be non-nil.
func NewSavedJobService(saves SavedJobStore, jobs JobStore) *SavedJobService {
	if saves == nil || jobs == nil {
		panic("nil store passed to NewSavedJobService")
	}
	return &SavedJobService{saves: saves, jobs: jobs}
}

// Toggle flips the bookmark for (userID, jobID) and returns the resulting
// state: true when the posting is now saved, false when it was removed.
// Delete-first keeps the hot path to one statement.  When two toggles
// race on an absent bookmark, the unique index lets exactly one insert
// win; the loser's duplicate violation means the row exists, which is the
// very outcome that caller asked for, so it also reports saved=true.
func (s *SavedJobService) Toggle(ctx context.Context, userID, jobID uint64) (bool, error) {
	removed, err := s.saves.Delete(ctx, userID, jobID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return false, err
	}
	if err := s.saves.Insert(ctx, userID, jobID); err != nil {
		if errors.Is(err, repository.ErrSaveExists) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// IsSaved reports whether the account has bookmarked the posting.
func (s *SavedJobService) IsSaved(ctx context.Context, userID, jobID uint64) (bool, error) {
	return s.saves.Exists(ctx, userID, jobID)
}

// List returns the account's bookmarks with posting details.
func (s *SavedJobService) List(ctx context.Context, userID uint64) ([]repository.SavedJobDetail, error) {
	return s.saves.ListByUser(ctx, userID)
}
