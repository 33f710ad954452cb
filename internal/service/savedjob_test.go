package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/staffing-platform/internal/repository"
)

func TestToggleFlipsState(t *testing.T) {
	saves := newFakeSavedJobStore()
	svc := NewSavedJobService(saves, newFakeJobStore(activeJob(1, 10)))

	saved, err := svc.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.True(t, saved)

	on, err := svc.IsSaved(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.True(t, on)

	saved, err = svc.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.False(t, saved)

	on, err = svc.IsSaved(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestToggleUnknownJob(t *testing.T) {
	svc := NewSavedJobService(newFakeSavedJobStore(), newFakeJobStore())

	_, err := svc.Toggle(context.Background(), 42, 99)
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
}

// A posting deactivated after being saved can still be un-saved: the
// job lookup only guards the insert path.
func TestToggleRemovesSaveOfDeactivatedJob(t *testing.T) {
	job := activeJob(1, 10)
	jobs := newFakeJobStore(job)
	saves := newFakeSavedJobStore()
	svc := NewSavedJobService(saves, jobs)

	_, err := svc.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	job.IsActive = false

	saved, err := svc.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.False(t, saved)
}

// Concurrent toggles on an absent bookmark must all succeed and agree on
// the final state: the unique index collapses racing inserts onto one
// row and the duplicate loser reports saved=true like the winner.
func TestToggleConcurrentInsert(t *testing.T) {
	saves := newFakeSavedJobStore()
	svc := NewSavedJobService(saves, newFakeJobStore(activeJob(1, 10)))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Toggle(context.Background(), 42, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	// Whatever interleaving happened, the registry holds zero or one row,
	// never duplicates.
	details, err := saves.ListByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(details), 1)
}

func TestListScopedToUser(t *testing.T) {
	saves := newFakeSavedJobStore()
	svc := NewSavedJobService(saves, newFakeJobStore(activeJob(1, 10), activeJob(2, 10)))

	_, err := svc.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	_, err = svc.Toggle(context.Background(), 43, 2)
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint64(1), mine[0].SavedJob.JobID)
}
