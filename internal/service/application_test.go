package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/queue"
	"github.com/talentbridge/staffing-platform/internal/repository"
)

// chanNotifier records events on a channel so tests can wait for the
// out-of-band dispatch deterministically.
type chanNotifier struct {
	events chan queue.ApplicationReceivedEvent
	err    error
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{events: make(chan queue.ApplicationReceivedEvent, 8)}
}

func (n *chanNotifier) NotifyApplicationReceived(_ context.Context, ev queue.ApplicationReceivedEvent) error {
	n.events <- ev
	return n.err
}

func activeJob(id, employerID uint64) *model.JobPosting {
	return &model.JobPosting{ID: id, EmployerID: employerID, Title: "Backend Engineer", IsActive: true}
}

func uintPtr(v uint64) *uint64 { return &v }

func TestSubmitAuthenticated(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	notifier := newChanNotifier()
	svc := NewApplicationService(apps, jobs, notifier)

	app, err := svc.Submit(context.Background(), SubmitInput{
		JobID:       1,
		ApplicantID: uintPtr(42),
		FullName:    "Dana Cole",
		Email:       "dana@example.com",
		Phone:       "555-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, app.Status)
	assert.NotZero(t, app.ID)

	select {
	case ev := <-notifier.events:
		assert.Equal(t, app.ID, ev.ApplicationID)
		assert.Equal(t, "Backend Engineer", ev.JobTitle)
		assert.Equal(t, "dana@example.com", ev.ApplicantEmail)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
	}
}

func TestSubmitDuplicateAuthenticated(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	svc := NewApplicationService(apps, jobs, nil)

	in := SubmitInput{JobID: 1, ApplicantID: uintPtr(42), FullName: "Dana Cole", Email: "dana@example.com"}
	_, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrAlreadyApplied)
	assert.Equal(t, 1, apps.count())
}

func TestSubmitGuestsNeverDedupe(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	svc := NewApplicationService(apps, jobs, nil)

	in := SubmitInput{JobID: 1, FullName: "Guest", Email: "guest@example.com"}
	_, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, apps.count())
}

func TestSubmitInactiveJob(t *testing.T) {
	job := activeJob(1, 10)
	job.IsActive = false
	svc := NewApplicationService(newFakeAppStore(), newFakeJobStore(job), nil)

	_, err := svc.Submit(context.Background(), SubmitInput{JobID: 1, FullName: "Dana", Email: "d@example.com"})
	assert.ErrorIs(t, err, ErrJobInactive)
}

func TestSubmitUnknownJob(t *testing.T) {
	svc := NewApplicationService(newFakeAppStore(), newFakeJobStore(), nil)

	_, err := svc.Submit(context.Background(), SubmitInput{JobID: 99, FullName: "Dana", Email: "d@example.com"})
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
}

// Two racing submissions from the same account must leave exactly one
// application; the loser sees ErrAlreadyApplied.
func TestSubmitConcurrentDoubleApply(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	svc := NewApplicationService(apps, jobs, nil)

	in := SubmitInput{JobID: 1, ApplicantID: uintPtr(42), FullName: "Dana", Email: "d@example.com"}
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(context.Background(), in)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, apps.count())
	dupes := 0
	for _, err := range errs {
		if errors.Is(err, repository.ErrAlreadyApplied) {
			dupes++
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 1, dupes)
}

// A failing notifier must not fail the submission.
func TestSubmitNotifierFailureIgnored(t *testing.T) {
	notifier := newChanNotifier()
	notifier.err = errors.New("broker down")
	svc := NewApplicationService(newFakeAppStore(), newFakeJobStore(activeJob(1, 10)), notifier)

	app, err := svc.Submit(context.Background(), SubmitInput{JobID: 1, FullName: "Guest", Email: "g@example.com"})
	require.NoError(t, err)
	require.NotNil(t, app)

	select {
	case <-notifier.events:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never attempted")
	}
}

func TestHasAppliedIgnoresGuestRows(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	svc := NewApplicationService(apps, jobs, nil)

	// Guest applies with an email, then an account with id 42 (which may
	// well be the same person) asks whether it applied.
	_, err := svc.Submit(context.Background(), SubmitInput{JobID: 1, FullName: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)

	applied, err := svc.HasApplied(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestUpdateStatus(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10))
	svc := NewApplicationService(apps, jobs, nil)

	app, err := svc.Submit(context.Background(), SubmitInput{JobID: 1, FullName: "Dana", Email: "d@example.com"})
	require.NoError(t, err)

	t.Run("owner employer moves status", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusShortlisted, 10, model.RoleEmployer)
		require.NoError(t, err)
		got, _ := apps.GetByID(context.Background(), app.ID)
		assert.Equal(t, model.StatusShortlisted, got.Status)
	})

	t.Run("backwards transition allowed", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusPending, 10, model.RoleEmployer)
		require.NoError(t, err)
		got, _ := apps.GetByID(context.Background(), app.ID)
		assert.Equal(t, model.StatusPending, got.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusPending, 10, model.RoleEmployer)
		assert.NoError(t, err)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, "archived", 10, model.RoleEmployer)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("non-owner employer refused, status untouched", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusRejected, 77, model.RoleEmployer)
		assert.ErrorIs(t, err, repository.ErrForbidden)
		got, _ := apps.GetByID(context.Background(), app.ID)
		assert.Equal(t, model.StatusPending, got.Status)
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusReviewed, 1, model.RoleAdmin)
		require.NoError(t, err)
		got, _ := apps.GetByID(context.Background(), app.ID)
		assert.Equal(t, model.StatusReviewed, got.Status)
	})

	t.Run("seeker refused", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), app.ID, model.StatusAccepted, 42, model.RoleJobSeeker)
		assert.ErrorIs(t, err, repository.ErrForbidden)
	})

	t.Run("missing application", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), 9999, model.StatusReviewed, 1, model.RoleAdmin)
		assert.ErrorIs(t, err, repository.ErrApplicationNotFound)
	})
}

func TestListForJobScoping(t *testing.T) {
	apps := newFakeAppStore()
	jobs := newFakeJobStore(activeJob(1, 10), activeJob(2, 20))
	svc := NewApplicationService(apps, jobs, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{JobID: 1, FullName: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitInput{JobID: 2, FullName: "B", Email: "b@example.com"})
	require.NoError(t, err)

	got, err := svc.ListForJob(context.Background(), 1, 10, model.RoleEmployer)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListForJob(context.Background(), 2, 10, model.RoleEmployer)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	got, err = svc.ListForJob(context.Background(), 2, 1, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListAllAdminOnly(t *testing.T) {
	svc := NewApplicationService(newFakeAppStore(), newFakeJobStore(), nil)

	_, err := svc.ListAll(context.Background(), model.RoleEmployer)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = svc.ListAll(context.Background(), model.RoleAdmin)
	assert.NoError(t, err)
}
