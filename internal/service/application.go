package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/queue"
	"github.com/talentbridge/staffing-platform/internal/repository"
)

// ErrInvalidStatus is returned when a status update names a value outside
// the closed vocabulary.  Membership is the only validation: the
// transition graph is intentionally permissive and any status may move to
// any other, including backwards.
var ErrInvalidStatus = errors.New("invalid application status")

// ErrJobInactive is returned when submitting to a deactivated posting.
var ErrJobInactive = errors.New("job posting is not accepting applications")

// ApplicationStore is the persistence surface the lifecycle engine needs.
// The implementation must back Create with a unique index on
// (job_id, applicant_id) and map its violation to ErrAlreadyApplied.
type ApplicationStore interface {
	Create(ctx context.Context, a *model.Application) error
	GetByID(ctx context.Context, id uint64) (*model.Application, error)
	ExistsForApplicant(ctx context.Context, jobID, applicantID uint64) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	ListByJob(ctx context.Context, jobID uint64) ([]model.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error)
	ListAll(ctx context.Context) ([]model.Application, error)
}

// JobStore is the read surface for resolving posting ownership.
type JobStore interface {
	GetByID(ctx context.Context, id uint64) (*model.JobPosting, error)
}

// Notifier is the best-effort outbound channel told about new
// applications.  Implementations may fail; the engine logs and moves on.
type Notifier interface {
	NotifyApplicationReceived(ctx context.Context, ev queue.ApplicationReceivedEvent) error
}

// SubmitInput carries one application submission.  ApplicantID is nil
// for guests.
type SubmitInput struct {
	JobID       uint64
	ApplicantID *uint64
	FullName    string
	Email       string
	Phone       string
	CoverLetter *string
}

// ApplicationService creates, transitions and queries applications.
type ApplicationService struct {
	apps     ApplicationStore
	jobs     JobStore
	notifier Notifier
}

// NewApplicationService constructs the engine.  The notifier may be nil,
// in which case submissions simply skip the outbound event.
func NewApplicationService(apps ApplicationStore, jobs JobStore, notifier Notifier) *ApplicationService {
	if apps == nil || jobs == nil {
		panic("nil store passed to NewApplicationService")
	}
	return &ApplicationService{apps: apps, jobs: jobs, notifier: notifier}
}

// Submit persists a new application.  For authenticated applicants an
// existence pre-check catches the common double-apply cheaply, but the
// store's unique index is what guarantees a single survivor when two
// submissions race; both paths report repository.ErrAlreadyApplied.
// Guest submissions never dedupe.  Success is defined solely by the
// persisted write: the notification is dispatched out-of-band afterwards
// and its failure is logged, never returned.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*model.Application, error) {
	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, ErrJobInactive
	}
	if in.ApplicantID != nil {
		exists, err := s.apps.ExistsForApplicant(ctx, in.JobID, *in.ApplicantID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, repository.ErrAlreadyApplied
		}
	}
	app := &model.Application{
		JobID:       in.JobID,
		ApplicantID: in.ApplicantID,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		CoverLetter: in.CoverLetter,
		Status:      model.StatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	s.dispatchNotification(app, job)
	return app, nil
}

// dispatchNotification fires the new-application event without holding
// the request open.  The goroutine gets its own deadline so a hung
// broker cannot pile up senders forever.
func (s *ApplicationService) dispatchNotification(app *model.Application, job *model.JobPosting) {
	if s.notifier == nil {
		return
	}
	ev := queue.ApplicationReceivedEvent{
		ApplicationID:  app.ID,
		JobID:          job.ID,
		JobTitle:       job.Title,
		ApplicantName:  app.FullName,
		ApplicantEmail: app.Email,
		SubmittedAt:    app.AppliedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.NotifyApplicationReceived(ctx, ev); err != nil {
			log.Printf("application notify failed (application_id=%d): %v", ev.ApplicationID, err)
		}
	}()
}

// UpdateStatus moves an application to newStatus on behalf of an actor.
// Authorization is re-checked here against the current posting row, not
// any cached claim: the actor must be an admin, or the employer that
// owns the referenced posting.  Setting the status the row already holds
// is a successful no-op.
func (s *ApplicationService) UpdateStatus(ctx context.Context, appID uint64, newStatus string, actorID uint64, actorRole string) error {
	if !model.ValidStatus(newStatus) {
		return ErrInvalidStatus
	}
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if err := s.authorizeActor(ctx, app.JobID, actorID, actorRole); err != nil {
		return err
	}
	if app.Status == newStatus {
		return nil
	}
	return s.apps.UpdateStatus(ctx, appID, newStatus)
}

// HasApplied reports whether the account has an application for the job.
// Guest applications carry no account and therefore never count, even if
// the same person signed up later with the same email.
func (s *ApplicationService) HasApplied(ctx context.Context, jobID, accountID uint64) (bool, error) {
	return s.apps.ExistsForApplicant(ctx, jobID, accountID)
}

// ListForJob returns the applications for one posting, scoped by actor:
// admins see any posting's applications, employers only their own
// postings', everyone else is refused.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, actorID uint64, actorRole string) ([]model.Application, error) {
	if err := s.authorizeActor(ctx, jobID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.apps.ListByJob(ctx, jobID)
}

// ListForApplicant returns the account's own applications.
func (s *ApplicationService) ListForApplicant(ctx context.Context, accountID uint64) ([]model.Application, error) {
	return s.apps.ListByApplicant(ctx, accountID)
}

// ListAll returns every application.  Callers gate this behind the admin
// role; the service enforces it again to be safe.
func (s *ApplicationService) ListAll(ctx context.Context, actorRole string) ([]model.Application, error) {
	if actorRole != model.RoleAdmin {
		return nil, repository.ErrForbidden
	}
	return s.apps.ListAll(ctx)
}

// authorizeActor resolves whether the actor may manage applications for
// the given posting.  Ownership is read from the store at call time so a
// posting transferred or deleted since the actor's token was minted
// cannot be exploited.
func (s *ApplicationService) authorizeActor(ctx context.Context, jobID, actorID uint64, actorRole string) error {
	switch actorRole {
	case model.RoleAdmin:
		return nil
	case model.RoleEmployer:
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.EmployerID != actorID {
			return repository.ErrForbidden
		}
		return nil
	default:
		return repository.ErrForbidden
	}
}
