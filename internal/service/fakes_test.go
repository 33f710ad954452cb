package service

// In-memory fakes standing in for the SQL repositories.  They enforce
// the same unique-index semantics the real tables do (duplicate
// violations surface as the repository sentinels) so the services can be
// exercised, including under concurrency, without a database.

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/repository"
)

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[uint64]*model.JobPosting
}

func newFakeJobStore(jobs ...*model.JobPosting) *fakeJobStore {
	s := &fakeJobStore{jobs: make(map[uint64]*model.JobPosting)}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) GetByID(_ context.Context, id uint64) (*model.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

type fakeAppStore struct {
	mu     sync.Mutex
	nextID uint64
	apps   map[uint64]*model.Application
}

func newFakeAppStore() *fakeAppStore {
	return &fakeAppStore{apps: make(map[uint64]*model.Application)}
}

func (s *fakeAppStore) Create(_ context.Context, a *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ApplicantID != nil {
		for _, ex := range s.apps {
			if ex.JobID == a.JobID && ex.ApplicantID != nil && *ex.ApplicantID == *a.ApplicantID {
				return repository.ErrAlreadyApplied
			}
		}
	}
	s.nextID++
	a.ID = s.nextID
	a.AppliedAt = time.Now()
	a.UpdatedAt = a.AppliedAt
	cp := *a
	s.apps[a.ID] = &cp
	return nil
}

func (s *fakeAppStore) GetByID(_ context.Context, id uint64) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAppStore) ExistsForApplicant(_ context.Context, jobID, applicantID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.JobID == jobID && a.ApplicantID != nil && *a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAppStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return repository.ErrApplicationNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (s *fakeAppStore) ListByJob(_ context.Context, jobID uint64) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Application
	for _, a := range s.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAppStore) ListByApplicant(_ context.Context, applicantID uint64) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Application
	for _, a := range s.apps {
		if a.ApplicantID != nil && *a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAppStore) ListAll(_ context.Context) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Application
	for _, a := range s.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (s *fakeAppStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

type fakeSavedJobStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[[2]uint64]model.SavedJob // keyed by (userID, jobID)
}

func newFakeSavedJobStore() *fakeSavedJobStore {
	return &fakeSavedJobStore{rows: make(map[[2]uint64]model.SavedJob)}
}

func (s *fakeSavedJobStore) Insert(_ context.Context, userID, jobID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := [2]uint64{userID, jobID}
	if _, ok := s.rows[k]; ok {
		return repository.ErrSaveExists
	}
	s.nextID++
	s.rows[k] = model.SavedJob{ID: s.nextID, UserID: userID, JobID: jobID, SavedAt: time.Now()}
	return nil
}

func (s *fakeSavedJobStore) Delete(_ context.Context, userID, jobID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := [2]uint64{userID, jobID}
	if _, ok := s.rows[k]; !ok {
		return false, nil
	}
	delete(s.rows, k)
	return true, nil
}

func (s *fakeSavedJobStore) Exists(_ context.Context, userID, jobID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[[2]uint64{userID, jobID}]
	return ok, nil
}

func (s *fakeSavedJobStore) ListByUser(_ context.Context, userID uint64) ([]repository.SavedJobDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.SavedJobDetail
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, repository.SavedJobDetail{SavedJob: r})
		}
	}
	return out, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
	// failCreate, when set, makes Create return this error.
	failCreate error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint64]model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, email, password string, _ int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return 0, s.failCreate
	}
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = model.User{ID: s.nextID, Email: email, PasswordHash: "hash:" + password, IsActive: true}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeUserStore) deactivate(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.IsActive = false
	s.users[id] = u
}

type fakeRoleStore struct {
	mu    sync.Mutex
	roles map[uint64]string
	// failAssign, when set, makes Assign return this error once, then clear.
	failAssign error
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[uint64]string)}
}

func (s *fakeRoleStore) Assign(_ context.Context, userID uint64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAssign != nil {
		err := s.failAssign
		s.failAssign = nil
		return err
	}
	if _, ok := s.roles[userID]; ok {
		return repository.ErrRoleAssigned
	}
	s.roles[userID] = role
	return nil
}

func (s *fakeRoleStore) Get(_ context.Context, userID uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[userID]
	if !ok {
		return "", repository.ErrNoRole
	}
	return r, nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uint64]model.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uint64]model.Profile)}
}

func (s *fakeProfileStore) Create(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; ok {
		return repository.ErrProfileExists
	}
	s.profiles[p.UserID] = *p
	return nil
}

func (s *fakeProfileStore) GetByUser(_ context.Context, userID uint64) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *fakeProfileStore) Update(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; !ok {
		return sql.ErrNoRows
	}
	s.profiles[p.UserID] = *p
	return nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	revoked map[uint64]int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{revoked: make(map[uint64]int)}
}

func (s *fakeSessionStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[userID]++
	return nil
}
