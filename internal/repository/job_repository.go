// Package repository contains data access logic for job postings.  A
// JobPosting is owned by the employer account that created it; every
// mutating statement in this file re-checks that ownership against the
// current row rather than trusting anything cached by a handler.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/talentbridge/staffing-platform/internal/model"
)

// ErrJobNotFound indicates that a job posting was not located in the DB.
var ErrJobNotFound = errors.New("job posting not found")

// JobRepo manages persistence for job postings.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo constructs a JobRepo with the given DB handle.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

const jobColumns = "id, employer_id, title, description, location, salary_range, is_active, created_at, updated_at"

func scanJob(row interface{ Scan(...any) error }, j *model.JobPosting) error {
	return row.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Location,
		&j.SalaryRange, &j.IsActive, &j.CreatedAt, &j.UpdatedAt)
}

// Create inserts a new posting and populates the generated ID and DB
// default fields (is_active, timestamps) on the given struct.
func (r *JobRepo) Create(ctx context.Context, j *model.JobPosting) error {
	const q = `INSERT INTO job_postings (employer_id, title, description, location, salary_range) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, j.EmployerID, j.Title, j.Description, j.Location, j.SalaryRange)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	// Fetch the freshly inserted row to populate defaults.
	const sel = `SELECT ` + jobColumns + ` FROM job_postings WHERE id = ?`
	return scanJob(r.db.QueryRowContext(ctx, sel, j.ID), j)
}

// GetByID retrieves a posting by its ID.  It returns ErrJobNotFound when
// there is no matching row.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (*model.JobPosting, error) {
	const q = `SELECT ` + jobColumns + ` FROM job_postings WHERE id = ?`
	var j model.JobPosting
	if err := scanJob(r.db.QueryRowContext(ctx, q, id), &j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

// UpdateOwned overwrites the content fields of a posting when it belongs
// to the given employer.  When no row changed, the posting is probed to
// tell "not found" and "not yours" apart: the former maps to
// ErrJobNotFound, the latter to ErrForbidden.
func (r *JobRepo) UpdateOwned(ctx context.Context, j *model.JobPosting, employerID uint64) error {
	const q = `UPDATE job_postings SET title=?, description=?, location=?, salary_range=?, is_active=?
	           WHERE id=? AND employer_id=?`
	res, err := r.db.ExecContext(ctx, q, j.Title, j.Description, j.Location, j.SalaryRange, j.IsActive, j.ID, employerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.ownershipProbe(ctx, j.ID, employerID)
	}
	const sel = `SELECT ` + jobColumns + ` FROM job_postings WHERE id = ?`
	return scanJob(r.db.QueryRowContext(ctx, sel, j.ID), j)
}

// Deactivate soft-deletes a posting.  Admins pass adminOverride=true and
// skip the ownership predicate; employers only ever hit their own rows.
func (r *JobRepo) Deactivate(ctx context.Context, jobID, actorID uint64, adminOverride bool) error {
	var (
		res sql.Result
		err error
	)
	if adminOverride {
		res, err = r.db.ExecContext(ctx,
			"UPDATE job_postings SET is_active=0 WHERE id=?", jobID)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE job_postings SET is_active=0 WHERE id=? AND employer_id=?", jobID, actorID)
	}
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if adminOverride {
			// Row either missing or already inactive; check which.
			if _, err := r.GetByID(ctx, jobID); err != nil {
				return err
			}
			return nil
		}
		return r.ownershipProbe(ctx, jobID, actorID)
	}
	return nil
}

// ownershipProbe resolves an UPDATE that touched zero rows into the
// matching sentinel.  An already-current row (same values) counts as
// success so repeated writes stay idempotent.
func (r *JobRepo) ownershipProbe(ctx context.Context, jobID, employerID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT employer_id FROM job_postings WHERE id=? LIMIT 1", jobID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return err
	}
	if owner != employerID {
		return ErrForbidden
	}
	return nil
}

// ListActive returns active postings newest first, for the public browse
// surface.
func (r *JobRepo) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	const q = `SELECT ` + jobColumns + ` FROM job_postings WHERE is_active=1 ORDER BY created_at DESC`
	return r.list(ctx, q)
}

// ListByEmployer returns every posting owned by the employer, active or
// not, newest first.
func (r *JobRepo) ListByEmployer(ctx context.Context, employerID uint64) ([]model.JobPosting, error) {
	const q = `SELECT ` + jobColumns + ` FROM job_postings WHERE employer_id=? ORDER BY created_at DESC`
	return r.list(ctx, q, employerID)
}

func (r *JobRepo) list(ctx context.Context, q string, args ...any) ([]model.JobPosting, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.JobPosting{}
	for rows.Next() {
		var j model.JobPosting
		if err := scanJob(rows, &j); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
