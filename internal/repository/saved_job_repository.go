package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/talentbridge/staffing-platform/internal/model"
)

// SavedJobRepo provides data access to the saved_jobs table.  The pair
// (user_id, job_id) carries a unique index, which is what makes the
// toggle safe under concurrent requests: two racing inserts leave one
// surviving row and one ErrSaveExists.
type SavedJobRepo struct {
	db *sql.DB
}

// NewSavedJobRepo returns a SavedJobRepo bound to the provided database.
func NewSavedJobRepo(db *sql.DB) *SavedJobRepo { return &SavedJobRepo{db: db} }

// Insert creates a bookmark row.  A duplicate pair maps to ErrSaveExists.
func (r *SavedJobRepo) Insert(ctx context.Context, userID, jobID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO saved_jobs (user_id, job_id) VALUES (?,?)",
		userID, jobID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSaveExists
		}
		return err
	}
	return nil
}

// Delete removes the bookmark for (userID, jobID) and reports whether a
// row was actually deleted.
func (r *SavedJobRepo) Delete(ctx context.Context, userID, jobID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM saved_jobs WHERE user_id=? AND job_id=?",
		userID, jobID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether the account has bookmarked the posting.
func (r *SavedJobRepo) Exists(ctx context.Context, userID, jobID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM saved_jobs WHERE user_id=? AND job_id=?)",
		userID, jobID).Scan(&exists)
	return exists, err
}

// SavedJobDetail joins a bookmark with its posting for listing back to
// the account that saved it.
type SavedJobDetail struct {
	SavedJob model.SavedJob   `json:"saved"`
	Job      model.JobPosting `json:"job"`
}

// ListByUser returns the account's bookmarks with posting details,
// newest bookmark first.  Postings deactivated after being saved still
// appear; the client decides how to render them.
func (r *SavedJobRepo) ListByUser(ctx context.Context, userID uint64) ([]SavedJobDetail, error) {
	const q = `SELECT s.id, s.user_id, s.job_id, s.saved_at,
	                  j.id, j.employer_id, j.title, j.description, j.location, j.salary_range, j.is_active, j.created_at, j.updated_at
	           FROM saved_jobs s
	           JOIN job_postings j ON j.id = s.job_id
	           WHERE s.user_id = ?
	           ORDER BY s.saved_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SavedJobDetail{}
	for rows.Next() {
		var d SavedJobDetail
		if err := rows.Scan(
			&d.SavedJob.ID, &d.SavedJob.UserID, &d.SavedJob.JobID, &d.SavedJob.SavedAt,
			&d.Job.ID, &d.Job.EmployerID, &d.Job.Title, &d.Job.Description, &d.Job.Location,
			&d.Job.SalaryRange, &d.Job.IsActive, &d.Job.CreatedAt, &d.Job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
