package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/talentbridge/staffing-platform/internal/model"
)

// ProfileRepo persists persona attributes in the 'profiles' table.  One
// row per account (profiles.user_id is unique), created during signup
// and mutated afterwards only by the owning account.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Create inserts the profile row for an account.  A duplicate surfaces
// as ErrProfileExists so signup remediation can treat it as done.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, display_name, phone, company_name, headline, skills, education, resume_url)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.UserID, p.DisplayName, p.Phone, p.CompanyName, p.Headline, p.Skills, p.Education, p.ResumeURL)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrProfileExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByUser returns the profile owned by the given account.  The caller
// receives sql.ErrNoRows untouched when no profile exists yet.
func (r *ProfileRepo) GetByUser(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, display_name, phone, company_name, headline, skills, education, resume_url, created_at, updated_at
		 FROM profiles WHERE user_id=? LIMIT 1`,
		userID).Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Phone, &p.CompanyName,
		&p.Headline, &p.Skills, &p.Education, &p.ResumeURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Update overwrites the mutable attributes of the caller's own profile.
// The WHERE clause is keyed on user_id, so an account can never touch a
// profile it does not own regardless of what the handler passes in.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET display_name=?, phone=?, company_name=?, headline=?, skills=?, education=?, resume_url=?
		 WHERE user_id=?`,
		p.DisplayName, p.Phone, p.CompanyName, p.Headline, p.Skills, p.Education, p.ResumeURL, p.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "no such profile" from "values unchanged".
		var exists bool
		if probeErr := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id=?)", p.UserID).Scan(&exists); probeErr != nil {
			return probeErr
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	return nil
}
