package model

import "time"

// JobPosting represents a row in the `job_postings` table.  A posting
// is owned exclusively by the employer account that created it; only
// that owner or an admin may change it.  Deactivated postings stay in
// the table but stop accepting applications and drop out of public
// listings.
//
// Fields:
//  ID          – primary key identifier.
//  EmployerID  – owning employer account.
//  Title       – posting title.
//  Description – full description text.
//  Location    – free-form location string.
//  SalaryRange – advertised salary range (nullable).
//  IsActive    – whether the posting accepts applications.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type JobPosting struct {
    ID          uint64    // job_postings.id
    EmployerID  uint64    // job_postings.employer_id
    Title       string    // job_postings.title
    Description string    // job_postings.description
    Location    string    // job_postings.location
    SalaryRange *string   // job_postings.salary_range (nullable)
    IsActive    bool      // job_postings.is_active
    CreatedAt   time.Time // job_postings.created_at
    UpdatedAt   time.Time // job_postings.updated_at
}

// SavedJob models a bookmark row in the `saved_jobs` table.  The pair
// (user_id, job_id) carries a unique index: toggling a save removes the
// existing row instead of inserting a second one, and a racing double
// insert leaves exactly one survivor.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – account that saved the posting.
//  JobID   – saved posting.
//  SavedAt – when the bookmark was created.
type SavedJob struct {
    ID      uint64    // saved_jobs.id
    UserID  uint64    // saved_jobs.user_id
    JobID   uint64    // saved_jobs.job_id
    SavedAt time.Time // saved_jobs.saved_at
}
