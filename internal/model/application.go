package model

import "time"

// Application statuses as exposed to employer and admin clients.  The
// vocabulary is closed but the transition graph is deliberately
// permissive: any status may move to any other, including backwards
// (e.g. accepted -> pending), and setting the current status again is
// a successful no-op.  The engine validates membership only.
const (
    StatusPending     = "pending"
    StatusReviewed    = "reviewed"
    StatusShortlisted = "shortlisted"
    StatusInterviewed = "interviewed"
    StatusAccepted    = "accepted"
    StatusRejected    = "rejected"
)

// ApplicationStatuses lists the closed status vocabulary in workflow order.
var ApplicationStatuses = []string{
    StatusPending,
    StatusReviewed,
    StatusShortlisted,
    StatusInterviewed,
    StatusAccepted,
    StatusRejected,
}

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s string) bool {
    for _, v := range ApplicationStatuses {
        if v == s {
            return true
        }
    }
    return false
}

// Application records a request to be considered for a job posting, as
// stored in the `applications` table.  ApplicantID is nil for guest
// submissions, which are never deduplicated and never retroactively
// linked to an account created later with the same email.  For
// authenticated applicants the pair (job_id, applicant_id) carries a
// unique index so at most one row can exist; MySQL exempts NULL
// applicant_id values from that index, which is exactly the guest
// behaviour we want.
//
// Fields:
//  ID          – primary key identifier.
//  JobID       – posting the application targets.
//  ApplicantID – applying account, nil for guests.
//  FullName    – applicant name as entered on the form.
//  Email       – contact email as entered on the form.
//  Phone       – contact phone as entered on the form.
//  CoverLetter – optional cover letter text (nullable).
//  Status      – one of the Status* constants; new rows start at pending.
//  AppliedAt   – submission timestamp.
//  UpdatedAt   – last status change timestamp.
type Application struct {
    ID          uint64    // applications.id
    JobID       uint64    // applications.job_id
    ApplicantID *uint64   // applications.applicant_id (nullable)
    FullName    string    // applications.full_name
    Email       string    // applications.email
    Phone       string    // applications.phone
    CoverLetter *string   // applications.cover_letter (nullable)
    Status      string    // applications.status
    AppliedAt   time.Time // applications.applied_at
    UpdatedAt   time.Time // applications.updated_at
}
