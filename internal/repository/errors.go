// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let higher layers such as services
// and handlers distinguish between expected failure scenarios.  They are
// returned as values compared with errors.Is, never wrapped in panics:
// authorization and uniqueness failures are ordinary outcomes here, not
// faults.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyApplied is returned when an authenticated account submits a
// second application for the same job posting.  Both the pre-insert
// existence check and the unique index on (job_id, applicant_id) map to
// this value, so a race between two concurrent submissions resolves to
// one stored row and one ErrAlreadyApplied.
var ErrAlreadyApplied = errors.New("already applied")

// ErrSaveExists is returned when inserting a saved-job bookmark that
// already exists.  The saved-job toggle treats it as "saved" rather than
// a failure, which is what a racing duplicate toggle should observe.
var ErrSaveExists = errors.New("job already saved")

// ErrRoleAssigned is returned when assigning a role to an account that
// already holds one.  Roles are written once at signup and never change;
// remediation flows treat this as success.
var ErrRoleAssigned = errors.New("role already assigned")

// ErrNoRole is returned when an account has no role assignment.  This is
// the orphaned-signup case: the credential row exists but the role write
// never landed.  Callers must treat such accounts as unauthenticated.
var ErrNoRole = errors.New("no role assigned")

// ErrProfileExists is returned when creating a profile for an account
// that already has one.
var ErrProfileExists = errors.New("profile already exists")
