package model

import "time"

// User represents an account record as stored in the `users` table.
// The table together with `refresh_tokens` forms the credential side
// of the system: it owns the email/password pair and nothing else.
// Persona data lives in `role_assignments` and `profiles`, which are
// written separately at signup and may lag behind a freshly created
// user row when a signup is interrupted.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Role names stored in role_assignments.role.  The set is closed: every
// account carries exactly one of these, assigned at signup and never
// changed afterwards.  ADMIN accounts are provisioned out-of-band and
// can not be created through the public signup endpoint.
const (
    RoleAdmin     = "ADMIN"      // back-office administrators
    RoleEmployer  = "EMPLOYER"   // accounts that own job postings
    RoleJobSeeker = "JOB_SEEKER" // accounts that apply to postings
)

// SelfServiceRole reports whether a role may be chosen during public
// signup.  Only the two end-user personas qualify.
func SelfServiceRole(role string) bool {
    return role == RoleEmployer || role == RoleJobSeeker
}

// ValidRole reports whether the string is a member of the closed role set.
func ValidRole(role string) bool {
    switch role {
    case RoleAdmin, RoleEmployer, RoleJobSeeker:
        return true
    }
    return false
}

// RoleAssignment models a row in the `role_assignments` table.  The
// user_id column carries a unique index so an account can never hold
// more than one role.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the assignment (unique).
//  Role      – one of the Role* constants.
//  CreatedAt – timestamp of creation.
type RoleAssignment struct {
    ID        uint64    // role_assignments.id
    UserID    uint64    // role_assignments.user_id
    Role      string    // role_assignments.role
    CreatedAt time.Time // role_assignments.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
