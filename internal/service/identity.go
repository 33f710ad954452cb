// Package service implements the business rules of the platform on top
// of narrow store interfaces.  Handlers own HTTP concerns; repositories
// own SQL; everything with an invariant worth testing lives here, with
// its collaborators injected so tests can substitute in-memory fakes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/repository"
	"github.com/talentbridge/staffing-platform/internal/utils"
)

// verifyPassword indirection keeps the bcrypt dependency in one spot.
var verifyPassword = utils.VerifyPassword

// ErrInvalidCredentials is returned for any failed sign-in.  Unknown
// email and wrong password collapse into the same value so the API never
// confirms whether an address has an account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRoleNotAllowed is returned when signup requests a role outside the
// self-service set.  Admin accounts are provisioned out-of-band; this is
// an authorization boundary, not a validation nicety.
var ErrRoleNotAllowed = errors.New("role not available for signup")

// ErrSignupIncomplete is returned (together with the new account id)
// when the credential row was created but the role or profile write
// failed afterwards.  The credential store offers no transaction
// spanning both writes, so the remedy is retrying the missing writes via
// CompleteSignup, not rolling the account back.
var ErrSignupIncomplete = errors.New("signup incomplete: role or profile write failed")

// UserStore is the credential-provider surface the identity service
// consumes.  Password hashing happens behind it.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RoleStore maps accounts to their single persona tag.
type RoleStore interface {
	Assign(ctx context.Context, userID uint64, role string) error
	Get(ctx context.Context, userID uint64) (string, error)
}

// ProfileStore persists persona attributes keyed by account.
type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByUser(ctx context.Context, userID uint64) (model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}

// SessionStore is the slice of the token repository the identity service
// needs for sign-out.
type SessionStore interface {
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// ProfileAttributes carries the persona-specific fields collected at
// signup.  Employer signups fill CompanyName; seekers the rest.
type ProfileAttributes struct {
	Phone       string
	CompanyName *string
	Headline    *string
	Skills      *string
	Education   *string
	ResumeURL   *string
}

// SignUpInput bundles everything needed to create an account.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	Attributes  ProfileAttributes
}

// Session is the resolved identity handed to authorization decisions.
// Role is empty when the account has no role assignment; the route guard
// must treat such a session as unauthenticated.
type Session struct {
	AccountID uint64 `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// IdentityService wraps the credential store and resolves personas.
type IdentityService struct {
	users      UserStore
	roles      RoleStore
	profiles   ProfileStore
	sessions   SessionStore
	bcryptCost int
}

// NewIdentityService constructs the service.  All stores must be non-nil.
func NewIdentityService(users UserStore, roles RoleStore, profiles ProfileStore, sessions SessionStore, bcryptCost int) *IdentityService {
	if users == nil || roles == nil || profiles == nil || sessions == nil {
		panic("nil store passed to NewIdentityService")
	}
	return &IdentityService{users: users, roles: roles, profiles: profiles, sessions: sessions, bcryptCost: bcryptCost}
}

// SignUp creates the account, its role assignment and its profile.  Only
// the self-service roles pass the boundary check.  When the user row
// exists but a later write fails, the new account id is returned together
// with ErrSignupIncomplete so the caller can drive CompleteSignup.
func (s *IdentityService) SignUp(ctx context.Context, in SignUpInput) (uint64, error) {
	if !model.SelfServiceRole(in.Role) {
		return 0, ErrRoleNotAllowed
	}
	uid, err := s.users.Create(ctx, in.Email, in.Password, s.bcryptCost)
	if err != nil {
		return 0, err
	}
	if err := s.writePersona(ctx, uid, in.Role, in.DisplayName, in.Attributes); err != nil {
		return uid, fmt.Errorf("%w: %v", ErrSignupIncomplete, err)
	}
	return uid, nil
}

// CompleteSignup retries the role and profile writes for an account whose
// signup was interrupted.  It is idempotent: writes that already landed
// report their already-exists sentinels and count as done.
func (s *IdentityService) CompleteSignup(ctx context.Context, accountID uint64, role, displayName string, attrs ProfileAttributes) error {
	if !model.SelfServiceRole(role) {
		return ErrRoleNotAllowed
	}
	// Never let remediation flip a role that already stuck.
	if existing, err := s.roles.Get(ctx, accountID); err == nil && existing != "" {
		role = existing
	}
	return s.writePersona(ctx, accountID, role, displayName, attrs)
}

func (s *IdentityService) writePersona(ctx context.Context, accountID uint64, role, displayName string, attrs ProfileAttributes) error {
	if err := s.roles.Assign(ctx, accountID, role); err != nil && !errors.Is(err, repository.ErrRoleAssigned) {
		return err
	}
	p := &model.Profile{
		UserID:      accountID,
		DisplayName: displayName,
		Phone:       attrs.Phone,
		CompanyName: attrs.CompanyName,
		Headline:    attrs.Headline,
		Skills:      attrs.Skills,
		Education:   attrs.Education,
		ResumeURL:   attrs.ResumeURL,
	}
	if err := s.profiles.Create(ctx, p); err != nil && !errors.Is(err, repository.ErrProfileExists) {
		return err
	}
	return nil
}

// EnsureAccount creates a credential row for the email if none exists
// and returns the account id either way.  It backs the boot-time admin
// seed; an existing account's password is left alone.
func (s *IdentityService) EnsureAccount(ctx context.Context, email, password string) (uint64, error) {
	uid, err := s.users.Create(ctx, email, password, s.bcryptCost)
	if err == nil {
		return uid, nil
	}
	if !errors.Is(err, repository.ErrEmailExists) {
		return 0, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// SignIn verifies the email/password pair and resolves the account's
// role.  All credential failures, including inactive accounts, surface
// as ErrInvalidCredentials.  A missing role assignment is not a sign-in
// failure; the session simply carries an empty role.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !u.IsActive || !verifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	role, err := s.roles.Get(ctx, u.ID)
	if err != nil && !errors.Is(err, repository.ErrNoRole) {
		return Session{}, err
	}
	return Session{AccountID: u.ID, Email: u.Email, Role: role}, nil
}

// CurrentSession re-resolves the role for an authenticated account id.
// Token claims are convenient but stale; anything that matters re-checks
// through here or directly against the store.
func (s *IdentityService) CurrentSession(ctx context.Context, accountID uint64) (Session, error) {
	u, err := s.users.GetByID(ctx, accountID)
	if err != nil {
		return Session{}, err
	}
	role, err := s.roles.Get(ctx, u.ID)
	if err != nil && !errors.Is(err, repository.ErrNoRole) {
		return Session{}, err
	}
	return Session{AccountID: u.ID, Email: u.Email, Role: role}, nil
}

// SignOut revokes every live refresh token for the account.  Calling it
// again is a no-op.
func (s *IdentityService) SignOut(ctx context.Context, accountID uint64) error {
	return s.sessions.RevokeAllForUser(ctx, accountID)
}

// GetProfile returns the account's own profile.
func (s *IdentityService) GetProfile(ctx context.Context, accountID uint64) (model.Profile, error) {
	return s.profiles.GetByUser(ctx, accountID)
}

// UpdateProfile overwrites the account's own profile attributes.  The
// UserID on the profile is forced to the caller; there is no path to
// another account's row.
func (s *IdentityService) UpdateProfile(ctx context.Context, accountID uint64, p model.Profile) error {
	p.UserID = accountID
	return s.profiles.Update(ctx, &p)
}
