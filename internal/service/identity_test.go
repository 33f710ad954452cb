package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/repository"
)

// stubVerify swaps the bcrypt comparison for the fake store's reversible
// "hash:<plain>" scheme so sign-in tests do not pay for real hashing.
func stubVerify(t *testing.T) {
	t.Helper()
	prev := verifyPassword
	verifyPassword = func(hash, plain string) bool { return hash == "hash:"+plain }
	t.Cleanup(func() { verifyPassword = prev })
}

type identityFixture struct {
	users    *fakeUserStore
	roles    *fakeRoleStore
	profiles *fakeProfileStore
	sessions *fakeSessionStore
	svc      *IdentityService
}

func newIdentityFixture() *identityFixture {
	f := &identityFixture{
		users:    newFakeUserStore(),
		roles:    newFakeRoleStore(),
		profiles: newFakeProfileStore(),
		sessions: newFakeSessionStore(),
	}
	f.svc = NewIdentityService(f.users, f.roles, f.profiles, f.sessions, 4)
	return f
}

func seekerInput(email string) SignUpInput {
	return SignUpInput{
		Email:       email,
		Password:    "hunter2",
		DisplayName: "Dana Cole",
		Role:        model.RoleJobSeeker,
		Attributes:  ProfileAttributes{Phone: "555-0101"},
	}
}

func TestSignUpAssignsRoleAndProfile(t *testing.T) {
	f := newIdentityFixture()

	uid, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	require.NoError(t, err)
	require.NotZero(t, uid)

	role, err := f.roles.Get(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, model.RoleJobSeeker, role)

	p, err := f.profiles.GetByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "Dana Cole", p.DisplayName)
}

func TestSignUpAdminRefused(t *testing.T) {
	f := newIdentityFixture()

	in := seekerInput("mallory@example.com")
	in.Role = model.RoleAdmin
	_, err := f.svc.SignUp(context.Background(), in)
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	// No account may exist after the refusal.
	_, err = f.users.GetByEmail(context.Background(), "mallory@example.com")
	assert.Error(t, err)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newIdentityFixture()

	_, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	require.NoError(t, err)
	_, err = f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestSignUpRoleWriteFailure(t *testing.T) {
	f := newIdentityFixture()
	f.roles.failAssign = errors.New("connection reset")

	uid, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	assert.ErrorIs(t, err, ErrSignupIncomplete)
	// The account id still comes back so the caller can drive the retry.
	require.NotZero(t, uid)

	// The orphan signs in but carries no role.
	stubVerify(t)
	sess, err := f.svc.SignIn(context.Background(), "dana@example.com", "hunter2")
	require.NoError(t, err)
	assert.Empty(t, sess.Role)

	// CompleteSignup repairs it, and a second call is a no-op.
	err = f.svc.CompleteSignup(context.Background(), uid, model.RoleJobSeeker, "Dana Cole", ProfileAttributes{})
	require.NoError(t, err)
	err = f.svc.CompleteSignup(context.Background(), uid, model.RoleJobSeeker, "Dana Cole", ProfileAttributes{})
	require.NoError(t, err)

	sess, err = f.svc.SignIn(context.Background(), "dana@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleJobSeeker, sess.Role)
}

// Remediation must not flip a role that already stuck.
func TestCompleteSignupKeepsExistingRole(t *testing.T) {
	f := newIdentityFixture()

	uid, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	require.NoError(t, err)

	err = f.svc.CompleteSignup(context.Background(), uid, model.RoleEmployer, "Dana Cole", ProfileAttributes{})
	require.NoError(t, err)

	role, err := f.roles.Get(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, model.RoleJobSeeker, role)
}

func TestSignInUniformFailures(t *testing.T) {
	f := newIdentityFixture()
	stubVerify(t)

	uid, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	require.NoError(t, err)

	cases := []struct {
		name     string
		email    string
		password string
		prep     func()
	}{
		{name: "unknown email", email: "nobody@example.com", password: "hunter2"},
		{name: "wrong password", email: "dana@example.com", password: "wrong"},
		{name: "inactive account", email: "dana@example.com", password: "hunter2", prep: func() { f.users.deactivate(uid) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.prep != nil {
				tc.prep()
			}
			_, err := f.svc.SignIn(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestEnsureAccountIdempotent(t *testing.T) {
	f := newIdentityFixture()

	id1, err := f.svc.EnsureAccount(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	id2, err := f.svc.EnsureAccount(context.Background(), "admin@example.com", "different")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestSignOutRevokesTokens(t *testing.T) {
	f := newIdentityFixture()

	require.NoError(t, f.svc.SignOut(context.Background(), 42))
	assert.Equal(t, 1, f.sessions.revoked[42])
}

func TestUpdateProfileScopedToCaller(t *testing.T) {
	f := newIdentityFixture()

	uid, err := f.svc.SignUp(context.Background(), seekerInput("dana@example.com"))
	require.NoError(t, err)

	// The profile claims another user id; the service must pin it back.
	err = f.svc.UpdateProfile(context.Background(), uid, model.Profile{UserID: 999, DisplayName: "Renamed", Phone: "555-0102"})
	require.NoError(t, err)

	p, err := f.profiles.GetByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.DisplayName)
}
