package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// RoleRepo maps an account id to exactly one persona tag via the
// 'role_assignments' table.  The user_id column carries a unique index,
// so a second assignment for the same account fails at the store level
// no matter how the write was raced.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Assign writes the single role for an account.  A duplicate assignment
// surfaces as ErrRoleAssigned; remediation flows that retry a partially
// failed signup treat that as success.
func (r *RoleRepo) Assign(ctx context.Context, userID uint64, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO role_assignments (user_id, role) VALUES (?,?)",
		userID, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoleAssigned
		}
		return err
	}
	return nil
}

// Get returns the role assigned to an account, or ErrNoRole when the
// account has none (the orphaned-signup case).
func (r *RoleRepo) Get(ctx context.Context, userID uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM role_assignments WHERE user_id=? LIMIT 1",
		userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoRole
		}
		return "", err
	}
	return role, nil
}
