package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/model"
)

// Decision is the outcome of a capability-area authorization check.
type Decision int

const (
    // Allow lets the request through.
    Allow Decision = iota
    // DenyUnauthenticated means no usable identity was presented: the
    // role is empty or not a member of the closed role set.  Accounts
    // whose signup never completed the role write land here too, which
    // is exactly the "treat orphans as unauthenticated" rule.
    DenyUnauthenticated
    // DenyForbidden means a valid role was presented but it does not
    // unlock this capability area.  There is no role hierarchy: ADMIN
    // does not inherit employer or seeker areas.
    DenyForbidden
)

// Authorize is the pure authorization decision: given the set of roles a
// capability area admits and the caller's resolved role, it returns
// Allow or the matching denial.  Keeping it a plain function of its
// inputs lets it be tested without a live session or router.
func Authorize(allowed map[string]bool, role string) Decision {
    switch role {
    case model.RoleAdmin, model.RoleEmployer, model.RoleJobSeeker:
        if allowed[role] {
            return Allow
        }
        return DenyForbidden
    default:
        // Empty or unknown role: no identity worth trusting.
        return DenyUnauthenticated
    }
}

// RequireRole returns a middleware enforcing that the authenticated user
// holds one of the specified roles.  The roles correspond to the values
// stored in the JWT's "role" claim, extracted into the context by
// JWTAuth.  Denials map to 401 for missing identity and 403 for a
// mismatched role.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get("role").(string)
            switch Authorize(allowed, role) {
            case Allow:
                return next(c)
            case DenyUnauthenticated:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            default:
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
        }
    }
}
