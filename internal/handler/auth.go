package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "net/mail"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/config"
    "github.com/talentbridge/staffing-platform/internal/middleware"
    "github.com/talentbridge/staffing-platform/internal/model"
    "github.com/talentbridge/staffing-platform/internal/repository"
    "github.com/talentbridge/staffing-platform/internal/service"
    "github.com/talentbridge/staffing-platform/internal/utils"
)

// AuthHandler bundles dependencies for auth, session and profile
// endpoints.  Token persistence stays here rather than in the identity
// service: tokens are transport plumbing, not identity rules.
type AuthHandler struct {
    Cfg      config.Config
    Identity *service.IdentityService
    Tokens   *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, identity *service.IdentityService, tokens *repository.TokenRepo) *AuthHandler {
    if identity == nil || tokens == nil {
        panic("nil dependency passed to NewAuthHandler")
    }
    return &AuthHandler{Cfg: cfg, Identity: identity, Tokens: tokens}
}

// ----- DTOs -----

type profileAttrsReq struct {
    Phone       string  `json:"phone"`
    CompanyName *string `json:"company_name"`
    Headline    *string `json:"headline"`
    Skills      *string `json:"skills"`
    Education   *string `json:"education"`
    ResumeURL   *string `json:"resume_url"`
}

type registerReq struct {
    Email       string          `json:"email"`
    Password    string          `json:"password"`
    DisplayName string          `json:"display_name"`
    Role        string          `json:"role"` // EMPLOYER | JOB_SEEKER
    Profile     profileAttrsReq `json:"profile"`
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type userPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

func (a profileAttrsReq) toAttributes() service.ProfileAttributes {
    return service.ProfileAttributes{
        Phone:       a.Phone,
        CompanyName: a.CompanyName,
        Headline:    a.Headline,
        Skills:      a.Skills,
        Education:   a.Education,
        ResumeURL:   a.ResumeURL,
    }
}

// Register: create account, role assignment and profile, then return a
// token pair immediately.  Only the self-service personas are accepted;
// asking for ADMIN is a 403, not a fallback.  A signup whose role or
// profile write failed still created the account, so the client gets a
// 202 with the account id and retries via /v1/auth/complete-signup.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" || strings.TrimSpace(req.DisplayName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/display_name required"})
    }
    if _, err := mail.ParseAddress(req.Email); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Identity.SignUp(ctx, service.SignUpInput{
        Email:       req.Email,
        Password:    req.Password,
        DisplayName: strings.TrimSpace(req.DisplayName),
        Role:        role,
        Attributes:  req.Profile.toAttributes(),
    })
    if err != nil {
        switch {
        case errors.Is(err, service.ErrRoleNotAllowed):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "role not available for signup"})
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        case errors.Is(err, service.ErrSignupIncomplete):
            // Account exists but persona writes failed; recoverable.
            return c.JSON(http.StatusAccepted, echo.Map{
                "account_id": uid,
                "error":      "signup incomplete, retry via /v1/auth/complete-signup",
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
    }

    return h.issueTokens(c, ctx, http.StatusCreated, service.Session{AccountID: uid, Email: req.Email, Role: role})
}

// CompleteSignup retries the role/profile writes for a partially created
// account.  Idempotent: repeating it after success is a no-op.
func (h *AuthHandler) CompleteSignup(c echo.Context) error {
    var req struct {
        AccountID   uint64          `json:"account_id"`
        Role        string          `json:"role"`
        DisplayName string          `json:"display_name"`
        Profile     profileAttrsReq `json:"profile"`
    }
    if err := c.Bind(&req); err != nil || req.AccountID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_id required"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    role := strings.ToUpper(strings.TrimSpace(req.Role))
    err := h.Identity.CompleteSignup(ctx, req.AccountID, role, strings.TrimSpace(req.DisplayName), req.Profile.toAttributes())
    if err != nil {
        if errors.Is(err, service.ErrRoleNotAllowed) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "role not available for signup"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "complete signup failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "complete"})
}

// Login: verify credentials and return a new token pair.  The error for
// unknown email and wrong password is identical on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Identity.SignIn(ctx, req.Email, req.Password)
    if err != nil {
        if errors.Is(err, service.ErrInvalidCredentials) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return h.issueTokens(c, ctx, http.StatusOK, sess)
}

// issueTokens mints an access/refresh pair for the session and persists
// the refresh hash.  The raw refresh token goes back to the client once.
func (h *AuthHandler) issueTokens(c echo.Context, ctx context.Context, status int, sess service.Session) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, sess.AccountID, sess.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, sess.AccountID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }
    return c.JSON(status, authResp{
        User:    userPart{ID: sess.AccountID, Email: sess.Email, Role: sess.Role},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Refresh: validate by hash, revoke the old token, issue a new pair.
// The role in the fresh access token is re-resolved from the role store
// rather than copied from the old token, so a completed signup picks up
// its role on the next rotation.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    sess, err := h.Identity.CurrentSession(ctx, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
    }
    return h.issueTokens(c, ctx, http.StatusOK, sess)
}

// Logout revokes every refresh token of the account.  The route carries
// no middleware, so the handler resolves the caller itself: a valid
// bearer access token identifies the account directly, and failing that
// a refresh token in the body does, which lets a session with an
// expired access token still sign out.  Calling it twice is fine; the
// second call revokes nothing.
func (h *AuthHandler) Logout(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, ok := middleware.ParseBearerAccount(c, h.Cfg.JWTSecret)
    if !ok {
        var req refreshReq
        if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        userID, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)))
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        uid = userID
    }

    if err := h.Identity.SignOut(ctx, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the current session with the role re-resolved from the
// store.  Accounts stuck in the orphaned-signup state get their account
// id and an empty role plus a hint at the remediation endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Identity.CurrentSession(ctx, uid)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
    }
    if sess.Role == "" {
        return c.JSON(http.StatusOK, echo.Map{
            "session": sess,
            "warning": "signup incomplete, finish via /v1/auth/complete-signup",
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"session": sess})
}

// GetProfile returns the authenticated account's own profile.
func (h *AuthHandler) GetProfile(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Identity.GetProfile(ctx, uid)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
    }
    return c.JSON(http.StatusOK, profileResp(p))
}

// UpdateProfile overwrites the authenticated account's profile fields.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req struct {
        DisplayName string `json:"display_name"`
        profileAttrsReq
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if strings.TrimSpace(req.DisplayName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p := model.Profile{
        DisplayName: strings.TrimSpace(req.DisplayName),
        Phone:       req.Phone,
        CompanyName: req.CompanyName,
        Headline:    req.Headline,
        Skills:      req.Skills,
        Education:   req.Education,
        ResumeURL:   req.ResumeURL,
    }
    if err := h.Identity.UpdateProfile(ctx, uid, p); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

func profileResp(p model.Profile) echo.Map {
    return echo.Map{
        "user_id":      p.UserID,
        "display_name": p.DisplayName,
        "phone":        p.Phone,
        "company_name": p.CompanyName,
        "headline":     p.Headline,
        "skills":       p.Skills,
        "education":    p.Education,
        "resume_url":   p.ResumeURL,
    }
}
