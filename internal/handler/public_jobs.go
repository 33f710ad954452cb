package handler

// Public browse and apply endpoints.  Everything here is reachable
// without authentication: guests can list active postings, open a
// posting, and submit an application.  The apply endpoint additionally
// honours an optional bearer token so an authenticated job seeker's
// submission is linked to their account (and deduplicated), while a
// guest's is stored with no account link at all.

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/config"
    "github.com/talentbridge/staffing-platform/internal/middleware"
    "github.com/talentbridge/staffing-platform/internal/repository"
    "github.com/talentbridge/staffing-platform/internal/service"
)

// PublicHandler serves the unauthenticated surfaces.
type PublicHandler struct {
    Cfg          config.Config
    Jobs         *repository.JobRepo
    Applications *service.ApplicationService
}

func NewPublicHandler(cfg config.Config, jobs *repository.JobRepo, applications *service.ApplicationService) *PublicHandler {
    if jobs == nil || applications == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Cfg: cfg, Jobs: jobs, Applications: applications}
}

// ListJobs handles GET /v1/jobs: active postings, newest first.
func (h *PublicHandler) ListJobs(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    jobs, err := h.Jobs.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load jobs"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": jobs, "count": len(jobs)})
}

// GetJob handles GET /v1/jobs/:id.  Inactive postings stay reachable by
// direct link (applicants with a stale tab get a clear "closed" signal
// from the apply endpoint instead of a 404 here).
func (h *PublicHandler) GetJob(c echo.Context) error {
    jobID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job, err := h.Jobs.GetByID(ctx, jobID)
    if err != nil {
        if errors.Is(err, repository.ErrJobNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load job"})
    }
    return c.JSON(http.StatusOK, job)
}

type applyReq struct {
    FullName    string  `json:"full_name"`
    Email       string  `json:"email"`
    Phone       string  `json:"phone"`
    CoverLetter *string `json:"cover_letter"`
}

// Apply handles POST /v1/jobs/:id/apply.  A valid bearer token
// links the application to that account and enables the one-application
// rule; no token (or an invalid one) means a guest submission, which is
// accepted any number of times.
func (h *PublicHandler) Apply(c echo.Context) error {
    jobID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    var req applyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.FullName = strings.TrimSpace(req.FullName)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.FullName == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name/email required"})
    }

    var applicantID *uint64
    if uid, ok := middleware.ParseBearerAccount(c, h.Cfg.JWTSecret); ok {
        applicantID = &uid
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    app, err := h.Applications.Submit(ctx, service.SubmitInput{
        JobID:       jobID,
        ApplicantID: applicantID,
        FullName:    req.FullName,
        Email:       req.Email,
        Phone:       strings.TrimSpace(req.Phone),
        CoverLetter: req.CoverLetter,
    })
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrJobNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        case errors.Is(err, service.ErrJobInactive):
            return c.JSON(http.StatusConflict, echo.Map{"error": "job is no longer accepting applications"})
        case errors.Is(err, repository.ErrAlreadyApplied):
            // Expected outcome, surfaced as a notice the UI can render
            // inline rather than a failure page.
            return c.JSON(http.StatusConflict, echo.Map{"error": "already applied"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit application failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "application_id": app.ID,
        "status":         app.Status,
        "applied_at":     app.AppliedAt.UTC().Format(time.RFC3339),
    })
}
