package handler

// Job-seeker dashboard endpoints: own applications, applied checks and
// the saved-jobs toggle.  All routes assume JWTAuth + RequireRole have
// already run, so the account in context is an authenticated seeker.

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/repository"
    "github.com/talentbridge/staffing-platform/internal/service"
)

// SeekerHandler groups the services backing the job-seeker surfaces.
type SeekerHandler struct {
    Applications *service.ApplicationService
    SavedJobs    *service.SavedJobService
}

func NewSeekerHandler(applications *service.ApplicationService, savedJobs *service.SavedJobService) *SeekerHandler {
    if applications == nil || savedJobs == nil {
        panic("nil service passed to NewSeekerHandler")
    }
    return &SeekerHandler{Applications: applications, SavedJobs: savedJobs}
}

// ListMyApplications handles GET /v1/my-applications.
func (h *SeekerHandler) ListMyApplications(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    apps, err := h.Applications.ListForApplicant(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load applications"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": apps, "count": len(apps)})
}

// HasApplied handles GET /v1/jobs/:id/applied.  The UI uses it to swap
// the apply button for an "already applied" badge.
func (h *SeekerHandler) HasApplied(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    jobID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    applied, err := h.Applications.HasApplied(ctx, jobID, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"applied": applied})
}

// ToggleSave handles POST /v1/jobs/:id/save.  The response tells the
// client the resulting state rather than what changed, so repeated
// clicks converge instead of flapping on stale reads.
func (h *SeekerHandler) ToggleSave(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    jobID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    saved, err := h.SavedJobs.Toggle(ctx, uid, jobID)
    if err != nil {
        if errors.Is(err, repository.ErrJobNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}

// ListSavedJobs handles GET /v1/saved-jobs.
func (h *SeekerHandler) ListSavedJobs(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.SavedJobs.List(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load saved jobs"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
