package handler

// Employer dashboard endpoints: posting CRUD and application review for
// owned postings.  Ownership is enforced twice — the posting repository
// scopes its UPDATEs by employer_id, and the application service
// re-reads ownership before any status change or scoped listing.

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/model"
    "github.com/talentbridge/staffing-platform/internal/repository"
    "github.com/talentbridge/staffing-platform/internal/service"
)

// EmployerHandler groups the dependencies for employer surfaces.
type EmployerHandler struct {
    Jobs         *repository.JobRepo
    Applications *service.ApplicationService
}

func NewEmployerHandler(jobs *repository.JobRepo, applications *service.ApplicationService) *EmployerHandler {
    if jobs == nil || applications == nil {
        panic("nil dependency passed to NewEmployerHandler")
    }
    return &EmployerHandler{Jobs: jobs, Applications: applications}
}

type jobReq struct {
    Title       string  `json:"title"`
    Description string  `json:"description"`
    Location    string  `json:"location"`
    SalaryRange *string `json:"salary_range"`
    IsActive    *bool   `json:"is_active"`
}

// CreateJob handles POST /v1/jobs.
func (h *EmployerHandler) CreateJob(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req jobReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" || strings.TrimSpace(req.Description) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/description required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    job := &model.JobPosting{
        EmployerID:  uid,
        Title:       req.Title,
        Description: req.Description,
        Location:    strings.TrimSpace(req.Location),
        SalaryRange: req.SalaryRange,
    }
    if err := h.Jobs.Create(ctx, job); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
    }
    return c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PUT/PATCH /v1/jobs/:id for the owning employer.
func (h *EmployerHandler) UpdateJob(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    jobID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    var req jobReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    // Load current values so a partial body only changes what it names.
    current, err := h.Jobs.GetByID(ctx, jobID)
    if err != nil {
        if errors.Is(err, repository.ErrJobNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
    }
    if t := strings.TrimSpace(req.Title); t != "" {
        current.Title = t
    }
    if d := strings.TrimSpace(req.Description); d != "" {
        current.Description = d
    }
    if l := strings.TrimSpace(req.Location); l != "" {
        current.Location = l
    }
    if req.SalaryRange != nil {
        current.SalaryRange = req.SalaryRange
    }
    if req.IsActive != nil {
        current.IsActive = *req.IsActive
    }

    if err := h.Jobs.UpdateOwned(ctx, current, uid); err != nil {
        switch {
        case errors.Is(err, repository.ErrJobNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job failed"})
    }
    return c.JSON(http.StatusOK, current)
}

// DeactivateJob handles DELETE /v1/jobs/:id.  The row survives; it just
// stops accepting applications and drops out of public listings.
func (h *EmployerHandler) DeactivateJob(c echo.Context) error {
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

    admin := getRole(c) == model.RoleAdmin
    if err := h.Jobs.Deactivate(ctx, jobID, uid, admin); err != nil {
        switch {
        case errors.Is(err, repository.ErrJobNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate job failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListMyJobs handles GET /v1/employer/jobs: all postings owned by the
// caller, active or not.
func (h *EmployerHandler) ListMyJobs(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    jobs, err := h.Jobs.ListByEmployer(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load jobs"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": jobs, "count": len(jobs)})
}

// ListJobApplications handles GET /v1/jobs/:id/applications.  Employers
// only ever see applications for postings they own; admins reach this
// same handler through their own route group and see any posting's.
func (h *EmployerHandler) ListJobApplications(c echo.Context) error {
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

    apps, err := h.Applications.ListForJob(ctx, jobID, uid, getRole(c))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrJobNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load applications"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": apps, "count": len(apps)})
}

// UpdateApplicationStatus handles PATCH /v1/applications/:id/status for
// both employer and admin route groups.  Repeating the current status is
// a 200, matching the engine's idempotent no-op contract.
func (h *EmployerHandler) UpdateApplicationStatus(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    appID, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
    }
    var req struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    err = h.Applications.UpdateStatus(ctx, appID, strings.ToLower(strings.TrimSpace(req.Status)), uid, getRole(c))
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        case errors.Is(err, repository.ErrApplicationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        case errors.Is(err, repository.ErrJobNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}
