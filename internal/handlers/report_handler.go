package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReportHandler handles moderation report HTTP requests. Resolving a report
// fires the one-shot resolution notification to the reporter.
type ReportHandler struct {
	reportRepository repositories.ReportRepository
	engine           *notifications.Engine
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportRepo repositories.ReportRepository, engine *notifications.Engine) *ReportHandler {
	return &ReportHandler{
		reportRepository: reportRepo,
		engine:           engine,
	}
}

// RegisterReportRoutes registers user-facing report routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
}

// RegisterAdminReportRoutes registers admin moderation routes
func (h *ReportHandler) RegisterAdminReportRoutes(g *echo.Group) {
	g.PUT("/reports/:id", h.ResolveReport)
	g.GET("/reports/count-pending", h.CountPending)
	g.GET("/reports", h.ListPending)
}

// CreateReport files a new moderation report.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report := &models.Report{
		ID:         uuid.NewString(),
		ReporterID: req.ReporterID,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Reason:     req.Reason,
		Status:     models.ReportStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.reportRepository.CreateReport(report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}

// ResolveReport moves a report out of pending and notifies the reporter.
func (h *ReportHandler) ResolveReport(c echo.Context) error {
	adminID := getUserIDFromContext(c)
	reportID := c.Param("id")

	var req models.UpdateReportStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.reportRepository.UpdateStatus(reportID, req.Status, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The status update is the authoritative write; a notification failure
	// must not roll it back.
	if err := h.engine.NotifyReportResolved(c.Request().Context(), report, adminID); err != nil {
		logrus.WithError(err).WithField("report_id", report.ID).
			Error("report resolution notification failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// CountPending returns the number of reports awaiting moderation.
func (h *ReportHandler) CountPending(c echo.Context) error {
	count, err := h.reportRepository.CountPending()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// ListPending returns pending reports, newest first.
func (h *ReportHandler) ListPending(c echo.Context) error {
	reports, err := h.reportRepository.ListByStatus(models.ReportStatusPending, 100)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": reports})
}
