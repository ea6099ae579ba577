package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/lienquan/karahub/backend/pkg/storage"
	"github.com/sirupsen/logrus"
)

// MomentHandler handles moment (karaoke post) HTTP requests
type MomentHandler struct {
	momentRepository repositories.MomentRepository
	media            *storage.MediaStorage
	engine           *notifications.Engine
}

// NewMomentHandler creates a new MomentHandler
func NewMomentHandler(momentRepo repositories.MomentRepository, media *storage.MediaStorage, engine *notifications.Engine) *MomentHandler {
	return &MomentHandler{
		momentRepository: momentRepo,
		media:            media,
		engine:           engine,
	}
}

// RegisterMomentRoutes registers moment routes
func (h *MomentHandler) RegisterMomentRoutes(g *echo.Group) {
	g.POST("/moments", h.CreateMoment)
	g.GET("/moments/:id", h.GetMoment)
	g.GET("/users/:id/moments", h.GetUserMoments)
	g.DELETE("/moments/:id", h.DeleteMoment)
	g.POST("/moments/:id/like", h.LikeMoment)
	g.DELETE("/moments/:id/like", h.UnlikeMoment)
}

type likeMomentRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// LikeMoment bumps the moment's like counter and notifies its owner through
// the merge engine. A failed notification never fails the like.
func (h *MomentHandler) LikeMoment(c echo.Context) error {
	var req likeMomentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	momentID := c.Param("id")
	moment, err := h.momentRepository.GetMomentByID(ctx, momentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Moment not found")
	}

	if err := h.momentRepository.IncrementLikesCount(ctx, momentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.engine.Trigger(req.UserID, moment.UserID, &momentID, models.NotificationTypeLike); err != nil {
		logrus.WithError(err).WithField("moment_id", momentID).Warn("failed to notify moment owner of like")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Liked"})
}

// UnlikeMoment drops the like counter. The like notification, if any, stays;
// only unfollow retracts notifications.
func (h *MomentHandler) UnlikeMoment(c echo.Context) error {
	ctx := c.Request().Context()
	momentID := c.Param("id")
	if _, err := h.momentRepository.GetMomentByID(ctx, momentID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Moment not found")
	}

	if err := h.momentRepository.DecrementLikesCount(ctx, momentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Unliked"})
}

// CreateMoment creates a moment, hosting its recording in object storage.
func (h *MomentHandler) CreateMoment(c echo.Context) error {
	userID := c.FormValue("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user_id")
	}

	moment := &models.Moment{
		ID:          uuid.NewString(),
		UserID:      userID,
		SongID:      c.FormValue("song_id"),
		Description: c.FormValue("description"),
		CreatedAt:   time.Now(),
	}

	fh, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing media file")
	}
	data, err := readFormFile(fh)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read media file")
	}
	mediaURL, err := h.media.Put(data, fmt.Sprintf("moments/%s/media", moment.ID), fh.Header.Get("Content-Type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	moment.MediaURL = mediaURL

	if err := h.momentRepository.CreateMoment(c.Request().Context(), moment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": moment})
}

// GetMoment returns one moment.
func (h *MomentHandler) GetMoment(c echo.Context) error {
	moment, err := h.momentRepository.GetMomentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Moment not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": moment})
}

// GetUserMoments returns a user's moments, newest first.
func (h *MomentHandler) GetUserMoments(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)

	moments, err := h.momentRepository.GetMomentsByUserID(c.Request().Context(), c.Param("id"), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"moments": moments}})
}

// DeleteMoment removes a moment and its recording. Storage deletion is
// best-effort.
func (h *MomentHandler) DeleteMoment(c echo.Context) error {
	ctx := c.Request().Context()
	moment, err := h.momentRepository.GetMomentByID(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Moment not found")
	}

	if err := h.momentRepository.DeleteMoment(ctx, moment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if moment.MediaURL != "" {
		if err := h.media.Delete(moment.MediaURL); err != nil {
			logrus.WithError(err).WithField("url", moment.MediaURL).Warn("failed to delete moment media")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
