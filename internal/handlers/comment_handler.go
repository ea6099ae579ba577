package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const commentListLimit = 50

// CommentHandler handles moment comment HTTP requests. Creating a comment is
// one of the event sources feeding the notification engine.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	momentRepository  repositories.MomentRepository
	engine            *notifications.Engine
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, momentRepo repositories.MomentRepository, engine *notifications.Engine) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		momentRepository:  momentRepo,
		engine:            engine,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/moments/:momentId/comments", h.CreateComment)
	g.GET("/moments/:momentId/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment stores a comment and notifies the moment's owner through the
// merge engine. A failed notification never fails the comment.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	momentID := c.Param("momentId")
	moment, err := h.momentRepository.GetMomentByID(c.Request().Context(), momentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Moment not found")
	}

	comment := &models.MomentComment{
		MomentID:  momentID,
		UserID:    req.UserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.engine.Trigger(req.UserID, moment.UserID, &momentID, models.NotificationTypeComment); err != nil {
		logrus.WithError(err).WithField("moment_id", momentID).Warn("failed to notify moment owner of comment")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments returns a moment's comments, newest first, capped at 50.
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.commentRepository.GetCommentsByMomentID(c.Param("momentId"), commentListLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != getUserIDFromContext(c) && getUserRoleFromContext(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
